package pools

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/pairs"
)

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestNormalizer(minReserve float64) *Normalizer {
	return NewNormalizer(minReserve, WithClock(func() time.Time { return fixedNow }))
}

func snapshot() *domain.PoolSnapshot {
	return &domain.PoolSnapshot{
		Token0:   "WAX",
		Token1:   "TACO",
		Reserve0: 1000.0,
		Reserve1: 2000.0,
		Source:   "swap.taco",
	}
}

func TestNormalize_CanonicalInversion(t *testing.T) {
	n := newTestNormalizer(1.0)

	// WAX/TACO is stored inverted: the canonical pair is TACO_WAX and the
	// price must be WAX per TACO.
	rec, err := n.Normalize(snapshot())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if rec.PairID != "TACO_WAX" {
		t.Errorf("PairID = %s, want TACO_WAX", rec.PairID)
	}

	raw := 2000.0 / (1000.0 + pairs.Epsilon)
	want := 1 / (raw + pairs.Epsilon)
	if math.Abs(rec.Price-want) > 1e-12 {
		t.Errorf("Price = %v, want %v", rec.Price, want)
	}
	if !rec.Active {
		t.Error("validated pool should be active")
	}
	if !rec.LastUpdate.Equal(fixedNow) {
		t.Errorf("LastUpdate = %v, want %v", rec.LastUpdate, fixedNow)
	}
	if rec.Reserve0 != 1000.0 || rec.Reserve1 != 2000.0 {
		t.Errorf("raw reserves not preserved: %v / %v", rec.Reserve0, rec.Reserve1)
	}
}

func TestNormalize_NotInverted(t *testing.T) {
	n := newTestNormalizer(1.0)

	snap := snapshot()
	snap.Token0 = "TACO"
	snap.Token1 = "WAX"

	rec, err := n.Normalize(snap)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := 2000.0 / (1000.0 + pairs.Epsilon)
	if math.Abs(rec.Price-want) > 1e-12 {
		t.Errorf("Price = %v, want %v", rec.Price, want)
	}
}

func TestNormalize_MissingFields(t *testing.T) {
	n := newTestNormalizer(1.0)

	for _, mutate := range []func(*domain.PoolSnapshot){
		func(s *domain.PoolSnapshot) { s.Token0 = "" },
		func(s *domain.PoolSnapshot) { s.Token1 = "" },
		func(s *domain.PoolSnapshot) { s.Source = "" },
	} {
		snap := snapshot()
		mutate(snap)
		if _, err := n.Normalize(snap); !errors.Is(err, ErrMissingFields) {
			t.Errorf("expected ErrMissingFields, got %v", err)
		}
	}

	if _, err := n.Normalize(nil); !errors.Is(err, ErrMissingFields) {
		t.Errorf("nil snapshot: expected ErrMissingFields, got %v", err)
	}
}

func TestNormalize_NonNumericReserves(t *testing.T) {
	n := newTestNormalizer(0)

	snap := snapshot()
	snap.Reserve1 = math.NaN()
	if _, err := n.Normalize(snap); !errors.Is(err, ErrInvalidReserves) {
		t.Errorf("NaN reserve: expected ErrInvalidReserves, got %v", err)
	}

	snap = snapshot()
	snap.Reserve0 = math.Inf(1)
	if _, err := n.Normalize(snap); !errors.Is(err, ErrInvalidReserves) {
		t.Errorf("Inf reserve: expected ErrInvalidReserves, got %v", err)
	}
}

func TestNormalize_ReserveThresholdBoundary(t *testing.T) {
	n := newTestNormalizer(1.0)

	snap := snapshot()
	snap.Reserve0 = 1.0 // exactly at the threshold
	if _, err := n.Normalize(snap); err != nil {
		t.Errorf("reserve equal to threshold should be accepted, got %v", err)
	}

	snap = snapshot()
	snap.Reserve0 = 0.99999999 // strictly below
	if _, err := n.Normalize(snap); !errors.Is(err, ErrLowReserve) {
		t.Errorf("reserve below threshold: expected ErrLowReserve, got %v", err)
	}

	snap = snapshot()
	snap.Reserve1 = 0.5 // the other side is checked too
	if _, err := n.Normalize(snap); !errors.Is(err, ErrLowReserve) {
		t.Errorf("reserve1 below threshold: expected ErrLowReserve, got %v", err)
	}
}

func TestNormalize_ZeroBaseReserveIsPriceless(t *testing.T) {
	n := newTestNormalizer(0)

	snap := snapshot()
	snap.Reserve0 = 0
	rec, err := n.Normalize(snap)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Price != 0 {
		t.Errorf("zero base reserve should report price 0, got %v", rec.Price)
	}
}

func TestNormalize_TokenMetaDefaults(t *testing.T) {
	n := newTestNormalizer(1.0)

	rec, err := n.Normalize(snapshot())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Token0.Contract != domain.UnknownContract {
		t.Errorf("Token0.Contract = %s, want %s", rec.Token0.Contract, domain.UnknownContract)
	}
	if rec.Token0.Precision != domain.DefaultPrecision {
		t.Errorf("Token0.Precision = %d, want %d", rec.Token0.Precision, domain.DefaultPrecision)
	}

	precision := 4
	snap := snapshot()
	snap.Token1Contract = "alien.worlds"
	snap.Token1Precision = &precision
	rec, err = n.Normalize(snap)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Token1.Contract != "alien.worlds" || rec.Token1.Precision != 4 {
		t.Errorf("Token1 meta = %+v, want alien.worlds/4", rec.Token1)
	}
}

func TestLoadSnapshotDir(t *testing.T) {
	dir := t.TempDir()

	good := `[
		{"token0": "WAX", "token1": "TACO", "reserve0": 1000.0, "reserve1": 2000.0, "src": "swap.taco"},
		{"token0": "WAX", "token1": "USDT", "reserve0": "oops", "reserve1": 1.0, "src": "swap.box"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "pools_taco.json"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pools_broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Files outside the pools_*.json pattern are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := LoadSnapshotDir(dir)
	if err != nil {
		t.Fatalf("LoadSnapshotDir: %v", err)
	}

	if len(result.Snapshots) != 1 {
		t.Fatalf("expected 1 decodable snapshot, got %d", len(result.Snapshots))
	}
	if result.Snapshots[0].Token1 != "TACO" {
		t.Errorf("unexpected snapshot: %+v", result.Snapshots[0])
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.BadFiles) != 1 || result.BadFiles[0] != "pools_broken.json" {
		t.Errorf("BadFiles = %v, want [pools_broken.json]", result.BadFiles)
	}
}

func TestLoadSnapshotDir_Missing(t *testing.T) {
	if _, err := LoadSnapshotDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
