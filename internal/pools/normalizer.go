// Package pools validates raw liquidity-pool snapshots and converts them
// into canonical per-source price records.
package pools

import (
	"errors"
	"math"
	"time"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/pairs"
)

// Validation errors. All of them are soft: the caller logs, counts and
// skips the snapshot while the rest of the batch continues.
var (
	ErrMissingFields   = errors.New("pool snapshot missing required fields")
	ErrInvalidReserves = errors.New("pool reserves are not numeric")
	ErrLowReserve      = errors.New("pool reserve below minimum threshold")
)

// DefaultMinReserve is the reserve floor applied when none is configured.
const DefaultMinReserve = 1.0

// Normalizer converts pool snapshots into canonical price records.
type Normalizer struct {
	minReserve float64
	now        func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock overrides the time source used for last_update stamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// NewNormalizer creates a Normalizer with the given minimum-reserve
// threshold. Both reserves of a snapshot must be at least the threshold;
// strictly below is rejected, exactly equal is accepted.
func NewNormalizer(minReserve float64, opts ...Option) *Normalizer {
	n := &Normalizer{
		minReserve: minReserve,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize validates one snapshot and produces its canonical price record.
//
// The raw price is reserve1 per reserve0. A pool with zero base reserve is
// reported as priceless (price 0) rather than failing the batch. Records
// that pass validation are always active; there is no separate liveness
// check for pools.
func (n *Normalizer) Normalize(snap *domain.PoolSnapshot) (*domain.CanonicalPriceRecord, error) {
	if snap == nil || snap.Token0 == "" || snap.Token1 == "" || snap.Source == "" {
		return nil, ErrMissingFields
	}
	if !isFinite(snap.Reserve0) || !isFinite(snap.Reserve1) {
		return nil, ErrInvalidReserves
	}
	if snap.Reserve0 < n.minReserve || snap.Reserve1 < n.minReserve {
		return nil, ErrLowReserve
	}

	var rawPrice float64
	if snap.Reserve0 > 0 {
		rawPrice = snap.Reserve1 / (snap.Reserve0 + pairs.Epsilon)
	}

	pairID, inverted := pairs.Canonical(snap.Token0, snap.Token1)

	price := rawPrice
	if inverted {
		if rawPrice > 0 {
			price = pairs.NormalizePrice(rawPrice, true)
		} else {
			price = 0
		}
	}

	return &domain.CanonicalPriceRecord{
		PairID:     pairID,
		Source:     snap.Source,
		Price:      price,
		Active:     true,
		LastUpdate: n.now().UTC(),
		Token0:     tokenMeta(snap.Token0, snap.Token0Contract, snap.Token0Precision),
		Token1:     tokenMeta(snap.Token1, snap.Token1Contract, snap.Token1Precision),
		Reserve0:   snap.Reserve0,
		Reserve1:   snap.Reserve1,
	}, nil
}

func tokenMeta(symbol, contract string, precision *int) domain.TokenMeta {
	meta := domain.TokenMeta{
		Symbol:    symbol,
		Contract:  contract,
		Precision: domain.DefaultPrecision,
	}
	if meta.Contract == "" {
		meta.Contract = domain.UnknownContract
	}
	if precision != nil {
		meta.Precision = *precision
	}
	return meta
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
