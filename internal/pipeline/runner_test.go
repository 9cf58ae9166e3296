package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wax-dex-monitor/internal/fetcher"
	"wax-dex-monitor/internal/hyperion"
	"wax-dex-monitor/internal/pools"
	"wax-dex-monitor/internal/storage/memory"
)

// stubActionsClient serves canned per-account responses.
type stubActionsClient struct {
	responses map[string]*hyperion.ActionsResponse
	errs      map[string]error
}

func (s *stubActionsClient) GetActions(ctx context.Context, account, filter string, limit int) (*hyperion.ActionsResponse, error) {
	if err := s.errs[account]; err != nil {
		return nil, err
	}
	if resp := s.responses[account]; resp != nil {
		return resp, nil
	}
	return &hyperion.ActionsResponse{}, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
}

func transferAction(account, from, quantity, memo, ts string) hyperion.Action {
	return hyperion.Action{
		Timestamp: ts,
		TrxID:     "tx-" + from,
		BlockNum:  100,
		Act: hyperion.ActionTrace{
			Account: "eosio.token",
			Name:    "transfer",
			Data: hyperion.TransferData{
				From:     from,
				To:       account,
				Quantity: quantity,
				Memo:     memo,
			},
		},
	}
}

func writePoolsFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write pools file: %v", err)
	}
}

func newTestRunner(t *testing.T, client fetcher.ActionsClient, poolsDir string) *Runner {
	t.Helper()
	f := fetcher.New(client, []string{"swap.taco", "swap.box"}, 5*time.Minute,
		fetcher.WithClock(fixedNow))
	norm := pools.NewNormalizer(1.0, pools.WithClock(fixedNow))
	return NewRunner(f, norm, poolsDir).WithClock(fixedNow)
}

func TestRunner_FullCycle(t *testing.T) {
	dir := t.TempDir()
	writePoolsFile(t, dir, "pools_swap.box.json", `[
		{"token0": "WAX", "token1": "TACO", "reserve0": 1000, "reserve1": 2500, "src": "swap.box"}
	]`)

	client := &stubActionsClient{
		responses: map[string]*hyperion.ActionsResponse{
			"swap.taco": {Actions: []hyperion.Action{
				transferAction("swap.taco", "alice", "5.00000000 WAX",
					"deposit 5.0 WAX for 12.5 TACO", "2025-06-10T11:59:00.000"),
			}},
		},
	}

	runner := newTestRunner(t, client, dir)
	market := memory.NewMarketStore()
	history := memory.NewPriceHistoryStore()
	runner.WithMarketStore(market).WithHistoryStore(history)

	result, marketMap, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.PoolsLoaded)
	assert.Equal(t, 1, result.EventsFetched)
	assert.Equal(t, 1, result.SwapsParsed)
	assert.Equal(t, 0, result.SourceFailures)
	assert.Equal(t, 1, result.Pairs)
	assert.Equal(t, 2, result.Records, "pool quote and swap quote share the pair")

	// Both sources landed under the canonical pair
	require.Contains(t, marketMap, "TACO_WAX")
	assert.Len(t, marketMap["TACO_WAX"], 2)

	// Market store holds the same map
	stored, err := market.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored["TACO_WAX"], 2)

	// History archive received every record
	archived, err := history.GetByPair(context.Background(), "TACO_WAX")
	require.NoError(t, err)
	assert.Len(t, archived, 2)
}

func TestRunner_SourceFailureDegradesGracefully(t *testing.T) {
	client := &stubActionsClient{
		responses: map[string]*hyperion.ActionsResponse{
			"swap.taco": {Actions: []hyperion.Action{
				transferAction("swap.taco", "alice", "5.00000000 WAX",
					"deposit 5.0 WAX for 12.5 TACO", "2025-06-10T11:59:00.000"),
			}},
		},
		errs: map[string]error{
			"swap.box": errors.New("max retries exceeded"),
		},
	}

	runner := newTestRunner(t, client, "")

	result, marketMap, err := runner.Run(context.Background())
	require.NoError(t, err, "a failed source must not fail the run")

	assert.Equal(t, 1, result.SourceFailures)
	assert.Equal(t, 1, result.SwapsParsed)
	assert.Contains(t, marketMap, "TACO_WAX")
}

func TestRunner_ParseRejectionsCounted(t *testing.T) {
	client := &stubActionsClient{
		responses: map[string]*hyperion.ActionsResponse{
			"swap.taco": {Actions: []hyperion.Action{
				transferAction("swap.taco", "alice", "5.00000000 WAX",
					"deposit only, no target token", "2025-06-10T11:59:00.000"),
				transferAction("swap.taco", "bob", "2.00000000 WAX",
					"deposit 2.0 WAX for 5.0 TACO", "2025-06-10T11:59:30.000"),
			}},
		},
	}

	runner := newTestRunner(t, client, "")

	result, _, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SwapsParsed)
	assert.Equal(t, 1, result.ParseRejected)
}

func TestRunner_PoolRejectionsCounted(t *testing.T) {
	dir := t.TempDir()
	writePoolsFile(t, dir, "pools_swap.box.json", `[
		{"token0": "WAX", "token1": "TACO", "reserve0": 1000, "reserve1": 2500, "src": "swap.box"},
		{"token0": "WAX", "token1": "DUST", "reserve0": 0.5, "reserve1": 0.2, "src": "swap.box"},
		{"token0": "", "token1": "TACO", "reserve0": 10, "reserve1": 10, "src": "swap.box"}
	]`)

	runner := newTestRunner(t, &stubActionsClient{}, dir)

	result, marketMap, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.PoolsLoaded)
	assert.Equal(t, 2, result.PoolsRejected)
	assert.Len(t, marketMap, 1)
}

func TestRunner_MissingPoolsDirFails(t *testing.T) {
	runner := newTestRunner(t, &stubActionsClient{}, "/nonexistent/pools")

	_, _, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load pool snapshots")
}

func TestRunner_WritesReports(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	client := &stubActionsClient{
		responses: map[string]*hyperion.ActionsResponse{
			"swap.taco": {Actions: []hyperion.Action{
				transferAction("swap.taco", "alice", "5.00000000 WAX",
					"deposit 5.0 WAX for 12.5 TACO", "2025-06-10T11:59:00.000"),
			}},
		},
	}

	runner := newTestRunner(t, client, "").WithOutputDir(outDir)

	_, _, err := runner.Run(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"market_map.json", "MARKET_REPORT.md", "market_records.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected output file %s: %v", name, err)
		}
	}
}
