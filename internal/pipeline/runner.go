// Package pipeline orchestrates one full collection cycle: load pool
// snapshots, fetch transfer history, parse swaps, consolidate, persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wax-dex-monitor/internal/consolidator"
	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/fetcher"
	"wax-dex-monitor/internal/memoparse"
	"wax-dex-monitor/internal/observability"
	"wax-dex-monitor/internal/pools"
	"wax-dex-monitor/internal/reporting"
	"wax-dex-monitor/internal/storage"
)

// RunResult summarizes one pipeline run.
type RunResult struct {
	PoolsLoaded    int
	PoolsSkipped   int
	PoolsRejected  int
	EventsFetched  int
	EventsSkipped  int
	SourceFailures int
	SwapsParsed    int
	ParseRejected  int
	Pairs          int
	Records        int
	Duration       time.Duration
}

// Runner wires the collection stages together.
type Runner struct {
	fetcher    *fetcher.Fetcher
	parser     *memoparse.Parser
	normalizer *pools.Normalizer
	poolsDir   string

	market  storage.MarketStore       // optional
	history storage.PriceHistoryStore // optional

	outputDir string // optional report output
	clock     func() time.Time
}

// NewRunner creates a pipeline runner. poolsDir may be empty, in which case
// only transfer-history quotes feed the market map.
func NewRunner(f *fetcher.Fetcher, normalizer *pools.Normalizer, poolsDir string) *Runner {
	return &Runner{
		fetcher:    f,
		parser:     memoparse.NewParser(),
		normalizer: normalizer,
		poolsDir:   poolsDir,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithMarketStore sets the store that receives the consolidated market map.
func (r *Runner) WithMarketStore(store storage.MarketStore) *Runner {
	r.market = store
	return r
}

// WithHistoryStore sets the archive that receives every run's records.
func (r *Runner) WithHistoryStore(store storage.PriceHistoryStore) *Runner {
	r.history = store
	return r
}

// WithOutputDir enables report generation into the given directory.
func (r *Runner) WithOutputDir(dir string) *Runner {
	r.outputDir = dir
	return r
}

// WithClock sets a custom clock function for deterministic output.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// Run executes one full cycle and returns its counts. Source fetch failures
// degrade the run but do not fail it; storage and report write errors do.
func (r *Runner) Run(ctx context.Context) (*RunResult, domain.MarketMap, error) {
	start := r.clock()
	result := &RunResult{}

	var records []*domain.CanonicalPriceRecord

	// 1. Pool snapshots
	if r.poolsDir != "" {
		poolRecords, err := r.loadPools(result)
		if err != nil {
			observability.RecordPipelineRun("error", r.clock().Sub(start).Seconds())
			return nil, nil, err
		}
		records = append(records, poolRecords...)
	}

	// 2. Transfer history
	events, sourceResults := r.fetcher.FetchRecent(ctx)
	for _, res := range sourceResults {
		result.EventsSkipped += res.Skipped
		if res.Err != nil {
			result.SourceFailures++
			observability.RecordSourceFailure(res.Source)
			continue
		}
		result.EventsFetched += len(res.Events)
		observability.RecordEventsFetched(res.Source, len(res.Events))
	}

	// 3. Memo parsing
	for _, ev := range events {
		fact, ok := r.parser.ParseEvent(ev)
		if !ok {
			result.ParseRejected++
			observability.RecordParseRejection("unparseable")
			continue
		}
		result.SwapsParsed++
		observability.RecordSwapParsed()
		records = append(records, consolidator.RecordFromSwap(fact))
	}

	// 4. Consolidation
	market := consolidator.Consolidate(records)
	result.Pairs = len(market.Pairs())
	result.Records = len(market.Records())
	observability.UpdateMarketSize(result.Pairs, result.Records)

	// 5. Persistence
	if r.market != nil {
		if err := r.market.Replace(ctx, market); err != nil {
			observability.RecordPipelineRun("error", r.clock().Sub(start).Seconds())
			return nil, nil, fmt.Errorf("replace market map: %w", err)
		}
	}
	if r.history != nil {
		if err := r.history.InsertBulk(ctx, market.Records()); err != nil {
			observability.RecordPipelineRun("error", r.clock().Sub(start).Seconds())
			return nil, nil, fmt.Errorf("archive price records: %w", err)
		}
	}

	// 6. Reports
	if r.outputDir != "" {
		if err := r.writeReports(market); err != nil {
			observability.RecordPipelineRun("error", r.clock().Sub(start).Seconds())
			return nil, nil, err
		}
	}

	result.Duration = r.clock().Sub(start)
	observability.RecordPipelineRun("ok", result.Duration.Seconds())
	observability.DefaultMetrics.LastSuccessfulRun.Set(float64(r.clock().Unix()))

	return result, market, nil
}

// loadPools reads and normalizes every pool snapshot under poolsDir.
func (r *Runner) loadPools(result *RunResult) ([]*domain.CanonicalPriceRecord, error) {
	loaded, err := pools.LoadSnapshotDir(r.poolsDir)
	if err != nil {
		return nil, fmt.Errorf("load pool snapshots: %w", err)
	}
	result.PoolsSkipped = loaded.Skipped

	var records []*domain.CanonicalPriceRecord
	for _, snap := range loaded.Snapshots {
		rec, err := r.normalizer.Normalize(snap)
		if err != nil {
			result.PoolsRejected++
			observability.RecordPoolRejected(rejectReason(err))
			continue
		}
		result.PoolsLoaded++
		observability.RecordPoolNormalized()
		records = append(records, rec)
	}
	return records, nil
}

// writeReports renders the market map into the output directory.
func (r *Runner) writeReports(market domain.MarketMap) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := reporting.NewGenerator().WithClock(r.clock).Generate(market)

	if err := reporting.SaveJSON(report, filepath.Join(r.outputDir, "market_map.json")); err != nil {
		return err
	}

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(r.outputDir, "MARKET_REPORT.md"), []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	csv := reporting.RenderCSV(report)
	if err := os.WriteFile(filepath.Join(r.outputDir, "market_records.csv"), []byte(csv), 0644); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}

	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, pools.ErrLowReserve):
		return "low_reserve"
	case errors.Is(err, pools.ErrInvalidReserves):
		return "invalid_reserves"
	case errors.Is(err, pools.ErrMissingFields):
		return "missing_fields"
	default:
		return "other"
	}
}
