// Package fetcher retrieves recent deposit-style transfer events from all
// configured DEX sources concurrently.
package fetcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/hyperion"
)

// depositMarker identifies swap-leg transfers; matched case-insensitively.
const depositMarker = "deposit"

// transferFilter is the Hyperion action filter for transfer events.
const transferFilter = "transfer"

// DefaultLimit is the per-source action limit when none is configured.
const DefaultLimit = 100

// timestampLayouts lists accepted action timestamp formats. Hyperion nodes
// report ISO-8601 with or without a trailing zone designator.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ActionsClient is the slice of the Hyperion client the fetcher needs.
type ActionsClient interface {
	GetActions(ctx context.Context, account, filter string, limit int) (*hyperion.ActionsResponse, error)
}

// SourceResult is one source's outcome: either its events or the error that
// exhausted its retry budget. Failures are data at the join boundary, never
// propagated as errors for the whole batch.
type SourceResult struct {
	Source  string
	Events  []*domain.RawTransferEvent
	Skipped int // actions dropped by filtering (wrong recipient, no marker, bad or stale timestamp)
	Err     error
}

// Fetcher fans out over all configured sources and joins their results.
type Fetcher struct {
	client  ActionsClient
	sources []string
	window  time.Duration
	limit   int
	now     func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLimit sets the per-source action limit.
func WithLimit(n int) Option {
	return func(f *Fetcher) {
		f.limit = n
	}
}

// WithClock overrides the time source used for the recency cutoff.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// New creates a Fetcher over the given source accounts. window bounds event
// recency: actions at or before now-window are dropped.
func New(client ActionsClient, sources []string, window time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  client,
		sources: sources,
		window:  window,
		limit:   DefaultLimit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchRecent retrieves recent deposit transfers from every source
// concurrently. It returns the flat union of all successful sources'
// events plus the per-source outcomes. A source whose retries are exhausted
// contributes zero events; the other sources are unaffected. The call
// returns once every source has resolved, success or not.
func (f *Fetcher) FetchRecent(ctx context.Context) ([]*domain.RawTransferEvent, []SourceResult) {
	cutoff := f.now().UTC().Add(-f.window)

	results := make([]SourceResult, len(f.sources))
	var wg sync.WaitGroup

	for i, source := range f.sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			results[i] = f.fetchSource(ctx, source, cutoff)
		}(i, source)
	}
	wg.Wait()

	var events []*domain.RawTransferEvent
	for _, res := range results {
		events = append(events, res.Events...)
	}
	return events, results
}

// fetchSource retrieves and filters one source's actions. Each concurrent
// task owns its own result; state is merged only at the join.
func (f *Fetcher) fetchSource(ctx context.Context, source string, cutoff time.Time) SourceResult {
	result := SourceResult{Source: source}

	resp, err := f.client.GetActions(ctx, source, transferFilter, f.limit)
	if err != nil {
		result.Err = err
		return result
	}

	for _, action := range resp.Actions {
		data := action.Act.Data

		// Keep only deposit-style transfers into the DEX contract itself.
		if data.To != source || !strings.Contains(strings.ToLower(data.Memo), depositMarker) {
			result.Skipped++
			continue
		}

		ts, ok := ParseTimestamp(action.Timestamp)
		if !ok {
			result.Skipped++
			continue
		}
		if !ts.After(cutoff) {
			result.Skipped++
			continue
		}

		result.Events = append(result.Events, &domain.RawTransferEvent{
			Source:    source,
			TxID:      action.TrxID,
			BlockNum:  action.BlockNum,
			Sender:    data.From,
			Recipient: data.To,
			Quantity:  data.Quantity,
			Memo:      data.Memo,
			Timestamp: ts,
		})
	}

	return result
}

// ParseTimestamp parses a Hyperion action timestamp, trying each accepted
// layout in order.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
