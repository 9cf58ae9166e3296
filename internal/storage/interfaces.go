// Package storage defines persistence interfaces for the consolidated
// market view and the append-only price history archive.
package storage

import (
	"context"

	"wax-dex-monitor/internal/domain"
)

// MarketStore holds the latest consolidated market map. Each pipeline run
// replaces the stored map wholesale; readers never observe a partially
// updated market.
type MarketStore interface {
	// Replace atomically swaps the stored market for the given one.
	Replace(ctx context.Context, market domain.MarketMap) error

	// Load returns the most recently stored market map. Returns an empty
	// map when nothing has been stored yet.
	Load(ctx context.Context) (domain.MarketMap, error)
}

// PriceHistoryStore archives every consolidated record, one row per
// (pair, source, observation time). Append-only; used for audit and
// time-series queries, never read back by the pipeline itself.
type PriceHistoryStore interface {
	// InsertBulk appends a batch of records.
	InsertBulk(ctx context.Context, records []*domain.CanonicalPriceRecord) error

	// GetByPair returns all archived records for a pair, ordered by
	// LastUpdate ascending.
	GetByPair(ctx context.Context, pairID string) ([]*domain.CanonicalPriceRecord, error)
}
