// Package reporting renders market map snapshots as JSON, Markdown and CSV.
package reporting

import "time"

// Report is a point-in-time view of the consolidated market map.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	PairCount   int       `json:"pair_count"`
	RecordCount int       `json:"record_count"`

	// Pairs maps pair ID -> source -> entry.
	Pairs map[string]map[string]PairSourceEntry `json:"pairs"`

	// BestPrices lists the best quote per pair, sorted by pair ID.
	BestPrices []BestPriceRow `json:"best_prices"`
}

// PairSourceEntry is one source's quote for a pair.
type PairSourceEntry struct {
	Price      float64   `json:"price"`
	Active     bool      `json:"active"`
	LastUpdate time.Time `json:"last_update"`
	Reserve0   float64   `json:"reserve0,omitempty"`
	Reserve1   float64   `json:"reserve1,omitempty"`
}

// BestPriceRow is one row in the best-price summary table.
type BestPriceRow struct {
	PairID      string    `json:"pair_id"`
	Source      string    `json:"source"`
	Price       float64   `json:"price"`
	SourceCount int       `json:"source_count"`
	LastUpdate  time.Time `json:"last_update"`
}
