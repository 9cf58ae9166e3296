package domain

import "time"

// Defaults for token metadata absent from a pool snapshot.
const (
	UnknownContract  = "unknown"
	DefaultPrecision = 8
)

// TokenMeta describes one side of a pool in its original (pre-canonical) order.
type TokenMeta struct {
	Symbol    string `json:"symbol"`
	Contract  string `json:"contract"`
	Precision int    `json:"precision"`
}

// CanonicalPriceRecord is the unit produced by both the pool normalizer and
// the swap side of the pipeline. Price is always expressed as the second
// canonical token per unit of the first canonical token. A price of 0 means
// the source reported no usable price (e.g. a pool with zero base reserve).
type CanonicalPriceRecord struct {
	PairID     string    `json:"pair_id"`
	Source     string    `json:"source"`
	Price      float64   `json:"price"`
	Active     bool      `json:"active"`
	LastUpdate time.Time `json:"last_update"`

	// Pool-side audit data; zero for swap-derived records.
	Token0   TokenMeta `json:"token0,omitempty"`
	Token1   TokenMeta `json:"token1,omitempty"`
	Reserve0 float64   `json:"reserve0"`
	Reserve1 float64   `json:"reserve1"`
}
