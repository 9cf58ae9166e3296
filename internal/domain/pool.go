package domain

// PoolSnapshot represents one liquidity pool's raw state at a source.
// Supplied externally as JSON; validated by the pool normalizer before use.
type PoolSnapshot struct {
	Token0   string  `json:"token0"`
	Token1   string  `json:"token1"`
	Reserve0 float64 `json:"reserve0"`
	Reserve1 float64 `json:"reserve1"`
	Source   string  `json:"src"`

	// Optional token metadata; defaults applied during normalization.
	Token0Contract  string `json:"token0_contract,omitempty"`
	Token0Precision *int   `json:"token0_precision,omitempty"`
	Token1Contract  string `json:"token1_contract,omitempty"`
	Token1Precision *int   `json:"token1_precision,omitempty"`
}
