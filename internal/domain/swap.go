package domain

import "time"

// SwapFact represents a trade decoded from a deposit-style transfer and its
// memo. Invariants: AmountIn > 0, TokenIn != TokenOut, PairID is the two
// symbols sorted lexicographically and joined by "_".
type SwapFact struct {
	PairID    string  // canonical pair id
	TokenIn   string  // symbol actually transferred to the DEX contract
	AmountIn  float64 // amount transferred
	TokenOut  string  // counter-leg symbol extracted from the memo
	AmountOut float64 // counter-leg amount extracted from the memo
	Price     float64 // AmountOut / AmountIn
	Source    string  // DEX contract account
	Account   string  // user account that initiated the transfer
	TxID      string
	BlockNum  int64
	Timestamp time.Time
	Memo      string // original memo, kept for auditability
}
