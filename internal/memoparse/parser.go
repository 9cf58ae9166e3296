// Package memoparse extracts swap facts from deposit-style transfer events.
//
// Upstream memos are free text with no committed format, so extraction is a
// lexical heuristic: scan for "decimal-number whitespace UPPERCASE-TOKEN"
// substrings and take the first one whose token differs from the token that
// was actually transferred. The heuristic is isolated here so it stays
// auditable and testable away from any network code.
package memoparse

import (
	"regexp"
	"strconv"
	"strings"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/pairs"
)

// amountTokenPattern matches one "amount SYMBOL" mention inside a memo,
// e.g. "12.5 TACO" in "deposit 5.0 WAX for 12.5 TACO".
var amountTokenPattern = regexp.MustCompile(`(\d+\.?\d*)\s+([A-Z]+)`)

// AmountToken is one lexical match from a memo scan.
type AmountToken struct {
	Amount float64
	Token  string
}

// Parser decodes swap facts from transfer events.
type Parser struct{}

// NewParser creates a memo parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseQuantity splits a quantity string into amount and symbol. The string
// must be exactly two whitespace-separated parts with a numeric first part.
func ParseQuantity(quantity string) (amount float64, symbol string, ok bool) {
	parts := strings.Fields(quantity)
	if len(parts) != 2 {
		return 0, "", false
	}
	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, "", false
	}
	return amount, parts[1], true
}

// ScanAmounts returns every amount/token mention found in the memo, in
// textual order. Pure function over the fixed lexical pattern.
func ScanAmounts(memo string) []AmountToken {
	matches := amountTokenPattern.FindAllStringSubmatch(memo, -1)
	if matches == nil {
		return nil
	}

	found := make([]AmountToken, 0, len(matches))
	for _, m := range matches {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		found = append(found, AmountToken{Amount: amount, Token: m[2]})
	}
	return found
}

// ParseEvent decodes a swap fact from one transfer event. Returns nil, false
// when no fact can be extracted; the event is dropped, never retried.
//
// The counter-leg is the first memo mention whose token differs from the
// transferred token. When a memo mentions more than one foreign token the
// first textual match wins arbitrarily; actual memo formats across the
// source contracts are unverified, so this tie-break must not be changed
// without confirming them.
func (p *Parser) ParseEvent(ev *domain.RawTransferEvent) (*domain.SwapFact, bool) {
	amountIn, tokenIn, ok := ParseQuantity(ev.Quantity)
	if !ok || amountIn <= 0 {
		return nil, false
	}

	var amountOut float64
	var tokenOut string
	for _, mention := range ScanAmounts(ev.Memo) {
		if mention.Token != tokenIn {
			amountOut = mention.Amount
			tokenOut = mention.Token
			break
		}
	}
	if tokenOut == "" {
		return nil, false
	}

	pairID, _ := pairs.Canonical(tokenIn, tokenOut)

	return &domain.SwapFact{
		PairID:    pairID,
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		TokenOut:  tokenOut,
		AmountOut: amountOut,
		Price:     amountOut / (amountIn + pairs.Epsilon),
		Source:    ev.Source,
		Account:   ev.Sender,
		TxID:      ev.TxID,
		BlockNum:  ev.BlockNum,
		Timestamp: ev.Timestamp,
		Memo:      ev.Memo,
	}, true
}
