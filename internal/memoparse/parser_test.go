package memoparse

import (
	"math"
	"testing"
	"time"

	"wax-dex-monitor/internal/domain"
)

func event(quantity, memo string) *domain.RawTransferEvent {
	return &domain.RawTransferEvent{
		Source:    "swap.taco",
		TxID:      "abc123",
		BlockNum:  1000,
		Sender:    "alice.wam",
		Recipient: "swap.taco",
		Quantity:  quantity,
		Memo:      memo,
		Timestamp: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in         string
		wantAmount float64
		wantSymbol string
		wantOK     bool
	}{
		{"5.00000000 WAX", 5.0, "WAX", true},
		{"100 USDT", 100.0, "USDT", true},
		{"WAX 5.0", 0, "", false},   // non-numeric first part
		{"5.0", 0, "", false},       // one part
		{"5.0 WAX extra", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		amount, symbol, ok := ParseQuantity(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseQuantity(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && (amount != tt.wantAmount || symbol != tt.wantSymbol) {
			t.Errorf("ParseQuantity(%q) = %v %q, want %v %q",
				tt.in, amount, symbol, tt.wantAmount, tt.wantSymbol)
		}
	}
}

func TestScanAmounts(t *testing.T) {
	got := ScanAmounts("deposit:1.50000000 WAX,2.30000000 TACO")
	if len(got) != 2 {
		t.Fatalf("expected 2 mentions, got %d", len(got))
	}
	if got[0].Token != "WAX" || got[0].Amount != 1.5 {
		t.Errorf("first mention = %+v, want 1.5 WAX", got[0])
	}
	if got[1].Token != "TACO" || got[1].Amount != 2.3 {
		t.Errorf("second mention = %+v, want 2.3 TACO", got[1])
	}
}

func TestScanAmounts_NoMatches(t *testing.T) {
	if got := ScanAmounts("deposit received, thanks"); len(got) != 0 {
		t.Errorf("expected no mentions, got %v", got)
	}
}

func TestParseEvent_Extraction(t *testing.T) {
	parser := NewParser()

	fact, ok := parser.ParseEvent(event("5.00000000 WAX", "deposit 5.0 WAX for 12.5 TACO"))
	if !ok {
		t.Fatal("expected a swap fact")
	}

	if fact.TokenIn != "WAX" {
		t.Errorf("TokenIn = %s, want WAX", fact.TokenIn)
	}
	if fact.AmountIn != 5.0 {
		t.Errorf("AmountIn = %v, want 5.0", fact.AmountIn)
	}
	if fact.TokenOut != "TACO" {
		t.Errorf("TokenOut = %s, want TACO", fact.TokenOut)
	}
	if fact.AmountOut != 12.5 {
		t.Errorf("AmountOut = %v, want 12.5", fact.AmountOut)
	}
	if math.Abs(fact.Price-2.5) > 1e-6 {
		t.Errorf("Price = %v, want 2.5", fact.Price)
	}
	if fact.PairID != "TACO_WAX" {
		t.Errorf("PairID = %s, want TACO_WAX", fact.PairID)
	}
	if fact.Account != "alice.wam" {
		t.Errorf("Account = %s, want alice.wam", fact.Account)
	}
}

func TestParseEvent_NoCounterToken(t *testing.T) {
	parser := NewParser()

	if _, ok := parser.ParseEvent(event("5.00000000 WAX", "deposit received, thanks")); ok {
		t.Error("memo without a second token should yield no fact")
	}
}

func TestParseEvent_OnlyOwnTokenInMemo(t *testing.T) {
	parser := NewParser()

	// Memo repeats the transferred token but never names a counter-leg.
	if _, ok := parser.ParseEvent(event("5.00000000 WAX", "deposit 5.0 WAX")); ok {
		t.Error("memo mentioning only the transferred token should yield no fact")
	}
}

func TestParseEvent_BadQuantity(t *testing.T) {
	parser := NewParser()

	for _, q := range []string{"", "WAX", "five WAX", "5.0 WAX dust"} {
		if _, ok := parser.ParseEvent(event(q, "deposit 1.0 TACO")); ok {
			t.Errorf("quantity %q should yield no fact", q)
		}
	}
}

// The counter-leg heuristic takes the first foreign token mention in textual
// order. Real memo formats across the source contracts are unverified, so
// this test pins the current behavior rather than a confirmed business rule:
// a memo naming several foreign tokens resolves to whichever appears first.
func TestParseEvent_FirstForeignTokenWins(t *testing.T) {
	parser := NewParser()

	fact, ok := parser.ParseEvent(event("5.00000000 WAX", "deposit 9.0 TACO then 3.0 USDT"))
	if !ok {
		t.Fatal("expected a swap fact")
	}
	if fact.TokenOut != "TACO" || fact.AmountOut != 9.0 {
		t.Errorf("got %v %s, want first match 9.0 TACO", fact.AmountOut, fact.TokenOut)
	}
}

func TestParseEvent_SkipsOwnTokenMention(t *testing.T) {
	parser := NewParser()

	// The transferred token appears first in the memo; extraction must move
	// past it to the counter-leg.
	fact, ok := parser.ParseEvent(event("5.00000000 WAX", "deposit:5.00000000 WAX,12.50000000 TACO"))
	if !ok {
		t.Fatal("expected a swap fact")
	}
	if fact.TokenOut != "TACO" {
		t.Errorf("TokenOut = %s, want TACO", fact.TokenOut)
	}
}
