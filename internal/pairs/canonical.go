// Package pairs canonicalizes token-pair identity and price direction.
// Every component that touches a pair goes through this package so the
// ordering rule lives in exactly one place.
package pairs

// Separator joins the two symbols of a canonical pair id.
const Separator = "_"

// Epsilon is added to every denominator to avoid division by zero or
// near-zero values. This is a deliberate approximation carried through the
// whole pipeline, not exact-zero handling: prices within Epsilon of zero
// lose precision instead of raising an error.
const Epsilon = 1e-8

// Canonical returns the stable pair id for two token symbols: the
// lexicographically smaller symbol, Separator, the larger one. The returned
// flag reports whether the caller's first symbol is the lexicographic max,
// i.e. whether price direction must be inverted to match the canonical order.
func Canonical(first, second string) (pairID string, inverted bool) {
	if first < second {
		return first + Separator + second, false
	}
	return second + Separator + first, true
}

// NormalizePrice converts a price expressed as second-argument amount per
// unit of first-argument amount into the canonical direction: amount of the
// canonical max token per unit of the canonical min token.
func NormalizePrice(price float64, inverted bool) float64 {
	if !inverted {
		return price
	}
	return 1 / (price + Epsilon)
}
