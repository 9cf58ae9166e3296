// Package consolidator merges canonical per-source price records into one
// market map and derives a best-price view over it.
package consolidator

import (
	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/pairs"
)

// Consolidate merges a batch of records into a fresh MarketMap. For each
// (pair_id, source) the record with the later LastUpdate wins. A run always
// rebuilds from the full input batch; previous runs' maps are merged only
// if their records are part of the batch.
func Consolidate(records []*domain.CanonicalPriceRecord) domain.MarketMap {
	market := make(domain.MarketMap)

	for _, rec := range records {
		if rec == nil || rec.PairID == "" || rec.Source == "" {
			continue
		}

		bySource, ok := market[rec.PairID]
		if !ok {
			bySource = make(map[string]*domain.CanonicalPriceRecord)
			market[rec.PairID] = bySource
		}

		existing, ok := bySource[rec.Source]
		if ok && existing.LastUpdate.After(rec.LastUpdate) {
			continue
		}
		bySource[rec.Source] = rec
	}

	return market
}

// RecordFromSwap converts a decoded swap fact into a canonical price record
// so the swap side of the pipeline feeds the same consolidation as pools.
// The fact's price is token_out per token_in; it is re-oriented to the
// canonical direction here.
func RecordFromSwap(fact *domain.SwapFact) *domain.CanonicalPriceRecord {
	_, inverted := pairs.Canonical(fact.TokenIn, fact.TokenOut)

	return &domain.CanonicalPriceRecord{
		PairID:     fact.PairID,
		Source:     fact.Source,
		Price:      pairs.NormalizePrice(fact.Price, inverted),
		Active:     true,
		LastUpdate: fact.Timestamp,
	}
}

// BestPrice selects the minimum positive price among a pair's active
// sources. Sources are visited in sorted order, so a tie resolves to the
// lexicographically first source, deterministically. Priceless records
// (price 0, e.g. a pool with zero base reserve) never win.
func BestPrice(market domain.MarketMap, pairID string) (*domain.CanonicalPriceRecord, bool) {
	var best *domain.CanonicalPriceRecord

	for _, source := range market.Sources(pairID) {
		rec := market[pairID][source]
		if !rec.Active || rec.Price <= 0 {
			continue
		}
		if best == nil || rec.Price < best.Price {
			best = rec
		}
	}

	return best, best != nil
}
