package domain

import "sort"

// MarketMap is the consolidated pair -> source -> price record view produced
// by one pipeline run. Within a run there is at most one record per
// (pair_id, source); the map is rebuilt wholesale each run and replaced
// atomically at the consumer boundary, never mutated in place.
type MarketMap map[string]map[string]*CanonicalPriceRecord

// Pairs returns all pair ids in sorted order.
func (m MarketMap) Pairs() []string {
	pairs := make([]string, 0, len(m))
	for pairID := range m {
		pairs = append(pairs, pairID)
	}
	sort.Strings(pairs)
	return pairs
}

// Sources returns the source ids observed for a pair in sorted order.
// Sorted iteration keeps downstream tie-breaks deterministic.
func (m MarketMap) Sources(pairID string) []string {
	bySource := m[pairID]
	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Records returns every record in the map, ordered by pair then source.
func (m MarketMap) Records() []*CanonicalPriceRecord {
	var records []*CanonicalPriceRecord
	for _, pairID := range m.Pairs() {
		for _, source := range m.Sources(pairID) {
			records = append(records, m[pairID][source])
		}
	}
	return records
}
