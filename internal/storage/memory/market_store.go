// Package memory provides in-memory implementations of the storage
// interfaces, used in tests and when no database is configured.
package memory

import (
	"context"
	"sync"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/storage"
)

// MarketStore is an in-memory implementation of storage.MarketStore.
// Replace swaps a single map reference under a lock, so readers always see
// either the previous run's complete map or the new one, never a mix.
type MarketStore struct {
	mu     sync.RWMutex
	market domain.MarketMap
}

// NewMarketStore creates an empty in-memory market store.
func NewMarketStore() *MarketStore {
	return &MarketStore{market: make(domain.MarketMap)}
}

// Compile-time interface check.
var _ storage.MarketStore = (*MarketStore)(nil)

// Replace atomically swaps the stored market for the given one.
func (s *MarketStore) Replace(_ context.Context, market domain.MarketMap) error {
	if market == nil {
		return storage.ErrInvalidInput
	}

	copied := copyMarket(market)

	s.mu.Lock()
	s.market = copied
	s.mu.Unlock()
	return nil
}

// Load returns the most recently stored market map.
func (s *MarketStore) Load(_ context.Context) (domain.MarketMap, error) {
	s.mu.RLock()
	market := s.market
	s.mu.RUnlock()

	return copyMarket(market), nil
}

// copyMarket deep-copies a market map so callers cannot mutate stored state.
func copyMarket(market domain.MarketMap) domain.MarketMap {
	copied := make(domain.MarketMap, len(market))
	for pairID, bySource := range market {
		dst := make(map[string]*domain.CanonicalPriceRecord, len(bySource))
		for source, rec := range bySource {
			recCopy := *rec
			dst[source] = &recCopy
		}
		copied[pairID] = dst
	}
	return copied
}
