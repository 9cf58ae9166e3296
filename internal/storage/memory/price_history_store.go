package memory

import (
	"context"
	"sort"
	"sync"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of
// storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu      sync.RWMutex
	records []*domain.CanonicalPriceRecord
}

// NewPriceHistoryStore creates an empty in-memory history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk appends a batch of records.
func (s *PriceHistoryStore) InsertBulk(_ context.Context, records []*domain.CanonicalPriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if rec == nil || rec.PairID == "" || rec.Source == "" {
			return storage.ErrInvalidInput
		}
		recCopy := *rec
		s.records = append(s.records, &recCopy)
	}
	return nil
}

// GetByPair returns all archived records for a pair, ordered by LastUpdate
// ascending.
func (s *PriceHistoryStore) GetByPair(_ context.Context, pairID string) ([]*domain.CanonicalPriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.CanonicalPriceRecord
	for _, rec := range s.records {
		if rec.PairID == pairID {
			recCopy := *rec
			out = append(out, &recCopy)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdate.Before(out[j].LastUpdate)
	})
	return out, nil
}
