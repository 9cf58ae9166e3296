package clickhouse

import (
	"context"
	"fmt"
	"time"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
// The archive is append-only; MergeTree does not enforce uniqueness and
// none is needed here.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk appends a batch of records.
func (s *PriceHistoryStore) InsertBulk(ctx context.Context, records []*domain.CanonicalPriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			pair_id, source, price, active, last_update, reserve0, reserve1
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, rec := range records {
		if rec == nil || rec.PairID == "" || rec.Source == "" {
			return storage.ErrInvalidInput
		}

		var active uint8
		if rec.Active {
			active = 1
		}

		err := batch.Append(
			rec.PairID,
			rec.Source,
			rec.Price,
			active,
			rec.LastUpdate,
			rec.Reserve0,
			rec.Reserve1,
		)
		if err != nil {
			return fmt.Errorf("append record %s/%s: %w", rec.PairID, rec.Source, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByPair returns all archived records for a pair, ordered by LastUpdate
// ascending.
func (s *PriceHistoryStore) GetByPair(ctx context.Context, pairID string) ([]*domain.CanonicalPriceRecord, error) {
	query := `
		SELECT pair_id, source, price, active, last_update, reserve0, reserve1
		FROM price_history
		WHERE pair_id = ?
		ORDER BY last_update ASC
	`

	rows, err := s.conn.Query(ctx, query, pairID)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	var records []*domain.CanonicalPriceRecord
	for rows.Next() {
		var rec domain.CanonicalPriceRecord
		var active uint8
		var lastUpdate time.Time

		err := rows.Scan(
			&rec.PairID,
			&rec.Source,
			&rec.Price,
			&active,
			&lastUpdate,
			&rec.Reserve0,
			&rec.Reserve1,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}

		rec.Active = active == 1
		rec.LastUpdate = lastUpdate.UTC()
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}

	return records, nil
}
