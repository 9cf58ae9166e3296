package postgres

import (
	"context"
	"fmt"

	"wax-dex-monitor/internal/domain"
	"wax-dex-monitor/internal/storage"
)

// MarketStore implements storage.MarketStore using PostgreSQL. Each Replace
// rewrites the market_records table inside one transaction, so concurrent
// readers see either the previous run's market or the new one.
type MarketStore struct {
	pool *Pool
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(pool *Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarketStore = (*MarketStore)(nil)

// Replace atomically swaps the stored market for the given one.
func (s *MarketStore) Replace(ctx context.Context, market domain.MarketMap) error {
	if market == nil {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM market_records`); err != nil {
		return fmt.Errorf("clear market records: %w", err)
	}

	query := `
		INSERT INTO market_records (
			pair_id, source, price, active, last_update,
			token0_symbol, token0_contract, token0_precision,
			token1_symbol, token1_contract, token1_precision,
			reserve0, reserve1
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, rec := range market.Records() {
		_, err := tx.Exec(ctx, query,
			rec.PairID,
			rec.Source,
			rec.Price,
			rec.Active,
			rec.LastUpdate,
			rec.Token0.Symbol,
			rec.Token0.Contract,
			rec.Token0.Precision,
			rec.Token1.Symbol,
			rec.Token1.Contract,
			rec.Token1.Precision,
			rec.Reserve0,
			rec.Reserve1,
		)
		if err != nil {
			return fmt.Errorf("insert market record %s/%s: %w", rec.PairID, rec.Source, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Load returns the most recently stored market map.
func (s *MarketStore) Load(ctx context.Context) (domain.MarketMap, error) {
	query := `
		SELECT pair_id, source, price, active, last_update,
		       token0_symbol, token0_contract, token0_precision,
		       token1_symbol, token1_contract, token1_precision,
		       reserve0, reserve1
		FROM market_records
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query market records: %w", err)
	}
	defer rows.Close()

	market := make(domain.MarketMap)
	for rows.Next() {
		var rec domain.CanonicalPriceRecord
		err := rows.Scan(
			&rec.PairID,
			&rec.Source,
			&rec.Price,
			&rec.Active,
			&rec.LastUpdate,
			&rec.Token0.Symbol,
			&rec.Token0.Contract,
			&rec.Token0.Precision,
			&rec.Token1.Symbol,
			&rec.Token1.Contract,
			&rec.Token1.Precision,
			&rec.Reserve0,
			&rec.Reserve1,
		)
		if err != nil {
			return nil, fmt.Errorf("scan market record: %w", err)
		}
		rec.LastUpdate = rec.LastUpdate.UTC()

		if market[rec.PairID] == nil {
			market[rec.PairID] = make(map[string]*domain.CanonicalPriceRecord)
		}
		recCopy := rec
		market[rec.PairID][rec.Source] = &recCopy
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market records: %w", err)
	}

	return market, nil
}
