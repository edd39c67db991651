package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"btc-price-history/internal/rates"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

var (
	upsertPriceRowSQL = buildUpsertSQL()
	countPriceRowsSQL = `SELECT COUNT(*) FROM btc_prices;`
)

// buildUpsertSQL derives the insert statement from the supported currency
// set, keeping the column list in lockstep with the CSV contract.
func buildUpsertSQL() string {
	cols := make([]string, 0, len(rates.Supported)+1)
	cols = append(cols, "day")
	for _, c := range rates.Supported {
		cols = append(cols, strings.ToLower(c.Column()))
	}

	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i > 0 {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	return fmt.Sprintf(
		`INSERT INTO btc_prices (%s) VALUES (%s) ON CONFLICT (day) DO UPDATE SET %s;`,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

// PriceRowStore defines operations for mirroring the output table.
type PriceRowStore interface {
	UpsertRows(ctx context.Context, rows []rates.Row) error
	CountRows(ctx context.Context) (int64, error)
}

// Store mirrors the persisted price table into PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// UpsertRows persists or updates the given rows, one statement per day,
// batched over a single round trip per chunk.
func (s *Store) UpsertRows(ctx context.Context, rows []rates.Row) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	const chunkSize = 500
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := &pgx.Batch{}
		for _, row := range rows[start:end] {
			batch.Queue(upsertPriceRowSQL, rowArgs(row)...)
		}

		results := pool.SendBatch(ctx, batch)
		for range rows[start:end] {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("upsert price row: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	return nil
}

func rowArgs(row rates.Row) []any {
	args := make([]any, 0, len(rates.Supported)+1)
	args = append(args, row.Day.Time())
	for _, c := range rates.Supported {
		if price, ok := row.Price(c); ok {
			args = append(args, price.String())
		} else {
			args = append(args, nil)
		}
	}
	return args
}

// CountRows reports the number of mirrored days.
func (s *Store) CountRows(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := pool.QueryRow(ctx, countPriceRowsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count price rows: %w", err)
	}
	return count, nil
}

var _ PriceRowStore = (*Store)(nil)
