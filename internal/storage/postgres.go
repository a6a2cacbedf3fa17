package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresSlot implements Slot using a single PostgreSQL key-value table.
type postgresSlot struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresSlot creates a PostgreSQL-backed slot store and ensures the
// backing table exists.
func NewPostgresSlot(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (Slot, error) {
	s := &postgresSlot{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-slot").Logger(),
	}

	query := `
		CREATE TABLE IF NOT EXISTS kv_slots (
			name       TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create kv_slots table: %w", err)
	}

	return s, nil
}

// Get returns the value stored under name, or ErrNotFound.
func (s *postgresSlot) Get(ctx context.Context, name string) ([]byte, error) {
	query := `
		SELECT value
		FROM kv_slots
		WHERE name = $1
	`

	var value []byte
	err := s.pool.QueryRow(ctx, query, name).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("slot", name).Msg("failed to query slot")
		return nil, fmt.Errorf("failed to query slot %s: %w", name, err)
	}

	return value, nil
}

// Put stores value under name, replacing any previous value.
func (s *postgresSlot) Put(ctx context.Context, name string, value []byte) error {
	query := `
		INSERT INTO kv_slots (name, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, name, value); err != nil {
		s.logger.Error().Err(err).Str("slot", name).Msg("failed to upsert slot")
		return fmt.Errorf("failed to upsert slot %s: %w", name, err)
	}

	return nil
}
