package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/printstudio/docengine/internal/postgres"
)

// PostgresStore keeps each key as one row of a key/value table
type PostgresStore struct {
	db    *postgres.DB
	table string
}

func NewPostgresStore(db *postgres.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// PostgresSchema returns the DDL of the key/value table
func PostgresSchema(table string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, pq.QuoteIdentifier(table))
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)

	var value []byte
	err := s.db.Querier().GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, storageFailed(err, "select", key)
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
	INSERT INTO %s (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.table)

	if _, err := s.db.Querier().ExecContext(ctx, query, key, string(value)); err != nil {
		return storageFailed(err, "upsert", key)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)
	if _, err := s.db.Querier().ExecContext(ctx, query, key); err != nil {
		return storageFailed(err, "delete", key)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
