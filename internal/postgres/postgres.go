package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
)

// DB wraps sqlx.DB and traces every statement through the logger
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Querier is the subset of sqlx used by the key/value store
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// NewDB connects to the database configured under storage.postgres
func NewDB(cfg *config.Configuration, logger *logger.Logger) (*DB, error) {
	pg := cfg.Storage.Postgres
	db, err := sqlx.Connect("postgres", pg.GetDSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect to postgres").
			WithMessagef("host:%s db:%s", pg.Host, pg.DBName).
			Mark(ierr.ErrStorage)
	}
	if pg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pg.MaxOpenConns)
	}
	return &DB{DB: db, logger: logger}, nil
}

// Querier returns the traced connection
func (db *DB) Querier() Querier {
	return NewTracedQuerier(db.DB, db.logger)
}

// Close closes the database connection
func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
		return err
	}
	return nil
}
