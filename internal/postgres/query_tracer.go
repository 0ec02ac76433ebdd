package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/types"
)

// slowQuery is the duration above which a successful statement is logged as a warning
const slowQuery = 250 * time.Millisecond

// TracedQuerier logs every statement with its duration. Arguments are never
// logged since they carry whole template and branding envelopes.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
}

func NewTracedQuerier(q Querier, logger *logger.Logger) *TracedQuerier {
	return &TracedQuerier{Querier: q, logger: logger}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	tq.trace(ctx, query, start, err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tq.trace(ctx, query, start, err)
	return err
}

func (tq *TracedQuerier) trace(ctx context.Context, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	fields := []interface{}{
		"duration_ms", elapsed.Milliseconds(),
		"query", compactQuery(query),
	}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		tq.logger.Errorw("database query failed", append(fields, "error", err.Error())...)
	case elapsed > slowQuery:
		tq.logger.Warnw("slow database query", fields...)
	default:
		tq.logger.Debugw("database query completed", fields...)
	}
}

// compactQuery folds a multi-line statement onto one log line
func compactQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
