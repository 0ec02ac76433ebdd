package storage

import (
	"context"

	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/postgres"
	"github.com/printstudio/docengine/internal/types"
)

// NewStore builds the backend selected by storage.backend
func NewStore(ctx context.Context, cfg *config.Configuration, logger *logger.Logger) (Store, error) {
	sc := cfg.Storage
	logger.Infow("opening storage backend", "backend", sc.Backend)

	switch sc.Backend {
	case types.StorageBackendMemory:
		return NewMemoryStore(), nil
	case types.StorageBackendFile:
		return NewFileStore(sc.File.Dir)
	case types.StorageBackendPostgres:
		db, err := postgres.NewDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db, sc.Postgres.Table), nil
	case types.StorageBackendRedis:
		store := NewRedisStore(sc.Redis)
		if err := store.client.Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, storageFailed(err, "ping", sc.Redis.Address)
		}
		return store, nil
	case types.StorageBackendS3:
		return NewS3Store(ctx, sc.S3)
	case types.StorageBackendDynamoDB:
		return NewDynamoDBStore(ctx, sc.DynamoDB)
	default:
		return nil, ierr.NewErrorf("unknown storage backend %q", sc.Backend).
			WithHint("storage.backend must be one of memory, file, postgres, redis, s3, dynamodb").
			Mark(ierr.ErrConfiguration)
	}
}
