package repository

import (
	"context"

	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/storage"
	"go.uber.org/fx"
)

// NewStore opens the configured backend and closes it on shutdown
func NewStore(lc fx.Lifecycle, cfg *config.Configuration, logger *logger.Logger) (storage.Store, error) {
	store, err := storage.NewStore(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// NewStartedFlusher starts the background writer and drains it on shutdown.
// fx stops hooks in reverse order, so the flush runs before the store closes.
func NewStartedFlusher(lc fx.Lifecycle, store storage.Store, cfg *config.Configuration, logger *logger.Logger) *Flusher {
	f := NewFlusher(store, cfg, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			f.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infow("flushing pending snapshots", "pending", f.Pending())
			return f.Close(ctx)
		},
	})
	return f
}
