package repository

import (
	"context"

	"github.com/printstudio/docengine/internal/domain/branding"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/storage"
)

type brandingRepository struct {
	store   storage.Store
	flusher *Flusher
	logger  *logger.Logger
}

// NewBrandingRepository stores the singleton profile under branding:v1
func NewBrandingRepository(store storage.Store, flusher *Flusher, logger *logger.Logger) branding.Repository {
	return &brandingRepository{store: store, flusher: flusher, logger: logger}
}

func (r *brandingRepository) Load(ctx context.Context) (*branding.Profile, error) {
	raw, err := r.store.Get(ctx, storage.KeyBranding)
	if ierr.IsNotFound(err) {
		return branding.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	profile, err := schema.ParseBrandingEnvelope(raw)
	if err != nil {
		r.logger.Warnw("stored branding no longer validates, using the default profile",
			"key", storage.KeyBranding,
			"error", err,
		)
		return branding.Default(), nil
	}
	return profile, nil
}

func (r *brandingRepository) Save(ctx context.Context, profile *branding.Profile) error {
	raw, err := schema.MarshalBranding(profile)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode branding").
			Mark(ierr.ErrSystem)
	}
	if r.flusher == nil {
		return r.store.Put(ctx, storage.KeyBranding, raw)
	}
	return r.flusher.Enqueue(storage.KeyBranding, raw)
}
