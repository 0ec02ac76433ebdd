package repository

import (
	"context"

	"github.com/printstudio/docengine/internal/domain/template"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/storage"
)

type templateRepository struct {
	store   storage.Store
	flusher *Flusher
	logger  *logger.Logger
}

// NewTemplateRepository stores the collection under templates:v1. When flusher
// is nil, Save writes through synchronously.
func NewTemplateRepository(store storage.Store, flusher *Flusher, logger *logger.Logger) template.Repository {
	return &templateRepository{store: store, flusher: flusher, logger: logger}
}

func (r *templateRepository) Load(ctx context.Context) ([]*template.Template, error) {
	raw, err := r.store.Get(ctx, storage.KeyTemplates)
	if ierr.IsNotFound(err) {
		r.logger.Infow("no stored templates, starting empty", "key", storage.KeyTemplates)
		return []*template.Template{}, nil
	}
	if err != nil {
		return nil, err
	}

	templates, dropped, err := schema.ParseTemplates(raw)
	if err != nil {
		r.logger.Warnw("stored template collection is unreadable, starting empty",
			"key", storage.KeyTemplates,
			"error", err,
		)
		return []*template.Template{}, nil
	}
	for _, d := range dropped {
		r.logger.Warnw("dropping stored template that no longer validates",
			"key", storage.KeyTemplates,
			"index", d.Index,
			"template_id", d.ID,
			"error", d.Err,
		)
	}

	r.logger.Debugw("loaded templates", "count", len(templates), "dropped", len(dropped))
	return templates, nil
}

func (r *templateRepository) Save(ctx context.Context, templates []*template.Template) error {
	raw, err := schema.MarshalTemplates(templates)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode templates").
			Mark(ierr.ErrSystem)
	}
	if r.flusher == nil {
		return r.store.Put(ctx, storage.KeyTemplates, raw)
	}
	return r.flusher.Enqueue(storage.KeyTemplates, raw)
}
