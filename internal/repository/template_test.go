package repository

import (
	"context"
	"testing"

	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRepository_LoadEmpty(t *testing.T) {
	repo := NewTemplateRepository(storage.NewMemoryStore(), nil, logger.NewNopLogger())

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTemplateRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewTemplateRepository(store, nil, logger.NewNopLogger())

	defaults := template.ShippedDefaults()
	require.NoError(t, repo.Save(ctx, defaults))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaults, got)
}

func TestTemplateRepository_DropsDriftedEntries(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	good, err := schema.MarshalTemplates(template.ShippedDefaults()[:1])
	require.NoError(t, err)
	// splice a template with a retired block type in front of the good one
	raw := `{"templates":[{"id":"old","name":"Old","docType":"quotation","blocks":[{"id":"b","type":"qrCode"}]},` + string(good[len(`{"templates":[`):])
	require.NoError(t, store.Put(ctx, storage.KeyTemplates, []byte(raw)))

	got, err := NewTemplateRepository(store, nil, logger.NewNopLogger()).Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, template.DefaultQuotationID, got[0].ID)
}

func TestTemplateRepository_UnreadableEnvelope(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(ctx, storage.KeyTemplates, []byte(`not json`)))

	got, err := NewTemplateRepository(store, nil, logger.NewNopLogger()).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTemplateRepository_SaveThroughFlusher(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	f := NewFlusher(store, testConfig(), logger.NewNopLogger())
	repo := NewTemplateRepository(store, f, logger.NewNopLogger())

	require.NoError(t, repo.Save(ctx, template.ShippedDefaults()))
	_, err := store.Get(ctx, storage.KeyTemplates)
	assert.Error(t, err, "write is deferred until flush")

	require.NoError(t, f.Flush(ctx))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestBrandingRepository(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewBrandingRepository(store, nil, logger.NewNopLogger())

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, branding.Default(), got)

	profile := branding.Default()
	profile.CompanyName = "ร้านใหม่"
	require.NoError(t, repo.Save(ctx, profile))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ร้านใหม่", got.CompanyName)

	require.NoError(t, store.Put(ctx, storage.KeyBranding, []byte(`{"branding":{"primaryColor":"nope"}}`)))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, branding.Default(), got)
}
