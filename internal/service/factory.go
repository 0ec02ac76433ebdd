package service

import (
	"time"

	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/pdf"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/printstudio/docengine/internal/render"
	"github.com/printstudio/docengine/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	TemplateRepo template.Repository
	BrandingRepo branding.Repository

	// Collaborators
	Provider     document.Provider
	Renderer     *render.Renderer
	PDFGenerator pdf.Generator
	Serializer   pdf.Serializer
	Publisher    pubsub.Publisher
	Sentry       *sentry.Service

	// Now is the clock used to stamp mutations; nil means time.Now
	Now func() time.Time
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	templateRepo template.Repository,
	brandingRepo branding.Repository,
	provider document.Provider,
	renderer *render.Renderer,
	pdfGenerator pdf.Generator,
	publisher pubsub.Publisher,
	sentryService *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		TemplateRepo: templateRepo,
		BrandingRepo: brandingRepo,
		Provider:     provider,
		Renderer:     renderer,
		PDFGenerator: pdfGenerator,
		Serializer:   pdf.NewHTMLSerializer(renderer),
		Publisher:    publisher,
		Sentry:       sentryService,
		Now:          time.Now,
	}
}

func (p ServiceParams) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
