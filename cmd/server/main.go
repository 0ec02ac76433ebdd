package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api"
	v1 "github.com/printstudio/docengine/internal/api/v1"
	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/httpclient"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/pdf"
	"github.com/printstudio/docengine/internal/provider"
	"github.com/printstudio/docengine/internal/pubsub"
	"github.com/printstudio/docengine/internal/pubsub/memory"
	"github.com/printstudio/docengine/internal/render"
	"github.com/printstudio/docengine/internal/repository"
	"github.com/printstudio/docengine/internal/sentry"
	"github.com/printstudio/docengine/internal/service"
	"github.com/printstudio/docengine/internal/types"
	"github.com/printstudio/docengine/internal/validator"
	"go.uber.org/fx"
)

// @title Document Engine API
// @version 1.0
// @description Template editor and renderer for Thai business documents
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Storage
			repository.NewStore,
			repository.NewStartedFlusher,

			// Repositories
			repository.NewTemplateRepository,
			repository.NewBrandingRepository,

			// Change notifications
			memory.NewPubSub,
			providePublisher,
			provideSubscriber,

			// Rendering and documents
			provideRenderer,
			provider.NewProvider,
			providePDFGenerator,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewExportGuard,
			service.NewTemplateService,
			service.NewBrandingService,
			service.NewDocumentService,
			service.NewExportService,
			service.NewPageService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePublisher(ps pubsub.PubSub) pubsub.Publisher {
	return ps
}

func provideSubscriber(ps pubsub.PubSub) pubsub.Subscriber {
	return ps
}

func provideRenderer(logger *logger.Logger, sentryService *sentry.Service) (*render.Renderer, error) {
	return render.New(logger, sentryService)
}

func providePDFGenerator(cfg *config.Configuration, logger *logger.Logger) pdf.Generator {
	client := httpclient.NewClient(httpclient.ClientConfig{Timeout: cfg.Export.Timeout()}, logger)
	return pdf.NewGenerator(cfg, client, logger)
}

func provideHandlers(
	logger *logger.Logger,
	subscriber pubsub.Subscriber,
	templateService service.TemplateService,
	brandingService service.BrandingService,
	documentService service.DocumentService,
	exportService service.ExportService,
	pageService service.PageService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(templateService, logger),
		Template: v1.NewTemplateHandler(templateService, logger),
		Branding: v1.NewBrandingHandler(brandingService, logger),
		Document: v1.NewDocumentHandler(documentService, logger),
		Export:   v1.NewExportHandler(exportService, logger),
		Page:     v1.NewPageHandler(pageService, logger),
		Events:   v1.NewEventsHandler(subscriber, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	ps pubsub.PubSub,
	templateService service.TemplateService,
	brandingService service.BrandingService,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}
	switch mode {
	case types.ModeLocal, types.ModeAPI:
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// reconcile the stored collection with the shipped defaults before serving
			if err := templateService.Load(ctx); err != nil {
				return err
			}

			log.Infow("Starting API server...", "address", cfg.Server.Address, "mode", mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			if err := srv.Shutdown(ctx); err != nil {
				log.Errorw("server shutdown failed", "error", err)
			}
			if _, err := brandingService.FlushDraft(ctx); err != nil {
				log.Errorw("failed to commit pending branding draft", "error", err)
			}
			return ps.Close()
		},
	})
}
