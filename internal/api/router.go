package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/printstudio/docengine/internal/api/v1"
	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/rest/middleware"
	"github.com/printstudio/docengine/internal/types"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Template *v1.TemplateHandler
	Branding *v1.BrandingHandler
	Document *v1.DocumentHandler
	Export   *v1.ExportHandler
	Page     *v1.PageHandler
	Events   *v1.EventsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg.Sentry),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg.Server.AllowedOrigins),
		middleware.AccessLog(logger),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	// Rendered pages
	router.GET("/preview/:templateId", handlers.Page.Preview)
	router.GET("/print/:templateId", handlers.Page.Print)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	templates := router.Group("/templates")
	{
		templates.GET("", handlers.Template.ListTemplates)
		templates.POST("", handlers.Template.CreateTemplate)
		templates.GET("/:id", handlers.Template.GetTemplate)
		templates.PUT("/:id", handlers.Template.UpdateTemplate)
		templates.DELETE("/:id", handlers.Template.DeleteTemplate)
		templates.POST("/:id/rename", handlers.Template.RenameTemplate)
		templates.POST("/:id/duplicate", handlers.Template.DuplicateTemplate)
		templates.POST("/:id/from-default", handlers.Template.CreateFromDefault)
		templates.POST("/:id/publish", handlers.Template.TogglePublish)
		templates.PATCH("/:id/theme", handlers.Template.UpdateTheme)
		templates.PATCH("/:id/page", handlers.Template.UpdatePage)
		templates.POST("/:id/export", handlers.Export.ExportPDF)

		blocks := templates.Group("/:id/blocks")
		{
			blocks.POST("", handlers.Template.AddBlock)
			blocks.PUT("/:blockId", handlers.Template.UpdateBlock)
			blocks.DELETE("/:blockId", handlers.Template.RemoveBlock)
			blocks.POST("/reorder", handlers.Template.ReorderBlocks)
			blocks.POST("/insert", handlers.Template.InsertBlock)
			blocks.POST("/move", handlers.Template.MoveBlock)
			blocks.POST("/drop", handlers.Template.DropBlock)
		}
	}

	router.POST("/defaults/refresh", handlers.Template.RefreshDefaults)
	router.GET("/palette", handlers.Template.GetPalette)

	branding := router.Group("/branding")
	{
		branding.GET("", handlers.Branding.GetBranding)
		branding.PATCH("", handlers.Branding.UpdateBranding)
		branding.PATCH("/draft", handlers.Branding.StageDraft)
		branding.POST("/draft/flush", handlers.Branding.FlushDraft)
		branding.POST("/images/:slot", handlers.Branding.UploadImage)
	}

	router.GET("/documents/:docType/:recordId", handlers.Document.GetDocument)
	router.GET("/events", handlers.Events.StreamChanges)
}
