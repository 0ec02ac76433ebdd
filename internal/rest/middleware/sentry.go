package middleware

import (
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/config"
)

// SentryMiddleware attaches a Sentry hub to each request when Sentry is enabled.
// It must run before RequestIDMiddleware so the request id lands on the scope.
func SentryMiddleware(cfg config.SentryConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// tagSentryScope annotates the request hub, a no-op without Sentry
func tagSentryScope(c *gin.Context, requestID string) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.ConfigureScope(func(scope *sentrygo.Scope) {
		scope.SetTag("request_id", requestID)
		scope.SetTag("route", c.FullPath())
	})
}
