package v1

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/pubsub"
)

// keepAliveInterval keeps idle proxies from closing the stream
const keepAliveInterval = 25 * time.Second

// EventsHandler streams change notifications so open views can re-read
// the templates and branding they show.
type EventsHandler struct {
	subscriber pubsub.Subscriber
	log        *logger.Logger
}

func NewEventsHandler(subscriber pubsub.Subscriber, log *logger.Logger) *EventsHandler {
	return &EventsHandler{subscriber: subscriber, log: log}
}

// StreamChanges godoc
// @Summary Stream template and branding changes
// @Tags Events
// @Produce text/event-stream
// @Success 200 {object} pubsub.ChangeEvent
// @Router /events [get]
func (h *EventsHandler) StreamChanges(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := pubsub.SubscribeChanges(ctx, h.subscriber, h.log)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), event)
			return true
		}
	})
}
