package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/service"
)

type HealthHandler struct {
	templates service.TemplateService
	logger    *logger.Logger
}

func NewHealthHandler(templates service.TemplateService, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{templates: templates, logger: logger}
}

// @Summary Health check
// @Description Reports ok once the template collection is readable
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	items, err := h.templates.List(c.Request.Context(), nil)
	if err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Templates: len(items)})
}
