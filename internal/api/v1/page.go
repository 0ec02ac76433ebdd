package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/service"
)

const contentTypeHTML = "text/html; charset=utf-8"

// PageHandler serves the rendered preview and print views
type PageHandler struct {
	service service.PageService
	log     *logger.Logger
}

func NewPageHandler(service service.PageService, log *logger.Logger) *PageHandler {
	return &PageHandler{service: service, log: log}
}

// Preview renders /preview/:templateId?recordId=&guides=&debug=&auto=pdf
func (h *PageHandler) Preview(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	html, err := h.service.Preview(c.Request.Context(), c.Param("templateId"), &query)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, html)
}

// Print renders /print/:templateId?recordId=&autoprint=
func (h *PageHandler) Print(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	html, err := h.service.Print(c.Request.Context(), c.Param("templateId"), &query)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentTypeHTML, html)
}
