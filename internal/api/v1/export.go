package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/service"
)

type ExportHandler struct {
	service service.ExportService
	log     *logger.Logger
}

func NewExportHandler(service service.ExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{service: service, log: log}
}

// ExportPDF godoc
// @Summary Export a template as PDF
// @Description When the PDF cannot be produced the response carries a dialog pointing at the print view.
// @Tags Export
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.ExportRequest false "Record to bind"
// @Success 200 {object} dto.ExportResponse
// @Router /templates/{id}/export [post]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	var req dto.ExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(invalidRequest(err))
			return
		}
	}

	resp, err := h.service.Export(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
