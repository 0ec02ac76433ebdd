package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/service"
)

type DocumentHandler struct {
	service service.DocumentService
	log     *logger.Logger
}

func NewDocumentHandler(service service.DocumentService, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{service: service, log: log}
}

// GetDocument godoc
// @Summary Fetch an ERP record as a document DTO
// @Tags Documents
// @Produce json
// @Param docType path string true "Document type"
// @Param recordId path string true "Record ID"
// @Success 200 {object} document.DocumentDTO
// @Failure 502 {object} middleware.ErrorResponse
// @Router /documents/{docType}/{recordId} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	var req dto.GetDocumentRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	doc, err := h.service.GetDocument(c.Request.Context(), req.DocType, req.RecordID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
