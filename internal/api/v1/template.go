package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api/dto"
	"github.com/printstudio/docengine/internal/editor"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/schema"
	"github.com/printstudio/docengine/internal/service"
	"github.com/printstudio/docengine/internal/types"
)

type TemplateHandler struct {
	service service.TemplateService
	log     *logger.Logger
}

func NewTemplateHandler(service service.TemplateService, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{service: service, log: log}
}

// ListTemplates godoc
// @Summary List templates
// @Tags Templates
// @Produce json
// @Param filter query types.TemplateFilter false "Filter"
// @Success 200 {object} dto.ListTemplatesResponse
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	filter := types.NewTemplateFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListTemplatesResponse(items))
}

// GetTemplate godoc
// @Summary Get a template by ID
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} template.Template
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTemplate godoc
// @Summary Create a template
// @Description Creates a custom template. An id is generated when none is given.
// @Tags Templates
// @Accept json
// @Produce json
// @Success 201 {object} template.Template
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}
	t, err := schema.DecodeTemplate(raw)
	if err != nil {
		c.Error(err)
		return
	}

	saved, err := h.service.Upsert(c.Request.Context(), t)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateTemplate godoc
// @Summary Replace a template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} template.Template
// @Router /templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}
	t, err := schema.DecodeTemplate(raw)
	if err != nil {
		c.Error(err)
		return
	}
	t.ID = c.Param("id")

	saved, err := h.service.Upsert(c.Request.Context(), t)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DeleteTemplate godoc
// @Summary Delete a custom template
// @Tags Templates
// @Param id path string true "Template ID"
// @Success 204
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RenameTemplate godoc
// @Summary Rename a template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.RenameTemplateRequest true "New name"
// @Success 200 {object} template.Template
// @Router /templates/{id}/rename [post]
func (h *TemplateHandler) RenameTemplate(c *gin.Context) {
	var req dto.RenameTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	t, err := h.service.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DuplicateTemplate godoc
// @Summary Duplicate a template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 201 {object} template.Template
// @Router /templates/{id}/duplicate [post]
func (h *TemplateHandler) DuplicateTemplate(c *gin.Context) {
	t, err := h.service.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// CreateFromDefault godoc
// @Summary Create an editable copy of a default template
// @Tags Templates
// @Produce json
// @Param id path string true "Default template ID"
// @Success 201 {object} template.Template
// @Router /templates/{id}/from-default [post]
func (h *TemplateHandler) CreateFromDefault(c *gin.Context) {
	t, err := h.service.CreateFromDefault(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// TogglePublish godoc
// @Summary Flip the published flag of a template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} template.Template
// @Router /templates/{id}/publish [post]
func (h *TemplateHandler) TogglePublish(c *gin.Context) {
	t, err := h.service.TogglePublish(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateTheme godoc
// @Summary Patch the theme of a template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.UpdateThemeRequest true "Theme fields"
// @Success 200 {object} template.Template
// @Router /templates/{id}/theme [patch]
func (h *TemplateHandler) UpdateTheme(c *gin.Context) {
	var req dto.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	t, err := h.service.UpdateTheme(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdatePage godoc
// @Summary Patch the page settings of a template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.UpdatePageRequest true "Page fields"
// @Success 200 {object} template.Template
// @Router /templates/{id}/page [patch]
func (h *TemplateHandler) UpdatePage(c *gin.Context) {
	var req dto.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	t, err := h.service.UpdatePage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// AddBlock godoc
// @Summary Append a block to a template
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Success 201 {object} template.Template
// @Router /templates/{id}/blocks [post]
func (h *TemplateHandler) AddBlock(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}
	block, err := schema.DecodeBlock(raw)
	if err != nil {
		c.Error(err)
		return
	}

	t, err := h.service.AddBlock(c.Request.Context(), c.Param("id"), block)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateBlock godoc
// @Summary Replace a block of a template
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param blockId path string true "Block ID"
// @Success 200 {object} template.Template
// @Router /templates/{id}/blocks/{blockId} [put]
func (h *TemplateHandler) UpdateBlock(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}
	block, err := schema.DecodeBlock(raw)
	if err != nil {
		c.Error(err)
		return
	}
	block.ID = c.Param("blockId")

	t, err := h.service.UpdateBlock(c.Request.Context(), c.Param("id"), block)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// RemoveBlock godoc
// @Summary Remove a block from a template
// @Tags Blocks
// @Produce json
// @Param id path string true "Template ID"
// @Param blockId path string true "Block ID"
// @Success 200 {object} template.Template
// @Router /templates/{id}/blocks/{blockId} [delete]
func (h *TemplateHandler) RemoveBlock(c *gin.Context) {
	t, err := h.service.RemoveBlock(c.Request.Context(), c.Param("id"), c.Param("blockId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ReorderBlocks godoc
// @Summary Reorder the blocks of a template
// @Description Unknown ids are ignored and blocks left out keep their relative order at the end.
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.ReorderBlocksRequest true "Block order"
// @Success 200 {object} template.Template
// @Router /templates/{id}/blocks/reorder [post]
func (h *TemplateHandler) ReorderBlocks(c *gin.Context) {
	var req dto.ReorderBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	t, err := h.service.ReorderBlocks(c.Request.Context(), c.Param("id"), req.BlockIDs)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// InsertBlock godoc
// @Summary Insert a new block with default props
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.InsertBlockRequest true "Block type and position"
// @Success 201 {object} dto.BlockMutationResponse
// @Router /templates/{id}/blocks/insert [post]
func (h *TemplateHandler) InsertBlock(c *gin.Context) {
	var req dto.InsertBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	t, block, err := h.service.InsertBlock(c.Request.Context(), c.Param("id"), req.Type, req.Index)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.BlockMutationResponse{Template: t, Block: block})
}

// MoveBlock godoc
// @Summary Move a block to another position
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.MoveBlockRequest true "Positions"
// @Success 200 {object} template.Template
// @Router /templates/{id}/blocks/move [post]
func (h *TemplateHandler) MoveBlock(c *gin.Context) {
	var req dto.MoveBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	t, err := h.service.MoveBlock(c.Request.Context(), c.Param("id"), req.From, req.To)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DropBlock godoc
// @Summary Finish a drag on the canvas
// @Description A palette drag inserts a new block, a block drag moves it.
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.DropRequest true "Drag source and target"
// @Success 200 {object} dto.BlockMutationResponse
// @Router /templates/{id}/blocks/drop [post]
func (h *TemplateHandler) DropBlock(c *gin.Context) {
	var req dto.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	t, block, err := h.service.Drop(c.Request.Context(), c.Param("id"), req.ToSource(), req.OverID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.BlockMutationResponse{Template: t, Block: block})
}

// RefreshDefaults godoc
// @Summary Reconcile the collection with the shipped default templates
// @Tags Templates
// @Produce json
// @Success 200 {object} dto.RefreshDefaultsResponse
// @Router /defaults/refresh [post]
func (h *TemplateHandler) RefreshDefaults(c *gin.Context) {
	res, err := h.service.RefreshDefaults(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRefreshDefaultsResponse(res))
}

// GetPalette godoc
// @Summary List the block kinds the editor can insert
// @Tags Blocks
// @Produce json
// @Success 200 {object} dto.PaletteResponse
// @Router /palette [get]
func (h *TemplateHandler) GetPalette(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PaletteResponse{Items: editor.Palette()})
}

func invalidRequest(err error) error {
	return ierr.WithError(err).
		WithHint("Invalid request format").
		Mark(ierr.ErrValidation)
}
