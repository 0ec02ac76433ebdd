package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printstudio/docengine/internal/api/dto"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/service"
)

type BrandingHandler struct {
	service service.BrandingService
	log     *logger.Logger
}

func NewBrandingHandler(service service.BrandingService, log *logger.Logger) *BrandingHandler {
	return &BrandingHandler{service: service, log: log}
}

// GetBranding godoc
// @Summary Get the branding profile
// @Tags Branding
// @Produce json
// @Success 200 {object} branding.Profile
// @Router /branding [get]
func (h *BrandingHandler) GetBranding(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateBranding godoc
// @Summary Patch the branding profile
// @Tags Branding
// @Accept json
// @Produce json
// @Param request body dto.UpdateBrandingRequest true "Profile fields"
// @Success 200 {object} branding.Profile
// @Router /branding [patch]
func (h *BrandingHandler) UpdateBranding(c *gin.Context) {
	var req dto.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	profile, err := h.service.Update(c.Request.Context(), req.ToPatch())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// StageDraft godoc
// @Summary Stage a branding edit
// @Description The edit is committed after a quiet period. Consecutive edits are batched into one write.
// @Tags Branding
// @Accept json
// @Produce json
// @Param request body dto.UpdateBrandingRequest true "Profile fields"
// @Success 202 {object} dto.BrandingDraftResponse
// @Router /branding/draft [patch]
func (h *BrandingHandler) StageDraft(c *gin.Context) {
	var req dto.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	profile, err := h.service.StageDraft(c.Request.Context(), req.ToPatch())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, dto.BrandingDraftResponse{Profile: profile, Pending: true})
}

// FlushDraft godoc
// @Summary Commit the staged branding edit now
// @Tags Branding
// @Produce json
// @Success 200 {object} dto.BrandingDraftResponse
// @Router /branding/draft/flush [post]
func (h *BrandingHandler) FlushDraft(c *gin.Context) {
	profile, err := h.service.FlushDraft(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.BrandingDraftResponse{Profile: profile})
}

// UploadImage godoc
// @Summary Upload the logo or the stamp
// @Tags Branding
// @Accept multipart/form-data
// @Produce json
// @Param slot path string true "logo or stamp"
// @Param file formData file true "Image"
// @Success 200 {object} branding.Profile
// @Router /branding/images/{slot} [post]
func (h *BrandingHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}
	if header.Size > service.MaxImageBytes {
		c.Error(ierr.NewErrorf("image is %d bytes", header.Size).
			WithHintf("Images must be at most %d KB", service.MaxImageBytes>>10).
			Mark(ierr.ErrValidation))
		return
	}

	f, err := header.Open()
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
	if err != nil {
		c.Error(invalidRequest(err))
		return
	}

	profile, err := h.service.UploadImage(c.Request.Context(), service.ImageSlot(c.Param("slot")), data)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
