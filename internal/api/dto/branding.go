package dto

import (
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/validator"
)

// UpdateBrandingRequest is a partial branding update. Nil fields are kept.
type UpdateBrandingRequest struct {
	branding.Patch
}

func (r *UpdateBrandingRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToPatch returns the profile patch carried by the request
func (r *UpdateBrandingRequest) ToPatch() *branding.Patch {
	p := r.Patch
	return &p
}

// BrandingDraftResponse is the profile as it will look once the pending draft commits
type BrandingDraftResponse struct {
	Profile *branding.Profile `json:"profile"`
	Pending bool              `json:"pending"`
}
