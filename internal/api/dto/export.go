package dto

import (
	"github.com/printstudio/docengine/internal/validator"
)

// ExportRequest asks for a PDF of a template bound to a record. LoadToken is
// set by the auto export of a preview page and makes the call one-shot.
type ExportRequest struct {
	RecordID  string `json:"recordId" validate:"max=120"`
	LoadToken string `json:"loadToken,omitempty" validate:"max=120"`
}

func (r *ExportRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// DialogAction is the button of a recovery dialog
type DialogAction struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Target string `json:"target"`
}

// Dialog is shown to the user instead of failing the request
type Dialog struct {
	Title         string       `json:"title"`
	Message       string       `json:"message"`
	PrimaryAction DialogAction `json:"primaryAction"`
}

// ExportResponse carries either the generated PDF or a recovery dialog
type ExportResponse struct {
	ExportID string  `json:"exportId"`
	PDFURL   string  `json:"pdfUrl,omitempty"`
	Dialog   *Dialog `json:"dialog,omitempty"`
}

// Succeeded reports whether a PDF was produced
func (r *ExportResponse) Succeeded() bool {
	return r != nil && r.PDFURL != "" && r.Dialog == nil
}
