package dto

import (
	"github.com/printstudio/docengine/internal/types"
	"github.com/printstudio/docengine/internal/validator"
)

// GetDocumentRequest addresses one ERP record
type GetDocumentRequest struct {
	DocType  types.DocType `uri:"docType" validate:"required"`
	RecordID string        `uri:"recordId" validate:"required,max=120"`
}

func (r *GetDocumentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.DocType.Validate()
}

// PageQuery holds the query parameters of the preview and print routes
type PageQuery struct {
	RecordID  string `form:"recordId"`
	Guides    string `form:"guides"`
	Debug     string `form:"debug"`
	Auto      string `form:"auto"`
	AutoPrint string `form:"autoprint"`
}

// GuidesOn defaults to on
func (q *PageQuery) GuidesOn() bool {
	return q.Guides != "0"
}

func (q *PageQuery) DebugOn() bool {
	return q.Debug == "1"
}

// AutoPrintOn defaults to on
func (q *PageQuery) AutoPrintOn() bool {
	return q.AutoPrint != "0"
}

// AutoExportPDF reports whether the preview should export a PDF after load
func (q *PageQuery) AutoExportPDF() bool {
	return q.Auto == "pdf"
}
