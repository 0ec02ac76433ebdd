package document

import (
	"context"

	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
)

// Provider produces the data record a template is rendered against
type Provider interface {
	// GetDocumentDTO fails with ErrUnsupportedDocType for unknown document
	// types and ErrHTTPClient when the record cannot be fetched.
	GetDocumentDTO(ctx context.Context, docType types.DocType, recordID string) (*DocumentDTO, error)
}

// Endpoints maps each document type to its report path on the ERP backend
var Endpoints = map[types.DocType]string{
	types.DocTypeQuotation:    "/api/reports/quotation",
	types.DocTypeReceiptFull:  "/api/reports/receipt/full",
	types.DocTypeReceiptShort: "/api/reports/receipt/short",
	types.DocTypeTrfReceipt:   "/api/reports/trf",
}

// EndpointPath returns the report path for docType
func EndpointPath(docType types.DocType) (string, error) {
	if err := docType.Validate(); err != nil {
		return "", err
	}
	path, ok := Endpoints[docType]
	if !ok {
		return "", ierr.NewErrorf("no endpoint for doc type %s", docType).
			Mark(ierr.ErrUnsupportedDocType)
	}
	return path, nil
}
