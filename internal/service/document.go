package service

import (
	"context"

	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/provider"
	"github.com/printstudio/docengine/internal/types"
)

// DocumentService fetches the records templates are rendered against
type DocumentService interface {
	// GetDocument fetches the record from the configured provider
	GetDocument(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error)
	// Resolve fetches the record, or sample data when no record is given
	Resolve(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error)
}

type documentService struct {
	ServiceParams
	sample document.Provider
}

// NewDocumentService creates a new document service
func NewDocumentService(params ServiceParams) DocumentService {
	return &documentService{
		ServiceParams: params,
		sample:        provider.NewSampleProvider(),
	}
}

func (s *documentService) GetDocument(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error) {
	if err := docType.Validate(); err != nil {
		return nil, err
	}

	ctx, finish := s.Sentry.StartSpan(ctx, "document.fetch", map[string]interface{}{
		"doc_type":  docType,
		"record_id": recordID,
	})
	defer finish()

	dto, err := s.Provider.GetDocumentDTO(ctx, docType, recordID)
	if err != nil {
		s.Logger.Warnw("failed to fetch document",
			"doc_type", docType,
			"record_id", recordID,
			"error", err)
		return nil, err
	}
	return dto, nil
}

func (s *documentService) Resolve(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error) {
	if recordID == "" {
		return s.sample.GetDocumentDTO(ctx, docType, "")
	}
	return s.GetDocument(ctx, docType, recordID)
}
