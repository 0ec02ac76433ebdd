package testutil

import (
	"context"

	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/types"
	"github.com/stretchr/testify/mock"
)

var _ document.Provider = (*MockProvider)(nil)

// MockProvider stands in for the ERP document source
type MockProvider struct {
	mock.Mock
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GetDocumentDTO implements document.Provider
func (m *MockProvider) GetDocumentDTO(ctx context.Context, docType types.DocType, recordID string) (*document.DocumentDTO, error) {
	args := m.Called(ctx, docType, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.DocumentDTO), args.Error(1)
}
