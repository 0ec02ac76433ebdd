package testutil

import (
	"context"

	"github.com/printstudio/docengine/internal/pdf"
	"github.com/stretchr/testify/mock"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

// MockPDFGenerator stands in for the remote PDF service
type MockPDFGenerator struct {
	mock.Mock
}

func NewMockPDFGenerator() *MockPDFGenerator {
	return &MockPDFGenerator{}
}

// Generate implements pdf.Generator
func (m *MockPDFGenerator) Generate(ctx context.Context, req *pdf.Request) (*pdf.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pdf.Response), args.Error(1)
}
