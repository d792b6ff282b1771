package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
	"taxextract/internal/export"
	"taxextract/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, input service.ExtractInput) (*service.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) List(ctx context.Context, clientID, docName string, offset, limit int) ([]domain.Extraction, int, error) {
	args := m.Called(ctx, clientID, docName, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Extraction), args.Int(1), args.Error(2)
}

// Export writes the configured string (argument index 0) to w before returning.
func (m *MockExtractionService) Export(ctx context.Context, clientID, docName string, format export.Format, w io.Writer) error {
	args := m.Called(ctx, clientID, docName, format, w)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func (m *MockExtractionService) DeleteDocument(ctx context.Context, clientID, docName string) (int64, error) {
	args := m.Called(ctx, clientID, docName)
	return args.Get(0).(int64), args.Error(1)
}
