package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxextract/internal/port"
)

// MockDocumentAnalyzer is a mock implementation of port.DocumentAnalyzer.
type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*port.AnalyzeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.AnalyzeResult), args.Error(1)
}
