package mocks

import (
	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
	"taxextract/internal/port"
)

// MockAnalyzerSelector is a mock implementation of service.AnalyzerSelector.
type MockAnalyzerSelector struct {
	mock.Mock
}

func (m *MockAnalyzerSelector) For(kind domain.AnalyzerKind) (port.DocumentAnalyzer, error) {
	args := m.Called(kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.DocumentAnalyzer), args.Error(1)
}
