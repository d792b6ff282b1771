package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyJobFinished(ctx context.Context, job *domain.ExtractionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
