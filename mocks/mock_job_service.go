package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
	"taxextract/internal/service"
)

// MockJobService is a mock implementation of service.JobService.
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Enqueue(ctx context.Context, input service.EnqueueInput) (*domain.ExtractionJob, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionJob), args.Error(1)
}

func (m *MockJobService) Get(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionJob), args.Error(1)
}

func (m *MockJobService) Process(ctx context.Context, job *domain.ExtractionJob, maxAttempts int) {
	m.Called(ctx, job, maxAttempts)
}
