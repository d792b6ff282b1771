package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
)

// MockJobRepo is a mock implementation of port.JobRepository.
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.ExtractionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionJob), args.Error(1)
}

func (m *MockJobRepo) ClaimQueued(ctx context.Context, limit int, staleAfter time.Duration) ([]domain.ExtractionJob, error) {
	args := m.Called(ctx, limit, staleAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExtractionJob), args.Error(1)
}

func (m *MockJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID, docURL string, fieldsWritten int) error {
	args := m.Called(ctx, id, docURL, fieldsWritten)
	return args.Error(0)
}

func (m *MockJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, maxAttempts int) (domain.JobStatus, error) {
	args := m.Called(ctx, id, errMsg, maxAttempts)
	return args.Get(0).(domain.JobStatus), args.Error(1)
}
