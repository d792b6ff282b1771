package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxextract/internal/domain"
)

// MockExtractionRepo is a mock implementation of port.ExtractionRepository.
type MockExtractionRepo struct {
	mock.Mock
}

func (m *MockExtractionRepo) InsertFields(ctx context.Context, rows []domain.Extraction) ([]uuid.UUID, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockExtractionRepo) ListByClient(ctx context.Context, clientID, docName string, offset, limit int) ([]domain.Extraction, int, error) {
	args := m.Called(ctx, clientID, docName, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Extraction), args.Int(1), args.Error(2)
}

func (m *MockExtractionRepo) ListForExport(ctx context.Context, clientID, docName string) ([]domain.Extraction, error) {
	args := m.Called(ctx, clientID, docName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Extraction), args.Error(1)
}

func (m *MockExtractionRepo) DeleteByDocument(ctx context.Context, clientID, docName string) (int64, error) {
	args := m.Called(ctx, clientID, docName)
	return args.Get(0).(int64), args.Error(1)
}
