package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxextract/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, input service.UploadDocumentInput) (*service.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, clientID, blobName string) error {
	args := m.Called(ctx, clientID, blobName)
	return args.Error(0)
}
