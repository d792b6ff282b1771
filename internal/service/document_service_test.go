package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/port"
	"taxextract/internal/service"
	"taxextract/mocks"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newDocumentService(storage *mocks.MockObjectStorage, jobs *mocks.MockJobService) service.DocumentService {
	return service.NewDocumentService(storage, jobs, &config.StorageConfig{Bucket: testBucket, MaxFileSizeMB: 1})
}

func TestDocumentService_Upload(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	jobs := new(mocks.MockJobService)
	svc := newDocumentService(storage, jobs)

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == testBucket && in.Key == "client-1/w2.png" &&
			in.ContentType == "image/png" && in.Size == int64(len(pngBytes))
	})).Return(&port.UploadOutput{Location: "https://tax-docs/client-1/w2.png"}, nil)

	result, err := svc.Upload(context.Background(), service.UploadDocumentInput{
		ClientID: "client-1", FileName: "scans/w2.png", ContentType: "image/png",
		Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes),
	})

	require.NoError(t, err)
	assert.Equal(t, "w2.png", result.Document.BlobName)
	assert.Equal(t, domain.FileTypePNG, result.Document.FileType)
	assert.Equal(t, 1, result.Document.PageCount)
	assert.Equal(t, "https://tax-docs/client-1/w2.png", result.Document.Location)
	assert.Nil(t, result.Job)
	jobs.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_Enqueues(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	jobs := new(mocks.MockJobService)
	svc := newDocumentService(storage, jobs)

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("ObjectURL", testBucket, "client-1/w2.png").Return(objectURL)
	job := &domain.ExtractionJob{ID: uuid.New(), Status: domain.JobStatusQueued}
	jobs.On("Enqueue", mock.Anything, service.EnqueueInput{
		ClientID: "client-1", BlobName: "w2.png", FormType: domain.FormTypeW2, AccessID: "acc-1",
	}).Return(job, nil)

	result, err := svc.Upload(context.Background(), service.UploadDocumentInput{
		ClientID: "client-1", FileName: "w2.png", Body: bytes.NewReader(pngBytes),
		FormType: domain.FormTypeW2, AccessID: "acc-1", Enqueue: true,
	})

	require.NoError(t, err)
	assert.Equal(t, job, result.Job)
	assert.Equal(t, objectURL, result.Document.Location)
}

func TestDocumentService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   service.UploadDocumentInput
		wantErr error
	}{
		{
			name:    "declared size too large",
			input:   service.UploadDocumentInput{ClientID: "c", FileName: "a.png", Size: 2 << 20, Body: bytes.NewReader(pngBytes)},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:    "body larger than declared",
			input:   service.UploadDocumentInput{ClientID: "c", FileName: "a.png", Body: strings.NewReader(strings.Repeat("x", (1<<20)+1))},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:    "unsupported type",
			input:   service.UploadDocumentInput{ClientID: "c", FileName: "notes.txt", ContentType: "text/plain", Body: strings.NewReader("hello")},
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name:    "corrupt pdf",
			input:   service.UploadDocumentInput{ClientID: "c", FileName: "w2.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF-1.7 broken")},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing file name",
			input:   service.UploadDocumentInput{ClientID: "c", FileName: " ", Body: bytes.NewReader(pngBytes)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "client id with separator",
			input:   service.UploadDocumentInput{ClientID: "a/b", FileName: "w2.png", Body: bytes.NewReader(pngBytes)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "enqueue without form type",
			input:   service.UploadDocumentInput{ClientID: "c", FileName: "w2.png", Body: bytes.NewReader(pngBytes), Enqueue: true},
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := new(mocks.MockObjectStorage)
			svc := newDocumentService(storage, new(mocks.MockJobService))

			_, err := svc.Upload(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_Upload_StorageFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := newDocumentService(storage, new(mocks.MockJobService))
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := svc.Upload(context.Background(), service.UploadDocumentInput{
		ClientID: "client-1", FileName: "w2.png", Body: bytes.NewReader(pngBytes),
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestDocumentService_Delete_RejectsNestedBlobName(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := newDocumentService(storage, new(mocks.MockJobService))

	err := svc.Delete(context.Background(), "client-1", "../client-2/w2.pdf")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Delete(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := newDocumentService(storage, new(mocks.MockJobService))
	storage.On("Delete", mock.Anything, testBucket, "client-1/w2.pdf").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "client-1", "w2.pdf"))
	storage.AssertExpectations(t)
}
