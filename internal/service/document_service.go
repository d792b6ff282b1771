package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"taxextract/internal/config"
	"taxextract/internal/docinspect"
	"taxextract/internal/domain"
	"taxextract/internal/port"
)

// UploadDocumentInput is the DTO for source document uploads.
type UploadDocumentInput struct {
	ClientID    string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	AccessID    string
	// FormType is required when Enqueue is set.
	FormType domain.FormType
	Enqueue  bool
}

// UploadResult is the stored document and, when requested, its queued job.
type UploadResult struct {
	Document *domain.StoredDocument `json:"document"`
	Job      *domain.ExtractionJob  `json:"job,omitempty"`
}

// DocumentService stores source documents for extraction.
type DocumentService interface {
	Upload(ctx context.Context, input UploadDocumentInput) (*UploadResult, error)
	Delete(ctx context.Context, clientID, blobName string) error
}

type documentService struct {
	storage port.ObjectStorage
	jobs    JobService
	cfg     *config.StorageConfig
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(storage port.ObjectStorage, jobs JobService, cfg *config.StorageConfig) DocumentService {
	return &documentService{storage: storage, jobs: jobs, cfg: cfg}
}

func (s *documentService) Upload(ctx context.Context, input UploadDocumentInput) (*UploadResult, error) {
	clientID := strings.TrimSpace(input.ClientID)
	blobName, err := blobNameFrom(input.FileName)
	if err != nil {
		return nil, err
	}
	if !domain.ValidKeySegment(clientID) {
		return nil, fmt.Errorf("%w: invalid client_id", domain.ErrInvalidInput)
	}
	if input.Enqueue && strings.TrimSpace(string(input.FormType)) == "" {
		return nil, fmt.Errorf("%w: form_type is required to queue extraction", domain.ErrInvalidInput)
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(input.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	fileType, err := docinspect.DetectFileType(input.ContentType, blobName, head)
	if err != nil {
		return nil, err
	}
	pages, err := docinspect.Inspect(fileType, data)
	if err != nil {
		return nil, err
	}

	doc := &domain.StoredDocument{
		ClientID:    clientID,
		BlobName:    blobName,
		Key:         domain.ObjectKey(clientID, blobName),
		FileType:    fileType,
		ContentType: domain.ContentTypeFor(fileType),
		Size:        int64(len(data)),
		PageCount:   pages,
	}

	log.Printf("documentService.Upload: uploading %s (%s, %d bytes, %d pages)",
		doc.Key, doc.ContentType, doc.Size, doc.PageCount)

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         doc.Key,
		Body:        bytes.NewReader(data),
		ContentType: doc.ContentType,
		Size:        doc.Size,
	})
	if err != nil {
		log.Printf("documentService.Upload: storage upload failed for %s: %v", doc.Key, err)
		return nil, domain.ErrUploadFailed
	}
	doc.Location = out.Location
	if doc.Location == "" {
		doc.Location = s.storage.ObjectURL(s.cfg.Bucket, doc.Key)
	}

	result := &UploadResult{Document: doc}
	if !input.Enqueue {
		return result, nil
	}

	job, err := s.jobs.Enqueue(ctx, EnqueueInput{
		ClientID: clientID,
		BlobName: blobName,
		FormType: input.FormType,
		AccessID: input.AccessID,
	})
	if err != nil {
		return nil, err
	}
	result.Job = job
	return result, nil
}

func (s *documentService) Delete(ctx context.Context, clientID, blobName string) error {
	if err := validateObjectRef(clientID, blobName); err != nil {
		return err
	}
	key := domain.ObjectKey(clientID, blobName)
	if err := s.storage.Delete(ctx, s.cfg.Bucket, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	log.Printf("documentService.Delete: removed %s", key)
	return nil
}

// validateObjectRef rejects client ids and blob names that would move the
// object key outside the client's prefix.
func validateObjectRef(clientID, blobName string) error {
	if !domain.ValidKeySegment(clientID) {
		return fmt.Errorf("%w: invalid client_id", domain.ErrInvalidInput)
	}
	if !domain.ValidKeySegment(blobName) {
		return fmt.Errorf("%w: blob_name must be a single file name", domain.ErrInvalidInput)
	}
	return nil
}

// blobNameFrom reduces an uploaded file name to a single safe path segment.
func blobNameFrom(fileName string) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	return name, nil
}
