package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxextract/internal/analyzer"
	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/export"
	"taxextract/internal/formmap"
	"taxextract/internal/metrics"
	"taxextract/internal/normalize"
	"taxextract/internal/port"
	"taxextract/internal/resilience"
)

// ExtractInput is the DTO for a single document extraction.
type ExtractInput struct {
	ClientID string
	BlobName string
	FormType domain.FormType
	AccessID string
	// DryRun analyzes and flattens the document without persisting rows.
	DryRun bool
}

// ExtractionResult describes a finished extraction.
type ExtractionResult struct {
	ClientID       string            `json:"client_id"`
	DocName        string            `json:"doc_name"`
	DocURL         string            `json:"doc_url"`
	FormType       domain.FormType   `json:"form_type"`
	ModelID        string            `json:"model_id"`
	Documents      []domain.FieldSet `json:"documents"`
	RowsWritten    int               `json:"rows_written"`
	LastInsertedID *uuid.UUID        `json:"last_inserted_id,omitempty"`
}

// AnalyzerSelector returns the analyzer serving an analyzer kind.
type AnalyzerSelector interface {
	For(kind domain.AnalyzerKind) (port.DocumentAnalyzer, error)
}

// ExtractionService defines the field extraction contract.
type ExtractionService interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractionResult, error)
	List(ctx context.Context, clientID, docName string, offset, limit int) ([]domain.Extraction, int, error)
	Export(ctx context.Context, clientID, docName string, format export.Format, w io.Writer) error
	DeleteDocument(ctx context.Context, clientID, docName string) (int64, error)
}

type extractionService struct {
	repo      port.ExtractionRepository
	storage   port.ObjectStorage
	models    *formmap.Mapping
	analyzers AnalyzerSelector
	cfg       *config.StorageConfig
	metrics   *metrics.Metrics
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	repo port.ExtractionRepository,
	storage port.ObjectStorage,
	models *formmap.Mapping,
	analyzers AnalyzerSelector,
	cfg *config.StorageConfig,
	m *metrics.Metrics,
) ExtractionService {
	return &extractionService{
		repo:      repo,
		storage:   storage,
		models:    models,
		analyzers: analyzers,
		cfg:       cfg,
		metrics:   m,
	}
}

func (s *extractionService) Extract(ctx context.Context, input ExtractInput) (result *ExtractionResult, err error) {
	input.ClientID = strings.TrimSpace(input.ClientID)
	input.BlobName = strings.TrimSpace(input.BlobName)
	input.FormType = domain.FormType(strings.TrimSpace(string(input.FormType)))
	if input.ClientID == "" || input.BlobName == "" || input.FormType == "" {
		return nil, fmt.Errorf("%w: client_id, blob_name and form_type are required", domain.ErrInvalidInput)
	}
	if err := validateObjectRef(input.ClientID, input.BlobName); err != nil {
		return nil, err
	}

	route := s.models.Resolve(input.FormType)
	started := time.Now()
	defer func() {
		fields := 0
		if result != nil {
			fields = result.RowsWritten
		}
		s.metrics.ObserveExtraction(string(input.FormType), route.ModelID, time.Since(started), fields, err)
	}()

	key := domain.ObjectKey(input.ClientID, input.BlobName)
	sourceURL, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning %s: %w", key, err)
	}
	docURL := s.storage.ObjectURL(s.cfg.Bucket, key)

	client, err := s.analyzers.For(route.Kind)
	if err != nil {
		return nil, err
	}

	log.Printf("extractionService.Extract: analyzing %s as %s with model %s (%s)",
		key, input.FormType, route.ModelID, route.Kind)

	analyzed, err := client.Analyze(ctx, port.AnalyzeInput{ModelID: route.ModelID, URLSource: sourceURL})
	if err != nil {
		log.Printf("extractionService.Extract: analysis of %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}

	sets := normalize.Flatten(analyzed)
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDocuments, key)
	}

	result = &ExtractionResult{
		ClientID:  input.ClientID,
		DocName:   input.BlobName,
		DocURL:    docURL,
		FormType:  input.FormType,
		ModelID:   route.ModelID,
		Documents: sets,
	}

	rows := BuildRows(input, docURL, sets)
	if input.DryRun || len(rows) == 0 {
		log.Printf("extractionService.Extract: %s produced %d fields across %d documents (not persisted)",
			key, len(rows), len(sets))
		return result, nil
	}

	ids, err := s.repo.InsertFields(ctx, rows)
	if err != nil {
		log.Printf("extractionService.Extract: persisting %d fields for %s failed: %v", len(rows), key, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}
	result.RowsWritten = len(ids)
	if len(ids) > 0 {
		last := ids[len(ids)-1]
		result.LastInsertedID = &last
	}

	log.Printf("extractionService.Extract: wrote %d fields for %s across %d documents",
		result.RowsWritten, key, len(sets))
	return result, nil
}

// BuildRows converts flattened field sets into persisted rows, one per field,
// ordered by document then field name.
func BuildRows(input ExtractInput, docURL string, sets []domain.FieldSet) []domain.Extraction {
	var rows []domain.Extraction
	for i := range sets {
		set := &sets[i]
		for _, name := range set.Names() {
			field := set.Fields[name]
			rows = append(rows, domain.Extraction{
				ClientID:      input.ClientID,
				DocURL:        docURL,
				DocName:       input.BlobName,
				DocStatus:     domain.DocStatusExtracted,
				DocType:       input.FormType,
				DocumentIndex: set.Index,
				FieldName:     name,
				FieldValue:    field.Value,
				Confidence:    field.Confidence,
				AccessID:      input.AccessID,
			})
		}
	}
	return rows
}

func (s *extractionService) List(ctx context.Context, clientID, docName string, offset, limit int) ([]domain.Extraction, int, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, 0, fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput)
	}
	return s.repo.ListByClient(ctx, clientID, docName, offset, limit)
}

func (s *extractionService) Export(ctx context.Context, clientID, docName string, format export.Format, w io.Writer) error {
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput)
	}
	rows, err := s.repo.ListForExport(ctx, clientID, docName)
	if err != nil {
		return err
	}
	if docName != "" && len(rows) == 0 {
		return domain.ErrNotFound
	}
	if err := export.Write(w, format, rows); err != nil {
		return fmt.Errorf("extractionService.Export: %w", err)
	}
	return nil
}

func (s *extractionService) DeleteDocument(ctx context.Context, clientID, docName string) (int64, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(docName) == "" {
		return 0, fmt.Errorf("%w: client_id and doc_name are required", domain.ErrInvalidInput)
	}
	n, err := s.repo.DeleteByDocument(ctx, clientID, docName)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	log.Printf("extractionService.DeleteDocument: removed %d rows for %s", n, domain.ObjectKey(clientID, docName))
	return n, nil
}

// IsPermanent reports whether an extraction error will recur on retry.
func IsPermanent(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrAnalyzerUnavailable,
		domain.ErrNoDocuments,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	if errors.Is(err, domain.ErrAnalysisFailed) {
		if errors.Is(err, context.DeadlineExceeded) || resilience.IsCircuitOpen(err) {
			return false
		}
		return !analyzer.IsRetryable(err)
	}
	return false
}
