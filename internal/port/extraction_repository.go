package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxextract/internal/domain"
)

// ExtractionRepository defines the contract for extracted field persistence.
type ExtractionRepository interface {
	// InsertFields writes all rows atomically and returns their IDs in order.
	InsertFields(ctx context.Context, rows []domain.Extraction) ([]uuid.UUID, error)
	ListByClient(ctx context.Context, clientID, docName string, offset, limit int) ([]domain.Extraction, int, error)
	ListForExport(ctx context.Context, clientID, docName string) ([]domain.Extraction, error)
	DeleteByDocument(ctx context.Context, clientID, docName string) (int64, error)
}

// JobRepository defines the contract for extraction job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.ExtractionJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error)
	// ClaimQueued moves up to limit queued jobs, plus jobs stuck in processing
	// for longer than staleAfter, to processing and returns them.
	ClaimQueued(ctx context.Context, limit int, staleAfter time.Duration) ([]domain.ExtractionJob, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, docURL string, fieldsWritten int) error
	// MarkFailed requeues the job while attempts < maxAttempts, else marks it failed.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, maxAttempts int) (domain.JobStatus, error)
}
