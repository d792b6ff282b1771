package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxextract/internal/domain"
	"taxextract/internal/port"
)

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobRepository.
func NewJobRepo(db *sqlx.DB) port.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.ExtractionJob) error {
	now := time.Now().UTC()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusQueued
	}
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO extraction_jobs (
		id, client_id, blob_name, form_type, access_id, status,
		attempts, last_error, doc_url, fields_written, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.ClientID, job.BlobName, job.FormType, job.AccessID, job.Status,
		job.Attempts, job.LastError, job.DocURL, job.FieldsWritten, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	var job domain.ExtractionJob
	err := r.db.GetContext(ctx, &job, "SELECT * FROM extraction_jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("jobRepo.GetByID: %w", err)
	}
	return &job, nil
}

// ClaimQueued atomically moves the oldest queued jobs to processing. Jobs left
// in processing for longer than staleAfter (a crashed or stuck worker) are
// claimed again; a non-positive staleAfter disables that. Concurrent workers
// never claim the same job.
func (r *jobRepo) ClaimQueued(ctx context.Context, limit int, staleAfter time.Duration) ([]domain.ExtractionJob, error) {
	query := `UPDATE extraction_jobs
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM extraction_jobs
			WHERE status = 'queued'
				OR ($2::float8 > 0 AND status = 'processing'
					AND updated_at < NOW() - make_interval(secs => $2::float8))
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	var jobs []domain.ExtractionJob
	if err := r.db.SelectContext(ctx, &jobs, query, limit, staleAfter.Seconds()); err != nil {
		return nil, fmt.Errorf("jobRepo.ClaimQueued: %w", err)
	}
	return jobs, nil
}

func (r *jobRepo) MarkCompleted(ctx context.Context, id uuid.UUID, docURL string, fieldsWritten int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE extraction_jobs
		SET status = 'completed', doc_url = $2, fields_written = $3, last_error = '',
			updated_at = NOW(), completed_at = NOW()
		WHERE id = $1`, id, docURL, fieldsWritten)
	if err != nil {
		return fmt.Errorf("jobRepo.MarkCompleted: %w", err)
	}
	return requireAffected(result, "jobRepo.MarkCompleted")
}

// MarkFailed requeues the job while its attempts are below maxAttempts and
// marks it failed otherwise. It returns the resulting status.
func (r *jobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, maxAttempts int) (domain.JobStatus, error) {
	var status domain.JobStatus
	err := r.db.GetContext(ctx, &status, `UPDATE extraction_jobs
		SET status = CASE WHEN attempts >= $3 THEN 'failed' ELSE 'queued' END,
			last_error = $2,
			updated_at = NOW(),
			completed_at = CASE WHEN attempts >= $3 THEN NOW() ELSE NULL END
		WHERE id = $1
		RETURNING status`, id, errMsg, maxAttempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrJobNotFound
		}
		return "", fmt.Errorf("jobRepo.MarkFailed: %w", err)
	}
	return status, nil
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}
