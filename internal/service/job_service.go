package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxextract/internal/domain"
	"taxextract/internal/metrics"
	"taxextract/internal/port"
)

// EnqueueInput is the DTO for queueing an extraction.
type EnqueueInput struct {
	ClientID string
	BlobName string
	FormType domain.FormType
	AccessID string
}

// JobService manages queued extractions.
type JobService interface {
	Enqueue(ctx context.Context, input EnqueueInput) (*domain.ExtractionJob, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error)
	// Process runs a claimed job to completion or failure and records the outcome.
	Process(ctx context.Context, job *domain.ExtractionJob, maxAttempts int)
}

type jobService struct {
	jobs        port.JobRepository
	extractions ExtractionService
	notifier    port.Notifier
	metrics     *metrics.Metrics
}

// recordTimeout bounds writing a job outcome. Outcomes are recorded on a
// context detached from the job deadline so an expired job is still requeued.
const recordTimeout = 10 * time.Second

// NewJobService creates a new JobService implementation.
func NewJobService(
	jobs port.JobRepository,
	extractions ExtractionService,
	notifier port.Notifier,
	m *metrics.Metrics,
) JobService {
	return &jobService{
		jobs:        jobs,
		extractions: extractions,
		notifier:    notifier,
		metrics:     m,
	}
}

func (s *jobService) Enqueue(ctx context.Context, input EnqueueInput) (*domain.ExtractionJob, error) {
	job := &domain.ExtractionJob{
		ClientID: strings.TrimSpace(input.ClientID),
		BlobName: strings.TrimSpace(input.BlobName),
		FormType: domain.FormType(strings.TrimSpace(string(input.FormType))),
		AccessID: input.AccessID,
		Status:   domain.JobStatusQueued,
	}
	if job.ClientID == "" || job.BlobName == "" || job.FormType == "" {
		return nil, fmt.Errorf("%w: client_id, blob_name and form_type are required", domain.ErrInvalidInput)
	}
	if err := validateObjectRef(job.ClientID, job.BlobName); err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating extraction job: %w", err)
	}
	log.Printf("jobService.Enqueue: queued job %s for %s (%s)",
		job.ID, domain.ObjectKey(job.ClientID, job.BlobName), job.FormType)
	return job, nil
}

func (s *jobService) Get(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *jobService) Process(ctx context.Context, job *domain.ExtractionJob, maxAttempts int) {
	s.metrics.StartJob()

	result, err := s.extractions.Extract(ctx, ExtractInput{
		ClientID: job.ClientID,
		BlobName: job.BlobName,
		FormType: job.FormType,
		AccessID: job.AccessID,
	})
	if err != nil {
		s.fail(ctx, job, err, maxAttempts)
		return
	}

	recordCtx, cancel := recordContext(ctx)
	defer cancel()
	if err := s.jobs.MarkCompleted(recordCtx, job.ID, result.DocURL, result.RowsWritten); err != nil {
		log.Printf("jobService.Process: failed to mark job %s completed: %v", job.ID, err)
		s.metrics.FinishJob("error")
		return
	}
	job.Status = domain.JobStatusCompleted
	job.DocURL = result.DocURL
	job.FieldsWritten = result.RowsWritten
	job.LastError = ""
	log.Printf("jobService.Process: job %s completed with %d fields", job.ID, result.RowsWritten)

	s.metrics.FinishJob(string(job.Status))
	s.notify(recordCtx, job)
}

// fail requeues the job unless the error is permanent or attempts are exhausted.
func (s *jobService) fail(ctx context.Context, job *domain.ExtractionJob, cause error, maxAttempts int) {
	limit := maxAttempts
	if IsPermanent(cause) {
		limit = job.Attempts
	}

	recordCtx, cancel := recordContext(ctx)
	defer cancel()
	status, err := s.jobs.MarkFailed(recordCtx, job.ID, cause.Error(), limit)
	if err != nil {
		log.Printf("jobService.Process: failed to record failure of job %s: %v", job.ID, err)
		s.metrics.FinishJob("error")
		return
	}
	job.Status = status
	job.LastError = cause.Error()
	log.Printf("jobService.Process: job %s attempt %d failed (now %s): %v", job.ID, job.Attempts, status, cause)

	s.metrics.FinishJob(string(status))
	if status == domain.JobStatusFailed {
		s.notify(recordCtx, job)
	}
}

func recordContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
}

func (s *jobService) notify(ctx context.Context, job *domain.ExtractionJob) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyJobFinished(ctx, job); err != nil {
		log.Printf("jobService.Process: notification for job %s failed: %v", job.ID, err)
	}
}
