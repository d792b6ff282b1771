package service

import (
	"context"
	"log"
	"sync"
	"time"

	"taxextract/internal/port"
)

// ExtractionQueueConfig holds settings for the extraction queue worker.
type ExtractionQueueConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	Concurrency  int
	// JobTimeout bounds a single extraction, including analysis polling.
	JobTimeout time.Duration
	// StaleAfter is how long a job may stay in processing before it is
	// claimed again. Defaults to JobTimeout plus one minute.
	StaleAfter time.Duration
}

// ExtractionQueueWorker polls for queued jobs and dispatches them for extraction.
type ExtractionQueueWorker struct {
	jobRepo    port.JobRepository
	jobService JobService
	cfg        ExtractionQueueConfig
	wg         sync.WaitGroup
}

// NewExtractionQueueWorker creates a new ExtractionQueueWorker.
func NewExtractionQueueWorker(jobRepo port.JobRepository, jobService JobService, cfg ExtractionQueueConfig) *ExtractionQueueWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = cfg.JobTimeout + time.Minute
	}
	return &ExtractionQueueWorker{
		jobRepo:    jobRepo,
		jobService: jobService,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ExtractionQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractionQueueWorker: started (poll=%s, concurrency=%d, maxAttempts=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractionQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractionQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.jobRepo.ClaimQueued(ctx, available, w.cfg.StaleAfter)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("extractionQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// In-flight jobs finish even during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
					defer cancel()

					log.Printf("extractionQueueWorker: dispatching job %s (attempt %d)", job.ID, job.Attempts)
					w.jobService.Process(jobCtx, &job, w.cfg.MaxAttempts)
				}()
			}
		}
	}
}
