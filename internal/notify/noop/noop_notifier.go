package noop

import (
	"context"
	"log"

	"taxextract/internal/domain"
	"taxextract/internal/notify"
	"taxextract/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a Notifier that logs job outcomes to stdout.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyJobFinished(_ context.Context, job *domain.ExtractionJob) error {
	msg := notify.JobFinished(job)
	log.Printf("[NOOP NOTIFY] %s", msg.Subject)
	return nil
}
