package port

import (
	"context"

	"taxextract/internal/domain"
)

// Notifier delivers extraction job outcomes to operators.
type Notifier interface {
	NotifyJobFinished(ctx context.Context, job *domain.ExtractionJob) error
}
