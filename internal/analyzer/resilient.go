package analyzer

import (
	"context"
	"errors"

	"taxextract/internal/port"
	"taxextract/internal/resilience"
)

// Resilient wraps a DocumentAnalyzer with retries and a circuit breaker per model.
type Resilient struct {
	next     port.DocumentAnalyzer
	exec     *resilience.Executor
	resource string
}

// NewResilient decorates next. resource names the breaker group (e.g. "prebuilt").
func NewResilient(next port.DocumentAnalyzer, exec *resilience.Executor, resource string) *Resilient {
	return &Resilient{next: next, exec: exec, resource: resource}
}

func (r *Resilient) Analyze(ctx context.Context, input port.AnalyzeInput) (*port.AnalyzeResult, error) {
	var result *port.AnalyzeResult
	err := r.exec.Execute(ctx, r.resource+":"+input.ModelID, func(ctx context.Context) error {
		out, err := r.next.Analyze(ctx, input)
		if err != nil {
			return err
		}
		result = out
		return nil
	}, classify)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// classify retries throttling and server-side failures that happen before the
// service accepts the document. Only server-side failures count against the
// breaker.
func classify(err error) resilience.ErrorClassification {
	var pollErr *PollError
	if errors.As(err, &pollErr) {
		inner := classify(pollErr.Err)
		return resilience.ErrorClassification{Retryable: false, RecordFailure: inner.RecordFailure}
	}
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: false, Wait: rlErr.RetryAfter}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	retryable := IsRetryable(err)
	return resilience.ErrorClassification{Retryable: retryable, RecordFailure: retryable}
}
