package analyzer

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimitError indicates the analysis service returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Resource   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Resource, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(resource string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Resource:   resource,
	}
}

// APIError is a non-success response from the analysis service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("analysis API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("analysis API error (status %d): %s", e.StatusCode, e.Message)
}

// OperationFailedError reports an analyze operation that finished with status "failed".
type OperationFailedError struct {
	Code    string
	Message string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("analyze operation failed (%s): %s", e.Code, e.Message)
}

// PollError is a failure reading the result of an analyze operation the
// service already accepted. Submitting the document again would start a
// second operation, so callers must not resubmit in place.
type PollError struct {
	Resource string
	Err      error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("%s analyze operation poll: %v", e.Resource, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// IsRetryable reports whether a failed analysis call may succeed if repeated.
func IsRetryable(err error) bool {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError || apiErr.StatusCode == http.StatusRequestTimeout
	}
	var opErr *OperationFailedError
	if errors.As(err, &opErr) {
		return opErr.Code == "InternalServerError" || opErr.Code == "Timeout"
	}
	if errors.Is(err, errTransport) {
		return true
	}
	return false
}

// errTransport marks network-level failures; see WrapTransport.
var errTransport = errors.New("transport error")

// WrapTransport marks err as a retryable network failure.
func WrapTransport(err error) error {
	return fmt.Errorf("%w: %w", errTransport, err)
}
