package resilience

import (
	"time"

	"taxextract/internal/config"
)

// Config controls retries and circuit breaking around an operation.
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// DefaultConfig returns the settings used when a field is left unset.
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 500 * time.Millisecond,
		RetryMaxBackoff:     10 * time.Second,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 1,
	}
}

// FromConfig builds a Config from application settings.
func FromConfig(cfg *config.ResilienceConfig) Config {
	return Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		RetryInitialBackoff: cfg.RetryInitialBackoff,
		RetryMaxBackoff:     cfg.RetryMaxBackoff,
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerMinRequests:  cfg.BreakerMinRequests,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.BreakerOpenTimeout,
	}
}

// Budget is the longest Execute can run when every attempt takes perAttempt
// and every retry waits the maximum backoff.
func (c Config) Budget(perAttempt time.Duration) time.Duration {
	n := c.normalize()
	attempts := time.Duration(n.RetryMaxAttempts)
	return attempts*perAttempt + (attempts-1)*n.RetryMaxBackoff
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = def.RetryInitialBackoff
	}
	if out.RetryMaxBackoff <= 0 {
		out.RetryMaxBackoff = def.RetryMaxBackoff
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = def.RetryMultiplier
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}
	return out
}
