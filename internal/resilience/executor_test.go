package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taxextract/internal/resilience"
)

func fastConfig(breaker bool) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      breaker,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	}
}

func TestExecute_RetriesTemporaryFailure(t *testing.T) {
	exec := resilience.NewExecutor(fastConfig(false))

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemp
		}
		return nil
	}, func(err error) resilience.ErrorClassification {
		return resilience.ErrorClassification{Retryable: errors.Is(err, errTemp), RecordFailure: true}
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecute_DoesNotRetryPermanentFailure(t *testing.T) {
	exec := resilience.NewExecutor(fastConfig(false))

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	}, nil)

	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts)
}

func TestExecute_ReturnsLastErrorWhenAttemptsExhausted(t *testing.T) {
	exec := resilience.NewExecutor(fastConfig(false))

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errTemp
	}, func(error) resilience.ErrorClassification {
		return resilience.ErrorClassification{Retryable: true, Wait: time.Hour}
	})

	assert.ErrorIs(t, err, errTemp)
	assert.Equal(t, 3, attempts)
}

func TestExecute_StopsOnCanceledContext(t *testing.T) {
	exec := resilience.NewExecutor(fastConfig(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := exec.Execute(ctx, "op", func(context.Context) error {
		called = true
		return nil
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestExecute_OpensCircuitAfterFailures(t *testing.T) {
	exec := resilience.NewExecutor(fastConfig(true))
	errDown := errors.New("down")
	failing := func(context.Context) error { return errDown }

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "analyze", failing, nil)
		assert.ErrorIs(t, err, errDown)
	}

	err := exec.Execute(context.Background(), "analyze", failing, nil)
	assert.True(t, resilience.IsCircuitOpen(err))

	// Breakers are tracked per operation.
	err = exec.Execute(context.Background(), "other", func(context.Context) error { return nil }, nil)
	assert.NoError(t, err)
}

func TestExecute_UnrecordedFailuresKeepCircuitClosed(t *testing.T) {
	exec := resilience.NewExecutor(fastConfig(true))
	errClient := errors.New("bad request")
	classifier := func(error) resilience.ErrorClassification {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	for i := 0; i < 5; i++ {
		err := exec.Execute(context.Background(), "analyze", func(context.Context) error { return errClient }, classifier)
		assert.ErrorIs(t, err, errClient)
		assert.False(t, resilience.IsCircuitOpen(err))
	}
}

func TestExecute_NilCallback(t *testing.T) {
	exec := resilience.NewExecutor(resilience.DefaultConfig())
	assert.Error(t, exec.Execute(context.Background(), "op", nil, nil))
}

func TestConfig_Budget(t *testing.T) {
	cfg := resilience.Config{RetryMaxAttempts: 3, RetryMaxBackoff: 10 * time.Second}

	assert.Equal(t, 3*time.Minute+20*time.Second, cfg.Budget(time.Minute))
}

func TestConfig_Budget_Defaults(t *testing.T) {
	def := resilience.DefaultConfig()

	assert.Equal(t, def.Budget(time.Minute), resilience.Config{}.Budget(time.Minute))
}
