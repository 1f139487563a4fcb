// Package retry runs operations with exponential backoff for errors that are
// marked transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// Sentinel errors for retry logic.
var (
	// ErrRetryable marks an error worth another attempt, such as a node or
	// proof server that has not finished starting.
	ErrRetryable = &syncerr.SyncError{
		Code:     "RETRYABLE_ERROR",
		Message:  "retryable error",
		ExitCode: syncerr.ExitGeneral,
	}

	ErrTimeout = &syncerr.SyncError{
		Code:     "TIMEOUT",
		Message:  "operation timed out",
		ExitCode: syncerr.ExitGeneral,
	}

	ErrUnavailable = &syncerr.SyncError{
		Code:     "UNAVAILABLE",
		Message:  "endpoint unavailable",
		ExitCode: syncerr.ExitGeneral,
	}
)

// Config configures retry behavior.
type Config struct {
	MaxAttempts int           // Maximum number of attempts (including initial)
	BaseDelay   time.Duration // Initial delay between retries
	MaxDelay    time.Duration // Maximum delay between retries

	// Clock times the delays; nil uses the system clock.
	Clock clock.Clock
	// OnRetry, if set, is called before each delay.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultConfig returns the default retry configuration.
// 4 attempts total (1 initial + 3 retries) with delays: 1s, 2s, 4s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
	}
}

// Do executes the operation with the specified retry configuration.
// Context cancellation stops the loop and returns the context error.
func Do[T any](ctx context.Context, cfg Config, operation func(context.Context) (T, error)) (T, error) {
	var result T
	var err error

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = operation(ctx)
		if err == nil {
			return result, nil
		}

		if !IsRetryable(err) {
			return result, err
		}

		// Don't delay after the last attempt
		if attempt < attempts-1 {
			delay := calculateDelay(attempt, cfg.BaseDelay, cfg.MaxDelay)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt+1, delay, err)
			}

			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-clk.TickAfter(delay):
			}
		}
	}

	return result, fmt.Errorf("operation failed after %d attempts: %w", attempts, err)
}

// calculateDelay calculates the delay for the given attempt using exponential backoff with jitter.
func calculateDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if baseDelay <= 0 {
		return 0
	}
	delay := baseDelay << min(attempt, 30) // 2^attempt * baseDelay
	if maxDelay > 0 && (delay > maxDelay || delay <= 0) {
		delay = maxDelay
	}
	// Jitter in [delay/2, delay).
	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + rand.N(half) //nolint:gosec // G404: Jitter does not require cryptographic randomness
}

// IsRetryable reports whether err should trigger a retry. Context errors
// never do.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errors.Is(err, ErrRetryable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnavailable)
}

// WrapRetryable wraps an error to mark it as retryable.
func WrapRetryable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}
