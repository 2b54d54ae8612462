package apiclient

import (
	"context"
	"time"
)

// Retry policy defaults: three retries after the initial attempt, starting
// at one second and doubling each time.
const (
	defaultRetryBaseDelay = time.Second
)

// WithRetry calls fn until it succeeds, the error is non-retryable, the
// retry budget is exhausted, or ctx is cancelled. maxRetries counts retries
// after the initial attempt, so maxRetries of 3 means at most 4 calls.
// The last error is returned when the budget runs out.
func WithRetry[T any](ctx context.Context, maxRetries int, baseDelay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay << uint(attempt-1)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}
