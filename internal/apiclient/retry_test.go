package apiclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(context.Background(), 3, time.Millisecond, func() (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls, "Should not retry after success")
	})

	t.Run("always failing is called exactly four times", func(t *testing.T) {
		calls := 0
		boom := errors.New("connection refused")
		_, err := WithRetry(context.Background(), 3, time.Millisecond, func() (string, error) {
			calls++
			return "", boom
		})
		require.Error(t, err)
		assert.Equal(t, boom, err, "Last error should propagate")
		assert.Equal(t, 4, calls, "One initial attempt plus three retries")
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(context.Background(), 3, time.Millisecond, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("timeout")
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), 3, time.Millisecond, func() (string, error) {
			calls++
			return "", &APIError{StatusCode: http.StatusBadRequest, Message: "quantity must be positive"}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls, "Validation errors must not be retried")
	})

	t.Run("auth error stops immediately", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), 3, time.Millisecond, func() (string, error) {
			calls++
			return "", ErrUnauthorized
		})
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := WithRetry(ctx, 3, time.Hour, func() (string, error) {
			calls++
			return "", errors.New("timeout")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls, "Cancellation during backoff should prevent further attempts")
	})

	t.Run("zero retries means single attempt", func(t *testing.T) {
		calls := 0
		_, err := WithRetry(context.Background(), 0, time.Millisecond, func() (string, error) {
			calls++
			return "", errors.New("timeout")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"unauthorized", ErrUnauthorized, false},
		{"server error", &APIError{StatusCode: 500}, true},
		{"bad gateway", &APIError{StatusCode: 502}, true},
		{"throttled", &APIError{StatusCode: 429}, true},
		{"validation error", &APIError{StatusCode: 400}, false},
		{"not found", &APIError{StatusCode: 404}, false},
		{"transport error", errors.New("dial tcp: connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err), "IsRetryable(%v)", tt.err)
		})
	}
}
