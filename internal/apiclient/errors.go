package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned when the server rejects the session token.
// The stored token is cleared before this error is returned; callers decide
// whether to prompt for a fresh login.
var ErrUnauthorized = errors.New("authentication required: session expired or not logged in")

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Retryable reports whether a retry could plausibly succeed. Server-side
// failures and throttling qualify; validation errors never do.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsRetryable classifies an error for the retry helper. Transport failures
// are retryable, HTTP errors delegate to APIError.Retryable, and auth
// failures are terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	// Anything else is a transport-level failure (timeout, refused, DNS).
	return true
}

// extractMessage pulls a human-readable message out of an error response
// body. The storefront API uses either {"detail": "..."} or {"error": "..."}.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
		Err    string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Err
}
