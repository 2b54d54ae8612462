// Package contract provides interfaces and shared utilities for the Sprocket
// CLI's internal architecture.
package contract

import (
	"net/http"
	"time"

	"github.com/bikepoint/sprocket/schema"
)

// Doer abstracts the HTTP transport so the API client can be tested without
// a network. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionStore defines the local key-value session storage used for the cart
// id, the pending item, and the auth token. Implementations are fail-soft:
// no method panics or returns an error; failed reads yield zero values and
// failed writes report false.
type SessionStore interface {
	// Get returns the raw value for a namespaced key, or nil if absent or
	// unreadable.
	Get(key string) []byte

	// GetJSON unmarshals the value for key into out. A malformed stored
	// value is removed and false is returned.
	GetJSON(key string, out any) bool

	// Set writes a value, enforcing the per-item size ceiling and evicting
	// the oldest entries once when the total budget is exceeded.
	Set(key string, value []byte) bool

	// SetJSON marshals v and stores it under key.
	SetJSON(key string, v any) bool

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(key string)

	// Touch refreshes the eviction timestamp of a key.
	Touch(key string)

	// Clear removes all namespaced keys, leaving unrelated data untouched.
	Clear()

	// Status reports entry counts and sizes for diagnostics.
	Status() schema.SessionStatus

	Close() error
}

// CacheStore defines durable storage for cached API responses.
// Entries carry a schema version and a write timestamp so readers can
// reject stale or incompatible data.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(keySubstring string) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the local audit trail of completed checkouts and
// bookings.
type HistoryStore interface {
	RecordOrder(order schema.Order) error
	RecordBooking(booking schema.Booking) error
	ListOrders(limit int) ([]schema.OrderRecord, error)
	ListBookings(limit int) ([]schema.BookingRecord, error)
	GetStatus() (schema.HistoryStatus, error)
	Close() error
}

// Clock abstracts time.Now for cache TTL tests.
type Clock func() time.Time
