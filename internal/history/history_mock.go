package history

import (
	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordOrder implements the HistoryStore interface.
func (m *MockHistoryStore) RecordOrder(order schema.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

// RecordBooking implements the HistoryStore interface.
func (m *MockHistoryStore) RecordBooking(booking schema.Booking) error {
	args := m.Called(booking)
	return args.Error(0)
}

// ListOrders implements the HistoryStore interface.
func (m *MockHistoryStore) ListOrders(limit int) ([]schema.OrderRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.OrderRecord)
	return records, args.Error(1)
}

// ListBookings implements the HistoryStore interface.
func (m *MockHistoryStore) ListBookings(limit int) ([]schema.BookingRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.BookingRecord)
	return records, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
