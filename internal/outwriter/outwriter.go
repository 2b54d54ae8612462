// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for
// the command layer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteServices prints the repair service catalog using the configured
// output format.
func (ow *OutWriter) WriteServices(services []schema.Service, cfg *contract.Config) error {
	return WriteServiceResults(services, cfg)
}

// WriteVehicles prints marketplace listings using the configured output
// format.
func (ow *OutWriter) WriteVehicles(vehicles []schema.Vehicle, cfg *contract.Config) error {
	return WriteVehicleResults(vehicles, cfg)
}

// WriteCart prints the basket contents using the configured output format.
func (ow *OutWriter) WriteCart(items []schema.CartItem, total string, cfg *contract.Config) error {
	return WriteCartResults(items, total, cfg)
}

// WriteOrders prints the local order history using the configured output
// format.
func (ow *OutWriter) WriteOrders(records []schema.OrderRecord, cfg *contract.Config) error {
	return WriteOrderRecords(records, cfg)
}

// WriteBookings prints the local booking history using the configured
// output format.
func (ow *OutWriter) WriteBookings(records []schema.BookingRecord, cfg *contract.Config) error {
	return WriteBookingRecords(records, cfg)
}
