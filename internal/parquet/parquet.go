// Package parquet provides data structures and functions for exporting the
// local order history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/bikepoint/sprocket/schema"
	"github.com/parquet-go/parquet-go"
)

// Order represents a completed checkout in the local audit trail.
// This struct maps to the sprocket_orders database table.
type Order struct {
	// OrderID is the server-assigned order identifier
	OrderID int64 `parquet:"order_id,snappy"`

	// CartID is the cart the order was checked out from
	CartID int64 `parquet:"cart_id,snappy"`

	// Total is the order total as a display string (currency prefix kept)
	Total string `parquet:"total,snappy"`

	// ItemCount is the number of line items in the order
	ItemCount int32 `parquet:"item_count,snappy"`

	// PlacedAt is when the checkout completed
	PlacedAt time.Time `parquet:"placed_at,snappy"`
}

// Booking represents a scheduled service booking in the local audit trail.
// This struct maps to the sprocket_bookings database table.
type Booking struct {
	// BookingID is the server-assigned booking identifier
	BookingID int64 `parquet:"booking_id,snappy"`

	// ServiceID references the booked repair service
	ServiceID int64 `parquet:"service_id,snappy"`

	// ServiceName is the display name of the booked service
	ServiceName string `parquet:"service_name,snappy"`

	// ScheduledAt is the appointment time
	ScheduledAt time.Time `parquet:"scheduled_at,snappy"`

	// Status is the booking status reported by the server
	Status string `parquet:"status,snappy"`

	// Price is the booked price as a display string
	Price string `parquet:"price,snappy"`
}

// WriteOrdersParquet writes a slice of Order structs to a Parquet file.
func WriteOrdersParquet(data []Order, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Order struct tags
	writer := parquet.NewGenericWriter[Order](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteBookingsParquet writes a slice of Booking structs to a Parquet file.
func WriteBookingsParquet(data []Booking, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Booking struct tags
	writer := parquet.NewGenericWriter[Booking](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertOrderRecords converts schema.OrderRecord to Order for Parquet export.
func ConvertOrderRecords(records []schema.OrderRecord) []Order {
	result := make([]Order, len(records))
	for i, record := range records {
		result[i] = Order{
			OrderID:   record.OrderID,
			CartID:    record.CartID,
			Total:     record.Total,
			ItemCount: record.ItemCount,
			PlacedAt:  record.PlacedAt,
		}
	}
	return result
}

// ConvertBookingRecords converts schema.BookingRecord to Booking for Parquet export.
func ConvertBookingRecords(records []schema.BookingRecord) []Booking {
	result := make([]Booking, len(records))
	for i, record := range records {
		result[i] = Booking{
			BookingID:   record.BookingID,
			ServiceID:   record.ServiceID,
			ServiceName: record.ServiceName,
			ScheduledAt: record.ScheduledAt,
			Status:      record.Status,
			Price:       record.Price,
		}
	}
	return result
}
