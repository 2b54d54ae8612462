package history

import (
	"errors"
	"fmt"

	"github.com/bikepoint/sprocket/internal/parquet"
)

// ExecuteHistoryExport exports the local order history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalOrders == 0 && status.TotalBookings == 0 {
		return errors.New("no order history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total orders: %d\n", status.TotalOrders)
	fmt.Printf("Total bookings: %d\n", status.TotalBookings)

	// Retrieve all orders and bookings
	orders, err := store.ListOrders(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve orders: %w", err)
	}
	bookings, err := store.ListBookings(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve bookings: %w", err)
	}

	// Convert to Parquet format
	parquetOrders := parquet.ConvertOrderRecords(orders)
	parquetBookings := parquet.ConvertBookingRecords(bookings)

	// Write orders to Parquet
	ordersFile := outputFile + ".orders.parquet"
	if err := parquet.WriteOrdersParquet(parquetOrders, ordersFile); err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}
	fmt.Printf("Exported %d orders to: %s\n", len(parquetOrders), ordersFile)

	// Write bookings to Parquet
	bookingsFile := outputFile + ".bookings.parquet"
	if err := parquet.WriteBookingsParquet(parquetBookings, bookingsFile); err != nil {
		return fmt.Errorf("failed to write bookings: %w", err)
	}
	fmt.Printf("Exported %d bookings to: %s\n", len(parquetBookings), bookingsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
