package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikepoint/sprocket/schema"
)

func TestOrderStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(Order))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"order_id",
		"cart_id",
		"total",
		"item_count",
		"placed_at",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestBookingStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(Booking))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"booking_id",
		"service_id",
		"service_name",
		"scheduled_at",
		"status",
		"price",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteOrdersParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "orders.parquet")

	now := time.Now()
	data := []Order{
		{OrderID: 101, CartID: 7, Total: "₹1,250", ItemCount: 3, PlacedAt: now.Add(-time.Hour)},
		{OrderID: 102, CartID: 8, Total: "₹400", ItemCount: 1, PlacedAt: now},
	}

	err := WriteOrdersParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")
}

func TestWriteBookingsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "bookings.parquet")

	now := time.Now()
	data := []Booking{
		{BookingID: 501, ServiceID: 3, ServiceName: "Chain Replacement", ScheduledAt: now.Add(24 * time.Hour), Status: "confirmed", Price: "₹300"},
	}

	err := WriteBookingsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")
}

func TestWriteOrdersParquetEmptySlice(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty.parquet")

	err := WriteOrdersParquet([]Order{}, outputPath)
	require.NoError(t, err, "Writing an empty slice should not produce error")

	_, err = os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist even for empty data")
}

func TestConvertOrderRecords(t *testing.T) {
	now := time.Now()
	records := []schema.OrderRecord{
		{OrderID: 101, CartID: 7, Total: "₹1,250", ItemCount: 3, PlacedAt: now},
	}

	converted := ConvertOrderRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(101), converted[0].OrderID)
	assert.Equal(t, int64(7), converted[0].CartID)
	assert.Equal(t, "₹1,250", converted[0].Total)
	assert.Equal(t, int32(3), converted[0].ItemCount)
	assert.Equal(t, now, converted[0].PlacedAt)
}

func TestConvertBookingRecords(t *testing.T) {
	now := time.Now()
	records := []schema.BookingRecord{
		{BookingID: 501, ServiceID: 3, ServiceName: "Chain Replacement", ScheduledAt: now, Status: "confirmed", Price: "₹300"},
	}

	converted := ConvertBookingRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(501), converted[0].BookingID)
	assert.Equal(t, int64(3), converted[0].ServiceID)
	assert.Equal(t, "Chain Replacement", converted[0].ServiceName)
	assert.Equal(t, "confirmed", converted[0].Status)
	assert.Equal(t, "₹300", converted[0].Price)
}
