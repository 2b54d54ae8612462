package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/parquet"
	"github.com/bikepoint/sprocket/schema"
)

// WriteOrderRecords outputs the local order history, dispatching based on
// the output format configured. Parquet output requires an output file.
func WriteOrderRecords(records []schema.OrderRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForOrders(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		return parquet.WriteOrdersParquet(parquet.ConvertOrderRecords(records), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOrderTable(records, w)
		}, "Wrote table")
	}
}

// WriteBookingRecords outputs the local booking history, dispatching based
// on the output format configured.
func WriteBookingRecords(records []schema.BookingRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForBookings(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		return parquet.WriteBookingsParquet(parquet.ConvertBookingRecords(records), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBookingTable(records, w)
		}, "Wrote table")
	}
}

func writeOrderTable(records []schema.OrderRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Order", "Cart", "Items", "Total", "Placed"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			strconv.FormatInt(r.OrderID, 10),
			strconv.FormatInt(r.CartID, 10),
			strconv.Itoa(int(r.ItemCount)),
			r.Total,
			r.PlacedAt.Format(contract.DateTimeFormat),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d orders\n", len(records))
	return err
}

func writeBookingTable(records []schema.BookingRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Booking", "Service", "Scheduled", "Status", "Price"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			strconv.FormatInt(r.BookingID, 10),
			r.ServiceName,
			r.ScheduledAt.Format(contract.DateTimeFormat),
			r.Status,
			r.Price,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d bookings\n", len(records))
	return err
}

func writeCSVResultsForOrders(w io.Writer, records []schema.OrderRecord) error {
	header := []string{"order_id", "cart_id", "item_count", "total", "placed_at"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				strconv.FormatInt(r.OrderID, 10),
				strconv.FormatInt(r.CartID, 10),
				strconv.Itoa(int(r.ItemCount)),
				r.Total,
				r.PlacedAt.Format(contract.DateTimeFormat),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSVResultsForBookings(w io.Writer, records []schema.BookingRecord) error {
	header := []string{"booking_id", "service_id", "service_name", "scheduled_at", "status", "price"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				strconv.FormatInt(r.BookingID, 10),
				strconv.FormatInt(r.ServiceID, 10),
				r.ServiceName,
				r.ScheduledAt.Format(contract.DateTimeFormat),
				r.Status,
				r.Price,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
