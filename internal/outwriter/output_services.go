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
	"github.com/bikepoint/sprocket/schema"
)

// WriteServiceResults outputs the service catalog, dispatching based on the
// output format configured.
func WriteServiceResults(services []schema.Service, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, services)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForServices(w, services)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is only supported for history export")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeServiceTable(services, cfg, w)
		}, "Wrote table")
	}
}

func writeServiceTable(services []schema.Service, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Name", "Category", "Duration", "Price"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, 45)
	var data [][]string
	for _, svc := range services {
		data = append(data, []string{
			strconv.Itoa(svc.ID),
			contract.TruncateText(svc.Name, nameWidth),
			svc.Category,
			fmt.Sprintf("%d min", svc.DurationMin),
			svc.Price,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d services\n", len(services))
	return err
}

func writeCSVResultsForServices(w io.Writer, services []schema.Service) error {
	header := []string{"id", "name", "category", "duration_min", "price", "description"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, svc := range services {
			rec := []string{
				strconv.Itoa(svc.ID),
				svc.Name,
				svc.Category,
				strconv.Itoa(svc.DurationMin),
				svc.Price,
				svc.Description,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
