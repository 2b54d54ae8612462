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

// WriteCartResults outputs the basket contents, dispatching based on the
// output format configured. Staged items (id 0) are labelled so the user can
// tell which lines have not reached the server yet.
func WriteCartResults(items []schema.CartItem, total string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForCart(w, items, total)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCart(w, items)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is only supported for history export")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCartTable(items, total, cfg, w)
		}, "Wrote table")
	}
}

func writeCartTable(items []schema.CartItem, total string, cfg *contract.Config, writer io.Writer) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(writer, "Cart is empty")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Service", "Qty", "Unit Price", "Line Total", "State"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	label := contract.GetItemLabel
	if cfg.UseColors {
		label = contract.GetColorItemLabel
	}

	nameWidth := getMaxTableNameWidth(cfg, 50)
	var data [][]string
	for _, it := range items {
		lineTotal := schema.ParsePrice(it.UnitPrice) * float64(it.Quantity)
		data = append(data, []string{
			strconv.Itoa(it.ID),
			contract.TruncateText(it.ServiceName, nameWidth),
			strconv.Itoa(it.Quantity),
			it.UnitPrice,
			schema.FormatPrice(lineTotal),
			label(it.Staged()),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "%d items, total %s\n", len(items), total)
	return err
}

func writeCSVResultsForCart(w io.Writer, items []schema.CartItem) error {
	header := []string{"id", "service_id", "service_name", "quantity", "unit_price", "state"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, it := range items {
			rec := []string{
				strconv.Itoa(it.ID),
				strconv.Itoa(it.ServiceID),
				it.ServiceName,
				strconv.Itoa(it.Quantity),
				it.UnitPrice,
				contract.GetItemLabel(it.Staged()),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForCart writes the basket with the sync state and total
// folded in.
func writeJSONResultsForCart(w io.Writer, items []schema.CartItem, total string) error {
	type JSONCartItem struct {
		State string `json:"state"`
		schema.CartItem
	}

	output := struct {
		Items []JSONCartItem `json:"items"`
		Total string         `json:"total"`
	}{
		Items: make([]JSONCartItem, len(items)),
		Total: total,
	}
	for i, it := range items {
		output.Items[i] = JSONCartItem{
			State:    contract.GetItemLabel(it.Staged()),
			CartItem: it,
		}
	}
	return writeJSON(w, output)
}
