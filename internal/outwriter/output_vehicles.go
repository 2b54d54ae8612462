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

// WriteVehicleResults outputs marketplace listings, dispatching based on the
// output format configured.
func WriteVehicleResults(vehicles []schema.Vehicle, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, vehicles)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForVehicles(w, vehicles)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is only supported for history export")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeVehicleTable(vehicles, cfg, w)
		}, "Wrote table")
	}
}

func writeVehicleTable(vehicles []schema.Vehicle, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Brand", "Model", "Year", "Km", "Fuel", "Location", "Price"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, 60)
	var data [][]string
	for _, v := range vehicles {
		data = append(data, []string{
			strconv.Itoa(v.ID),
			v.Brand,
			contract.TruncateText(v.Model, nameWidth),
			strconv.Itoa(v.Year),
			strconv.Itoa(v.KmDriven),
			v.FuelType,
			v.Location,
			v.Price,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d listings\n", len(vehicles))
	return err
}

func writeCSVResultsForVehicles(w io.Writer, vehicles []schema.Vehicle) error {
	header := []string{"id", "brand", "model", "year", "km_driven", "fuel_type", "location", "seller", "price"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, v := range vehicles {
			rec := []string{
				strconv.Itoa(v.ID),
				v.Brand,
				v.Model,
				strconv.Itoa(v.Year),
				strconv.Itoa(v.KmDriven),
				v.FuelType,
				v.Location,
				v.Seller,
				v.Price,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
