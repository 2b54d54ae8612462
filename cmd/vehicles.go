package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
)

// vehiclesCmd lists marketplace listings, or shows one listing in detail.
var vehiclesCmd = &cobra.Command{
	Use:   "vehicles [listing-id]",
	Short: "Browse used-vehicle marketplace listings.",
	Long: `Fetch used-vehicle listings from the marketplace. With no argument the
listings are shown as a table; with a listing ID the full record is shown,
including the resolved display image.

Examples:
  # Show the first page of listings
  sprocket vehicles

  # Show one listing in detail
  sprocket vehicles 17

  # Export listings as CSV
  sprocket vehicles --output csv --output-file listings.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				contract.LogFatal("Invalid listing ID", err)
			}
			vehicle, err := storefront.GetVehicle(rootCtx, id)
			if err != nil {
				contract.LogFatal("Cannot fetch listing", err)
			}
			printVehicleDetail(cmd, vehicle)
			return
		}

		vehicles, err := storefront.ListVehicles(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list vehicles", err)
		}
		if len(vehicles) > cfg.ResultLimit {
			vehicles = vehicles[:cfg.ResultLimit]
		}
		if err := writer.WriteVehicles(vehicles, cfg); err != nil {
			contract.LogFatal("Cannot write vehicles", err)
		}
	},
}

// printVehicleDetail shows a single listing with its resolved image URLs.
func printVehicleDetail(cmd *cobra.Command, v schema.Vehicle) {
	images := storefront.Images()
	cmd.Printf("Listing #%d: %d %s %s\n", v.ID, v.Year, v.Brand, v.Model)
	cmd.Printf("  Price:     %s\n", v.Price)
	cmd.Printf("  Driven:    %d km\n", v.KmDriven)
	cmd.Printf("  Fuel:      %s\n", v.FuelType)
	cmd.Printf("  Location:  %s\n", v.Location)
	cmd.Printf("  Seller:    %s\n", v.Seller)
	resolved := images.Vehicle(v)
	cmd.Printf("  Image:     %s\n", images.Display(resolved, 800, 600))
	cmd.Printf("  Thumbnail: %s\n", images.Display(resolved, 300, 200))
	cmd.Printf("  Preview:   %s\n", images.Placeholder(resolved))
}
