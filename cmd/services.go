package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bikepoint/sprocket/internal/contract"
)

// servicesCmd lists the repair services available in the catalog.
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the repair services in the catalog.",
	Long: `Fetch the repair service catalog and display it in the selected output
format. Responses are cached, so repeated invocations inside the cache TTL
do not hit the network.

Examples:
  # Show services as a table
  sprocket services

  # Export the catalog as CSV
  sprocket services --output csv --output-file services.csv

  # Raw JSON for piping into jq
  sprocket services --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		services, err := storefront.ListServices(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list services", err)
		}
		if len(services) > cfg.ResultLimit {
			services = services[:cfg.ResultLimit]
		}
		if err := writer.WriteServices(services, cfg); err != nil {
			contract.LogFatal("Cannot write services", err)
		}
	},
}
