package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bikepoint/sprocket/internal/contract"
)

// statusCmd reports connectivity and local store health.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and local store health.",
	Long: `Probe the health endpoint and report the state of the local stores:
session, response cache, and order history.

Examples:
  # Full status report
  sprocket status

  # Probe a different endpoint
  sprocket status --health-url https://api.bikepoint.in/api/health/`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		network := monitor.Check(rootCtx, "")
		cmd.Printf("Network:  %s (%s, %dms)\n",
			contract.GetColorOnlineLabel(network.Online),
			network.Endpoint, network.ResponseTime.Milliseconds())

		if storefront.LoggedIn() {
			cmd.Println("Session:  logged in")
		} else {
			cmd.Println("Session:  not logged in")
		}

		sess := sessionStore.Status()
		cmd.Printf("Store:    %d keys, %d bytes at %s\n", sess.TotalKeys, sess.TotalBytes, sess.Path)
	},
}
