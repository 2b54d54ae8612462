package cmd

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bikepoint/sprocket/internal/contract"
)

// bookCmd books a service appointment.
var bookCmd = &cobra.Command{
	Use:   "book <service-id>",
	Short: "Book an appointment for a repair service.",
	Long: `Book an appointment for a repair service at a given time. Requires a
logged-in session. The booking is recorded in the local history store.

Examples:
  # Book service 42 for the morning of September 1st
  sprocket book 42 --at 2026-09-01T09:00:00Z

  # Review past bookings
  sprocket history bookings`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		serviceID, err := strconv.Atoi(args[0])
		if err != nil {
			contract.LogFatal("Invalid service ID", err)
		}

		at := viper.GetString("at")
		if at == "" {
			contract.LogFatal("Cannot book appointment", errors.New("missing --at; provide an RFC3339 time like 2026-09-01T09:00:00Z"))
		}
		scheduledAt, err := time.Parse(time.RFC3339, at)
		if err != nil {
			contract.LogFatal("Invalid --at time", err)
		}

		booking, err := storefront.CreateBooking(rootCtx, serviceID, scheduledAt)
		if err != nil {
			contract.LogFatal("Cannot book appointment", err)
		}
		cmd.Printf("Booking #%d confirmed: %s at %s (%s)\n",
			booking.ID, booking.ServiceName,
			booking.ScheduledAt.Format(contract.DateTimeFormat), booking.Status)
	},
}
