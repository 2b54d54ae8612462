package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sessionCmd groups local session store operations.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the local session store.",
	Long: `Manage the local session store that holds the auth token, the active
cart ID, and any item staged before login. One store exists per profile;
switch profiles with --profile.

Subcommands:
  status - Show session store statistics
  clear  - Remove all session data (logs you out and drops staged items)

Examples:
  # Inspect the session store
  sprocket session status

  # Start from a clean slate
  sprocket session clear`,
}

// sessionClearCmd wipes the session store.
var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all session data.",
	Long: `Remove all session data: the auth token, the stored cart ID, and any
staged item. This logs you out; the server-side cart itself is untouched.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		sessionStore.Clear()
		fmt.Println("Session cleared.")
	},
}

// sessionStatusCmd shows session store statistics.
var sessionStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show session store statistics.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status := sessionStore.Status()
		fmt.Printf("Session Path: %s\n", status.Path)
		fmt.Printf("Available: %t\n", status.Available)
		if !status.Available {
			return
		}
		fmt.Printf("Total Keys: %d\n", status.TotalKeys)
		fmt.Printf("Total Bytes: %d\n", status.TotalBytes)
		if status.TotalKeys > 0 {
			fmt.Printf("Oldest Entry: %s\n", status.OldestEntry.Format("2006-01-02 15:04:05"))
		}
	},
}
