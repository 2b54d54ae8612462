package cmd

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bikepoint/sprocket/internal/contract"
)

// loginCmd authenticates against the storefront API.
var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to BikePoint and store the session token.",
	Long: `Authenticate with your BikePoint account and persist the session token
in the local session store. A service added to the cart before logging in
stays staged locally and is synced to the server on the next cart command.

Examples:
  # Log in; the password is prompted without echo
  sprocket login rider@example.com`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		email := strings.TrimSpace(args[0])

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			contract.LogFatal("Cannot read password", err)
		}

		if err := storefront.Login(rootCtx, email, string(password)); err != nil {
			contract.LogFatal("Login failed", err)
		}
		cmd.Printf("Logged in as %s\n", email)
	},
}

// logoutCmd drops the stored session token.
var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Discard the stored session token.",
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		storefront.Logout()
		cmd.Println("Logged out.")
	},
}
