// Package cmd defines the command-line interface for sprocket.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(vehiclesCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cart subcommands to the parent cart command
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartCheckoutCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the session subcommands to the parent session command
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyOrdersCmd)
	historyCmd.AddCommand(historyBookingsCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("env", "development", "Environment: development or production (selects the API host)")
	rootCmd.PersistentFlags().String("api-base-url", "", "Override the storefront API base URL")
	rootCmd.PersistentFlags().String("media-base-url", "", "Override the media CDN base URL")
	rootCmd.PersistentFlags().String("health-url", "", "Override the health endpoint probed by status checks")
	rootCmd.PersistentFlags().String("profile", "default", "Session profile name (one session store per profile)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "How long cached API responses stay fresh (e.g. 5m)")
	rootCmd.PersistentFlags().String("request-timeout", "", "End-to-end bound for every API request (e.g. 15s)")
	rootCmd.PersistentFlags().Int("max-retries", contract.DefaultMaxRetries, "Retries after the initial attempt for idempotent reads")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Response cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Order history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for history storage (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().Int64("session-budget", contract.DefaultSessionBudget, "Total byte budget for the session store before eviction")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cartAddCmd to Viper
	cartAddCmd.Flags().IntP("quantity", "q", 1, "Quantity to add")
	if err := viper.BindPFlags(cartAddCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cart add flags", err)
	}

	// Bind all flags of cartClearCmd to Viper
	cartClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	if err := viper.BindPFlags(cartClearCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cart clear flags", err)
	}

	// Bind all flags of bookCmd to Viper
	bookCmd.Flags().String("at", "", "Appointment time in RFC3339 (e.g. 2026-09-01T09:00:00Z)")
	if err := viper.BindPFlags(bookCmd.Flags()); err != nil {
		contract.LogFatal("Error binding book flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
