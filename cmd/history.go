package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/history"
	"github.com/bikepoint/sprocket/schema"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export and list commands)
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.ResultLimit = viper.GetInt("limit")
	if useColors, err := contract.ParseBoolString(viper.GetString("color")); err == nil {
		cfg.UseColors = useColors
	}

	// Initialize the history store with the loaded config
	if err := history.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize order history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on the local order history audit trail.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by storefront commands. This avoids wiring the
// whole client stack for local-only operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the local order and booking history",
	Long: `Manage the local audit trail of completed checkouts and bookings.

Every successful checkout and booking is recorded locally, storing:
- Order metadata (order ID, cart ID, item count, total, time placed)
- Booking metadata (service, scheduled time, status, price)

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  orders   - List past orders
  bookings - List past bookings
  status   - Show history store statistics
  export   - Export data to Parquet for analytics
  clear    - Remove all history data
  migrate  - Run database schema migrations

Examples:
  # Review past orders
  sprocket history orders

  # Export for analysis in pandas/DuckDB
  sprocket history export --output-file history-data.parquet`,
}

// historyOrdersCmd lists past orders.
var historyOrdersCmd = &cobra.Command{
	Use:     "orders",
	Short:   "List past orders recorded at checkout.",
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := history.Manager.GetHistoryStore().ListOrders(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list orders", err)
		}
		if err := writer.WriteOrders(records, cfg); err != nil {
			contract.LogFatal("Cannot write orders", err)
		}
	},
}

// historyBookingsCmd lists past bookings.
var historyBookingsCmd = &cobra.Command{
	Use:     "bookings",
	Short:   "List past service bookings.",
	Args:    cobra.NoArgs,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := history.Manager.GetHistoryStore().ListBookings(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list bookings", err)
		}
		if err := writer.WriteBookings(records, cfg); err != nil {
			contract.LogFatal("Cannot write bookings", err)
		}
	},
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the local order history store.

Displays:
- Backend type and connection status
- Total number of orders and bookings stored
- Last order timestamp

Examples:
  # Check history status
  sprocket history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded orders and bookings",
	Long: `Delete all stored orders and bookings from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops both history tables

Examples:
  # Export before clearing
  sprocket history export --output-file backup.parquet
  sprocket history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export order history to Parquet for BI tools and analytics",
	Long: `Export all stored orders and bookings to Parquet format.

Exports two datasets:
- Orders - one row per completed checkout
- Bookings - one row per service appointment

Parquet format enables fast querying with DuckDB, Apache Spark, and pandas,
and direct import into BI tools.

Requires: --output-file parameter

Examples:
  # Export all data
  sprocket history export --output-file history-data.parquet

  # Use with DuckDB for analysis
  sprocket history export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet/orders.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the order history store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  sprocket history migrate

  # Migrate to specific version
  sprocket history migrate --target-version 2

  # Rollback to previous version
  sprocket history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
