package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/respcache"
	"github.com/bikepoint/sprocket/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the response cache with the loaded config
	if err := respcache.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize response cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on response cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by storefront commands. This avoids wiring the
// whole client stack for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the API response cache (improves performance)",
	Long: `Manage the durable cache of API responses that speeds up repeated reads.

Catalog and listing responses are cached so repeated commands inside the
cache TTL never hit the network, and stale data can still be served while
the network is down.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached responses

Examples:
  # Check cache status
  sprocket cache status

  # Clear the cache after a catalog change
  sprocket cache clear`,
}

// cacheClearCmd clears the response cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached API responses",
	Long: `Delete all cached API responses from the configured backend.

Use this when:
- The catalog changed server-side and you need fresh data now
- Cache may be stale or corrupted
- Testing behavior without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  sprocket cache clear

  # Clear MySQL cache (set connection string via env variable)
  SPROCKET_CACHE_BACKEND=mysql SPROCKET_CACHE_DB_CONNECT="..." sprocket cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := respcache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the API response cache.

Displays:
- Backend type and connection status
- Total number of cached responses
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  sprocket cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := respcache.Manager.GetResponseStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		respcache.PrintCacheStatus(status)
	},
}
