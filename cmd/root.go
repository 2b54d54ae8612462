package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bikepoint/sprocket/core"
	"github.com/bikepoint/sprocket/internal/apiclient"
	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/history"
	"github.com/bikepoint/sprocket/internal/netmon"
	"github.com/bikepoint/sprocket/internal/outwriter"
	"github.com/bikepoint/sprocket/internal/respcache"
	"github.com/bikepoint/sprocket/internal/session"
	"github.com/bikepoint/sprocket/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file,
// env, flags). Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// Shared dependencies built by sharedSetup.
var (
	sessionStore contract.SessionStore
	storefront   *core.Storefront
	monitor      *netmon.Monitor
	writer       = outwriter.NewOutWriter()
)

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "sprocket",
	Short:              "Shop BikePoint repair services and used vehicles from the terminal.",
	Long:               `Sprocket is the BikePoint storefront client: browse repair services and marketplace listings, manage a shopping basket that survives login, and book appointments.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Local .env files carry developer overrides like SPROCKET_API_BASE_URL
	_ = godotenv.Load()

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".sprocket") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("SPROCKET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("env", "development")
	viper.SetDefault("profile", "default")
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("cache-ttl", "")
	viper.SetDefault("request-timeout", "")
	viper.SetDefault("max-retries", contract.DefaultMaxRetries)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
}

// sharedSetup unmarshals config, runs validation, and wires the storefront
// client stack.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Initialize durable stores with validated config.
	if err := respcache.InitStore(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize response cache: %w", err)
	}
	if err := history.InitStore(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}

	// 5. Wire the client stack: session store, API client, storefront.
	sessionStore = session.Open(contract.GetSessionFilePath(cfg.Profile), cfg.SessionBudget)
	client := apiclient.New(cfg, nil, sessionStore, respcache.Manager.GetResponseStore())
	bus := contract.NewBus()
	storefront = core.NewStorefront(cfg, client, sessionStore, bus, history.Manager.GetHistoryStore())
	monitor = netmon.New(cfg.HealthURL, nil, bus)

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".sprocket")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Cleanup closes the stores opened by sharedSetup.
func Cleanup() {
	if sessionStore != nil {
		_ = sessionStore.Close()
	}
	respcache.CloseStore()
	history.CloseStore()
}
