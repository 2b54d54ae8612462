package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bikepoint/sprocket/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000

	// DefaultCacheTTL is how long a cached GET response stays fresh.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultRequestTimeout bounds every API request end to end.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultCartTimeout is the tighter bound used by cart-flow fetches.
	DefaultCartTimeout = 5 * time.Second

	// DefaultMaxRetries is the number of retries after the initial attempt.
	DefaultMaxRetries = 3

	// DefaultItemSizeLimit is the per-item ceiling for session storage writes.
	DefaultItemSizeLimit = 1 << 20 // 1 MiB

	// DefaultSessionBudget caps the total size of the session store before
	// the oldest entries are evicted.
	DefaultSessionBudget = 5 << 20 // 5 MiB
)

// Default endpoints. The local base is for development against a storefront
// API running on the developer's machine; the production host takes over
// when the environment is set to "production".
const (
	DefaultAPIBaseURL    = "http://localhost:8000/api"
	ProductionAPIBaseURL = "https://api.bikepoint.in/api"
	DefaultMediaBaseURL  = "https://res.cloudinary.com/bikepoint/image/upload"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the validated runtime configuration.
type Config struct {
	APIBaseURL   string
	MediaBaseURL string
	HealthURL    string

	Profile     string // session profile name, one store file per profile
	ResultLimit int
	Output      schema.OutputMode
	OutputFile  string
	UseColors   bool
	Width       int // terminal width override (0 = auto-detect)

	CacheTTL       time.Duration
	RequestTimeout time.Duration
	CartTimeout    time.Duration
	MaxRetries     int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // please use env var as this is plaintext

	SessionBudget int64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct; ProcessAndValidate turns it into
// the final Config.
type ConfigRawInput struct {
	Env          string `mapstructure:"env"`
	APIBaseURL   string `mapstructure:"api-base-url"`
	MediaBaseURL string `mapstructure:"media-base-url"`
	HealthURL    string `mapstructure:"health-url"`

	Profile    string `mapstructure:"profile"`
	Limit      int    `mapstructure:"limit"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	CacheTTL       string `mapstructure:"cache-ttl"`
	RequestTimeout string `mapstructure:"request-timeout"`
	MaxRetries     int    `mapstructure:"max-retries"`

	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`

	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	SessionBudget int64 `mapstructure:"session-budget"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processEndpoints(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// processEndpoints resolves the API, media, and health URLs, applying the
// production-domain override when env is set to production.
func processEndpoints(cfg *Config, input *ConfigRawInput) error {
	cfg.APIBaseURL = input.APIBaseURL
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
		if strings.EqualFold(input.Env, "production") {
			cfg.APIBaseURL = ProductionAPIBaseURL
		}
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid api-base-url %q: %w", cfg.APIBaseURL, err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	cfg.MediaBaseURL = input.MediaBaseURL
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = DefaultMediaBaseURL
	}
	cfg.MediaBaseURL = strings.TrimRight(cfg.MediaBaseURL, "/")

	cfg.HealthURL = input.HealthURL
	if cfg.HealthURL == "" {
		cfg.HealthURL = cfg.APIBaseURL + "/health/"
	}
	if _, err := url.ParseRequestURI(cfg.HealthURL); err != nil {
		return fmt.Errorf("invalid health-url %q: %w", cfg.HealthURL, err)
	}
	return nil
}

// validateSimpleInputs processes and validates the non-duration fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	cfg.Profile = strings.TrimSpace(input.Profile)
	if cfg.Profile == "" {
		cfg.Profile = "default"
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.MaxRetries < 0 {
		return fmt.Errorf("max-retries cannot be negative (received %d)", input.MaxRetries)
	}
	cfg.MaxRetries = input.MaxRetries

	cfg.SessionBudget = input.SessionBudget
	if cfg.SessionBudget <= 0 {
		cfg.SessionBudget = DefaultSessionBudget
	}
	return nil
}

// processDurations parses the duration-valued settings.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		d, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl %q: %w", input.CacheTTL, err)
		}
		if d <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", d)
		}
		cfg.CacheTTL = d
	}

	cfg.RequestTimeout = DefaultRequestTimeout
	if input.RequestTimeout != "" {
		d, err := time.ParseDuration(input.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request-timeout %q: %w", input.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request-timeout must be positive (received %s)", d)
		}
		cfg.RequestTimeout = d
	}

	cfg.CartTimeout = DefaultCartTimeout
	if cfg.CartTimeout > cfg.RequestTimeout {
		cfg.CartTimeout = cfg.RequestTimeout
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the cache and history backend settings.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}

		// Cache and history must not share a SQLite file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			historyDBPath := cfg.HistoryDBConnect
			if historyDBPath == "" {
				historyDBPath = GetHistoryDBFilePath()
			}
			if cacheDBPath == historyDBPath {
				return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}
	return nil
}
