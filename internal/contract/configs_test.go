package contract

import (
	"testing"
	"time"

	"github.com/bikepoint/sprocket/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation, for tests to mutate.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        DefaultResultLimit,
		Output:       string(schema.TextOut),
		Color:        "yes",
		MaxRetries:   DefaultMaxRetries,
		CacheBackend: string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultMediaBaseURL, cfg.MediaBaseURL)
	assert.Equal(t, DefaultAPIBaseURL+"/health/", cfg.HealthURL)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultCartTimeout, cfg.CartTimeout)
	assert.Equal(t, int64(DefaultSessionBudget), cfg.SessionBudget)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateProductionOverride(t *testing.T) {
	input := validInput()
	input.Env = "production"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, ProductionAPIBaseURL, cfg.APIBaseURL)

	// An explicit base URL wins over the environment override.
	input.APIBaseURL = "https://staging.bikepoint.in/api/"
	cfg = &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "https://staging.bikepoint.in/api", cfg.APIBaseURL)
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }},
		{name: "excessive limit", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }},
		{name: "bad output mode", mutate: func(in *ConfigRawInput) { in.Output = "xml" }},
		{name: "bad color flag", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }},
		{name: "negative retries", mutate: func(in *ConfigRawInput) { in.MaxRetries = -1 }},
		{name: "bad api url", mutate: func(in *ConfigRawInput) { in.APIBaseURL = "not a url" }},
		{name: "bad cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "five minutes" }},
		{name: "negative cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "-1m" }},
		{name: "bad cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mongodb" }},
		{name: "mysql without conn str", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }},
		{name: "history same sqlite file", mutate: func(in *ConfigRawInput) {
			in.HistoryBackend = "sqlite"
			in.HistoryDBConnect = GetCacheDBFilePath()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessDurations(t *testing.T) {
	input := validInput()
	input.CacheTTL = "90s"
	input.RequestTimeout = "2s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	// The cart timeout never exceeds the overall request timeout.
	assert.Equal(t, 2*time.Second, cfg.CartTimeout)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/sprocket"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=sprocket"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost:3306"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "localhost"))
}
