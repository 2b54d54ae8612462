package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for durable stores.
	DatabaseBackend string

	// CartState represents the lifecycle state of the basket flow.
	CartState string

	// EventTopic identifies a bus topic for cross-component notifications.
	EventTopic string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Basket flow states.
const (
	NoCart      CartState = "no_cart"
	CartLoading CartState = "cart_loading"
	CartLoaded  CartState = "cart_loaded"
	CartError   CartState = "cart_error"
)

// Bus topics published by the cart flow and the network monitor.
const (
	TopicCartUpdated   EventTopic = "cart_updated"
	TopicCartReset     EventTopic = "cart_reset"
	TopicNetworkChange EventTopic = "network_change"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
