// Package respcache provides the durable response cache for API reads.
// Cached GET bodies survive process restarts so repeated catalog lookups do
// not hit the network, with SQLite as the default backend and MySQL or
// PostgreSQL available for shared setups.
package respcache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
)

// responseTable is the name of the table for cached API responses.
const responseTable = "sprocket_response_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreManager manages the response cache store instance.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	responses    contract.CacheStore
}

// GetResponseStore returns the response CacheStore.
func (mgr *StoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.responses
}

// InitStore initializes the global response cache manager.
// backend can be empty to disable durable caching entirely.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewCacheStore(responseTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize response caching: %w", err)
			return
		}
		Manager.responses = store
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.responses != nil {
			_ = Manager.responses.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return dropSQLTable("mysql", connStr, responseTable)

	case schema.PostgreSQLBackend:
		return dropSQLTable("pgx", connStr, responseTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// dropSQLTable connects to the SQL database and drops the table if it exists.
func dropSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
