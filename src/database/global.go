package database

import "sync"

var (
	globalDB *DB
	globalMu sync.RWMutex
)

// SetGlobalDB sets the global database instance for handler access
func SetGlobalDB(db *DB) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalDB = db
}

// GetGlobalDB returns the global database instance
func GetGlobalDB() *DB {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalDB
}
