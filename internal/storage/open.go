// Package storage wires the configured keyValueDb backend.
package storage

import (
	"fmt"

	"github.com/LeJamon/goStellard/internal/storage/keyValueDb"
	"github.com/LeJamon/goStellard/internal/storage/keyValueDb/leveldb"
	"github.com/LeJamon/goStellard/internal/storage/keyValueDb/pebble"
)

// Backend names accepted in config (database.type).
const (
	BackendMemory  = "memory"
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
)

// OpenKV opens the key/value backend named by backend, rooted at path.
// The memory backend ignores path.
func OpenKV(backend, path string) (keyValueDb.DB, error) {
	switch backend {
	case BackendMemory:
		return keyValueDb.NewMemoryDB(), nil
	case BackendPebble:
		return pebble.Open(path)
	case BackendLevelDB:
		return leveldb.Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", keyValueDb.ErrUnknownBackend, backend)
	}
}
