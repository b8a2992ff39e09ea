// Package storage persists the registry state in a prefixed key-value
// store. The following prefixes are used:
//   - 'g/' for group records, keyed by 8-byte big-endian registry id
//   - 'gc' for the next-registry-id counter
//   - 'j/' for join markers, keyed by registry id plus member address
//   - 's/' for signal receipts, keyed by registry id plus nullifier
//
// Records are encoded with deterministic cbor. All check-then-set sequences
// are serialized by a single storage mutex, so concurrent mutations observe
// the fully applied effects of prior ones.
package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"go.vocdoni.io/dvote/db"
)

var (
	// Prefixes for the keys in the database.
	groupPrefix  = []byte("g/")
	counterKey   = []byte("gc")
	joinPrefix   = []byte("j/")
	signalPrefix = []byte("s/")
)

// ErrNotFound is returned when the requested artifact is not in the store.
var ErrNotFound = fmt.Errorf("not found")

// Storage is the persistent registry state: group records, join markers and
// signal receipts.
type Storage struct {
	db db.Database
	mu sync.Mutex
}

// New creates a new Storage instance.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

// registryIDKey encodes a registry id as a fixed-width big-endian key, so
// iteration order matches creation order.
func registryIDKey(registryID uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, registryID)
	return key
}

func prefixedKey(prefix []byte, parts ...[]byte) []byte {
	key := append([]byte{}, prefix...)
	for _, part := range parts {
		key = append(key, part...)
	}
	return key
}
