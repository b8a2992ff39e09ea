// Package nullifier tracks used nullifiers per registry id. A nullifier
// transitions from unseen to used exactly once; there is no way back, no
// expiry and no revocation. Uniqueness is scoped to a registry id, never
// global.
package nullifier

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/Akhil-2310/arkanon/types"
	"go.vocdoni.io/dvote/db"
)

var usedPrefix = []byte("n/")

// Store is the used-nullifier set consumed by the signal validator.
type Store interface {
	// Seen reports whether the nullifier was already used for the group.
	Seen(registryID uint64, nullifier *types.BigInt) (bool, error)
	// CheckAndSet atomically marks the nullifier as used for the group. It
	// returns false when the nullifier was already used, in which case no
	// state changes.
	CheckAndSet(registryID uint64, nullifier *types.BigInt) (bool, error)
}

func usedKey(registryID uint64, nullifier *types.BigInt) []byte {
	key := make([]byte, len(usedPrefix)+8+types.NullifierLen)
	copy(key, usedPrefix)
	binary.BigEndian.PutUint64(key[len(usedPrefix):], registryID)
	nullifier.MathBigInt().FillBytes(key[len(usedPrefix)+8:])
	return key
}

// KVStore is a Store over a local key-value database. A mutex serializes the
// check-then-set sequence.
type KVStore struct {
	db db.Database
	mu sync.Mutex
}

// NewKVStore creates a Store backed by the given database.
func NewKVStore(database db.Database) *KVStore {
	return &KVStore{db: database}
}

func (s *KVStore) Seen(registryID uint64, nullifier *types.BigInt) (bool, error) {
	_, err := s.db.Get(usedKey(registryID, nullifier))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *KVStore) CheckAndSet(registryID uint64, nullifier *types.BigInt) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen, err := s.Seen(registryID, nullifier)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(usedKey(registryID, nullifier), []byte{1}); err != nil {
		return false, err
	}
	if err := wTx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
