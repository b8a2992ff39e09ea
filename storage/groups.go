package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Akhil-2310/arkanon/types"
	"go.vocdoni.io/dvote/db"
)

// NextRegistryID returns the number of groups created so far, which is also
// the registry id the next created group will take.
func (s *Storage) NextRegistryID() (uint64, error) {
	data, err := s.db.Get(counterKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupted registry counter")
	}
	return binary.BigEndian.Uint64(data), nil
}

// PutGroup allocates the next registry id, assigns it to the record and
// persists record and counter atomically. Registry ids are dense, start at
// zero and are never reused.
func (s *Storage) PutGroup(record *types.GroupRecord) (uint64, error) {
	if record == nil {
		return 0, fmt.Errorf("nil group record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.NextRegistryID()
	if err != nil {
		return 0, err
	}
	record.RegistryID = next
	record.Exists = true
	data, err := encodeArtifact(record)
	if err != nil {
		return 0, err
	}
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(prefixedKey(groupPrefix, registryIDKey(next)), data); err != nil {
		return 0, err
	}
	if err := wTx.Set(counterKey, registryIDKey(next+1)); err != nil {
		return 0, err
	}
	if err := wTx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}

// Group retrieves a group record from the storage. It returns ErrNotFound if
// the registry id was never assigned.
func (s *Storage) Group(registryID uint64) (*types.GroupRecord, error) {
	data, err := s.db.Get(prefixedKey(groupPrefix, registryIDKey(registryID)))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	record := &types.GroupRecord{}
	if err := decodeArtifact(data, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListGroups returns all group records in creation order.
func (s *Storage) ListGroups() ([]*types.GroupRecord, error) {
	records := []*types.GroupRecord{}
	var iterErr error
	err := s.db.Iterate(groupPrefix, func(_, value []byte) bool {
		record := &types.GroupRecord{}
		if iterErr = decodeArtifact(value, record); iterErr != nil {
			return false
		}
		records = append(records, record)
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return records, nil
}
