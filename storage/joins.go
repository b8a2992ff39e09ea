package storage

import (
	"errors"
	"time"

	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/db"
)

// JoinMarker records that an address joined a group through the registry.
// The commitment is kept for informational purposes only; membership checks
// never inspect it.
type JoinMarker struct {
	Commitment *types.BigInt `json:"commitment" cbor:"0,keyasint"`
	JoinedAt   time.Time     `json:"joinedAt"   cbor:"1,keyasint"`
}

func joinKey(registryID uint64, address common.Address) []byte {
	return prefixedKey(joinPrefix, registryIDKey(registryID), address.Bytes())
}

// IsMember reports whether the address has joined the group.
func (s *Storage) IsMember(registryID uint64, address common.Address) (bool, error) {
	_, err := s.db.Get(joinKey(registryID, address))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetMember marks the address as joined. The caller is responsible for
// checking IsMember first; the marker, once set, is permanent.
func (s *Storage) SetMember(registryID uint64, address common.Address, marker *JoinMarker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeArtifact(marker)
	if err != nil {
		return err
	}
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(joinKey(registryID, address), data); err != nil {
		return err
	}
	return wTx.Commit()
}
