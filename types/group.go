package types

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// GroupRecord describes a registered group. RegistryID is the local dense
// sequential identifier, while ExternalGroupID is the opaque handle assigned
// by the membership proof service when the group accumulator was originated.
// Exists distinguishes a stored record from the zero value returned on reads
// of unknown registry ids.
type GroupRecord struct {
	RegistryID      uint64         `json:"registryId"      cbor:"0,keyasint"`
	ExternalGroupID uuid.UUID      `json:"externalGroupId" cbor:"1,keyasint"`
	Creator         common.Address `json:"creator"         cbor:"2,keyasint"`
	CreatedAt       time.Time      `json:"createdAt"       cbor:"3,keyasint"`
	Exists          bool           `json:"exists"          cbor:"4,keyasint"`

	// Descriptive metadata, stored verbatim. Informational only.
	Name        string `json:"name"        cbor:"5,keyasint,omitempty"`
	Description string `json:"description" cbor:"6,keyasint,omitempty"`
	ImageURL    string `json:"imageUrl"    cbor:"7,keyasint,omitempty"`
	Category    string `json:"category"    cbor:"8,keyasint,omitempty"`
}

func (g *GroupRecord) String() string {
	data, err := json.Marshal(g)
	if err != nil {
		return ""
	}
	return string(data)
}

// Signal is the receipt of one anonymous signal emission. It is produced
// exactly once per accepted submission and is never mutated afterwards.
type Signal struct {
	RegistryID      uint64    `json:"registryId"      cbor:"0,keyasint"`
	ExternalGroupID uuid.UUID `json:"externalGroupId" cbor:"1,keyasint"`
	SignalHash      *BigInt   `json:"signalHash"      cbor:"2,keyasint"`
	ScopeHash       *BigInt   `json:"scopeHash"       cbor:"3,keyasint"`
	Nullifier       *BigInt   `json:"nullifier"       cbor:"4,keyasint"`
	Timestamp       time.Time `json:"timestamp"       cbor:"5,keyasint"`
}

func (s *Signal) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}
