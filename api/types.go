package api

import (
	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/circom2gnark/parser"
)

// CreateGroupRequest is the body of a group creation request. All metadata
// fields are optional and stored verbatim.
type CreateGroupRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Category    string         `json:"category,omitempty"`
	Creator     common.Address `json:"creator"`
}

// JoinRequest is the body of a membership admission request.
type JoinRequest struct {
	Commitment *types.BigInt  `json:"commitment"`
	Member     common.Address `json:"member"`
}

// MembershipResponse is the response to a join status request.
type MembershipResponse struct {
	RegistryID uint64         `json:"registryId"`
	Address    common.Address `json:"address"`
	Joined     bool           `json:"joined"`
}

// SignalRequest is the body of a signal submission. It carries the raw
// message and scope bytes plus the zero-knowledge proof bundle produced by
// the member's client.
type SignalRequest struct {
	Message    types.HexBytes      `json:"message"`
	Scope      types.HexBytes      `json:"scope"`
	MerkleRoot *types.BigInt       `json:"merkleRoot"`
	Nullifier  *types.BigInt       `json:"nullifier"`
	Proof      *parser.CircomProof `json:"proof"`
}

// GroupList is the response to a group listing request.
type GroupList struct {
	Groups []*types.GroupRecord `json:"groups"`
}

// SignalList is the response to a signal listing request.
type SignalList struct {
	Signals []*types.Signal `json:"signals"`
}
