// Package semaphore adapts a Semaphore-style zero-knowledge membership proof
// system: per-group merkle accumulators of identity commitments, and
// verification of anonymous membership proofs carrying a nullifier. The rest
// of the system consumes it through the Service interface and treats the
// proof scheme as opaque.
package semaphore

import (
	"fmt"
	"math/big"

	"github.com/Akhil-2310/arkanon/types"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/google/uuid"
	"github.com/vocdoni/circom2gnark/parser"
)

var (
	// ErrGroupNotFound is returned when the group handle is unknown to the
	// proof service.
	ErrGroupNotFound = fmt.Errorf("group not found in the proof service")
	// ErrInvalidCommitment is returned when an identity commitment is not a
	// valid field element.
	ErrInvalidCommitment = fmt.Errorf("invalid identity commitment")
	// ErrMemberExists is returned when the commitment is already part of the
	// group accumulator.
	ErrMemberExists = fmt.Errorf("identity commitment already in group")
	// ErrProofInvalid is returned when a proof is malformed, targets the
	// wrong group or fails cryptographic verification.
	ErrProofInvalid = fmt.Errorf("proof verification failed")
	// ErrUnavailable is returned when the proof service call itself could
	// not be completed.
	ErrUnavailable = fmt.Errorf("proof service unavailable")
)

// scalarField is the order of the field the proof system operates over.
var scalarField = ecc.BN254.ScalarField()

// Proof is an anonymous membership proof bundle as submitted by a client. It
// carries the claimed nullifier, the raw message and scope bytes, and the
// scheme-specific groth16 points produced by the client-side prover. The
// merkle root is the accumulator state the proof was generated against.
type Proof struct {
	Nullifier  *types.BigInt       `json:"nullifier"`
	Message    types.HexBytes      `json:"message"`
	Scope      types.HexBytes      `json:"scope"`
	MerkleRoot *types.BigInt       `json:"merkleRoot,omitempty"`
	Points     *parser.CircomProof `json:"points,omitempty"`
}

// Service is the membership proof system interface consumed by the registry
// and the signal validator.
type Service interface {
	// CreateGroup originates a new empty group accumulator and returns its
	// opaque handle.
	CreateGroup() (uuid.UUID, error)
	// AddMember admits an identity commitment into the group accumulator.
	AddMember(groupID uuid.UUID, commitment *big.Int) error
	// VerifyProof checks an anonymous membership proof against the current
	// state of the group accumulator. A nil return means the proof attests
	// valid membership and correct nullifier derivation.
	VerifyProof(groupID uuid.UUID, proof *Proof) error
}

// checkCommitment validates that a commitment is a canonical element of the
// proof system scalar field.
func checkCommitment(commitment *big.Int) error {
	if commitment == nil || commitment.Sign() < 0 || commitment.Cmp(scalarField) >= 0 {
		return ErrInvalidCommitment
	}
	return nil
}
