package semaphore

import (
	"fmt"
	"math/big"
	"os"

	"github.com/google/uuid"
	"github.com/vocdoni/circom2gnark/parser"
)

// Verifier implements Service on top of a local GroupDB and groth16
// verification of circom proofs. The verification key is the snarkjs JSON
// key of the membership circuit; the circuit itself is produced and proven
// client-side, this component only verifies.
type Verifier struct {
	groups *GroupDB
	vkey   *parser.CircomVerificationKey
}

// NewVerifier creates a Verifier from a snarkjs JSON verification key.
func NewVerifier(groups *GroupDB, vkeyJSON []byte) (*Verifier, error) {
	vkey, err := parser.UnmarshalCircomVerificationKeyJSON(vkeyJSON)
	if err != nil {
		return nil, fmt.Errorf("cannot parse verification key: %w", err)
	}
	return &Verifier{groups: groups, vkey: vkey}, nil
}

// NewVerifierFromFile creates a Verifier loading the verification key from
// the given path.
func NewVerifierFromFile(groups *GroupDB, vkeyPath string) (*Verifier, error) {
	data, err := os.ReadFile(vkeyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read verification key: %w", err)
	}
	return NewVerifier(groups, data)
}

// CreateGroup originates a new group accumulator.
func (v *Verifier) CreateGroup() (uuid.UUID, error) {
	return v.groups.CreateGroup()
}

// AddMember admits a commitment into the group accumulator.
func (v *Verifier) AddMember(groupID uuid.UUID, commitment *big.Int) error {
	return v.groups.AddMember(groupID, commitment)
}

// VerifyProof checks the proof against the current accumulator root of the
// group. The circuit public signals are, in order: merkle root, nullifier,
// message hash and scope hash; the message and scope hashes are re-derived
// here from the raw bytes so the verifier never trusts client-side hashing.
func (v *Verifier) VerifyProof(groupID uuid.UUID, proof *Proof) error {
	if proof == nil || proof.Nullifier == nil || proof.Points == nil {
		return fmt.Errorf("%w: incomplete proof bundle", ErrProofInvalid)
	}
	root, err := v.groups.Root(groupID)
	if err != nil {
		return err
	}
	// A proof generated against an older accumulator state is rejected
	// before paying the pairing cost.
	if proof.MerkleRoot != nil && proof.MerkleRoot.MathBigInt().Cmp(root) != 0 {
		return fmt.Errorf("%w: stale merkle root", ErrProofInvalid)
	}
	publicSignals := []string{
		root.String(),
		proof.Nullifier.String(),
		HashToField(proof.Message).String(),
		HashToField(proof.Scope).String(),
	}
	gnarkProof, err := parser.ConvertCircomToGnark(proof.Points, v.vkey, publicSignals)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}
	valid, err := parser.VerifyProof(gnarkProof)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}
	if !valid {
		return ErrProofInvalid
	}
	return nil
}
