package semaphore

import (
	"math/big"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestNewVerifier(t *testing.T) {
	c := qt.New(t)
	groups := NewGroupDB(metadb.NewTest(t))

	_, err := NewVerifier(groups, []byte("not a verification key"))
	c.Assert(err, qt.Not(qt.IsNil))

	_, err = NewVerifierFromFile(groups, filepath.Join(t.TempDir(), "missing.json"))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestVerifierIncompleteProof(t *testing.T) {
	c := qt.New(t)
	v := &Verifier{groups: NewGroupDB(metadb.NewTest(t))}

	groupID, err := v.CreateGroup()
	c.Assert(err, qt.IsNil)
	c.Assert(v.AddMember(groupID, big.NewInt(100)), qt.IsNil)

	// proofs without the groth16 points never reach the pairing check
	c.Assert(v.VerifyProof(groupID, nil), qt.ErrorIs, ErrProofInvalid)
	c.Assert(v.VerifyProof(groupID, &Proof{}), qt.ErrorIs, ErrProofInvalid)
}
