package semaphore

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHashToField(t *testing.T) {
	c := qt.New(t)

	h1 := HashToField([]byte("hello"))
	h2 := HashToField([]byte("hello"))
	h3 := HashToField([]byte("world"))

	// pure function of the input bytes
	c.Assert(h1.Cmp(h2), qt.Equals, 0)
	c.Assert(h1.Cmp(h3), qt.Not(qt.Equals), 0)

	// always a canonical field element
	c.Assert(h1.Sign() >= 0, qt.IsTrue)
	c.Assert(h1.Cmp(scalarField) < 0, qt.IsTrue)
	c.Assert(HashToField(nil).Cmp(scalarField) < 0, qt.IsTrue)
}

func TestIdentityCommitment(t *testing.T) {
	c := qt.New(t)

	commitment, err := IdentityCommitment(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNil)
	c.Assert(checkCommitment(commitment), qt.IsNil)

	same, err := IdentityCommitment(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNil)
	c.Assert(commitment.Cmp(same), qt.Equals, 0)

	other, err := IdentityCommitment(big.NewInt(2), big.NewInt(1))
	c.Assert(err, qt.IsNil)
	c.Assert(commitment.Cmp(other), qt.Not(qt.Equals), 0)
}
