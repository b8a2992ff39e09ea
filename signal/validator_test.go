package signal

import (
	"math/big"
	"testing"

	"github.com/Akhil-2310/arkanon/registry"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/Akhil-2310/arkanon/storage"
	"github.com/Akhil-2310/arkanon/storage/nullifier"
	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"
)

var alice = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func newTestValidator(t *testing.T) (*Validator, *registry.Registry, *semaphore.MockService) {
	database := metadb.NewTest(t)
	store := storage.New(database)
	proofs := semaphore.NewMockService()
	reg := registry.New(store, proofs, nil)
	return New(reg, store, nullifier.NewKVStore(database), proofs, nil), reg, proofs
}

func testProof(n int64, message, scope string) *semaphore.Proof {
	return &semaphore.Proof{
		Nullifier: (*types.BigInt)(big.NewInt(n)),
		Message:   []byte(message),
		Scope:     []byte(scope),
	}
}

func TestSubmit(t *testing.T) {
	c := qt.New(t)
	validator, reg, _ := newTestValidator(t)

	record, err := reg.CreateGroup("zk-Builders", "", "", "", alice)
	c.Assert(err, qt.IsNil)
	c.Assert(reg.Join(record.RegistryID, big.NewInt(100), alice), qt.IsNil)

	signal, err := validator.Submit(record.RegistryID, testProof(1, "gm", "daily-checkin"))
	c.Assert(err, qt.IsNil)
	c.Assert(signal.RegistryID, qt.Equals, record.RegistryID)
	c.Assert(signal.ExternalGroupID, qt.Equals, record.ExternalGroupID)

	// signal and scope hashes are the deterministic field mapping of the
	// raw bytes, so the receipt can be recomputed by anyone
	c.Assert(signal.SignalHash.MathBigInt().Cmp(semaphore.HashToField([]byte("gm"))), qt.Equals, 0)
	c.Assert(signal.ScopeHash.MathBigInt().Cmp(semaphore.HashToField([]byte("daily-checkin"))), qt.Equals, 0)

	// the same nullifier is rejected on resubmission, even with a
	// different message and scope
	_, err = validator.Submit(record.RegistryID, testProof(1, "gm again", "weekly"))
	c.Assert(err, qt.ErrorIs, ErrNullifierReused)

	// a fresh nullifier goes through
	_, err = validator.Submit(record.RegistryID, testProof(2, "gm", "daily-checkin"))
	c.Assert(err, qt.IsNil)

	signals, err := validator.Signals(record.RegistryID)
	c.Assert(err, qt.IsNil)
	c.Assert(signals, qt.HasLen, 2)
}

func TestSubmitUnknownGroup(t *testing.T) {
	c := qt.New(t)
	validator, _, _ := newTestValidator(t)

	_, err := validator.Submit(42, testProof(1, "gm", "daily-checkin"))
	c.Assert(err, qt.ErrorIs, registry.ErrGroupNotFound)

	signals, err := validator.Signals(42)
	c.Assert(err, qt.IsNil)
	c.Assert(signals, qt.HasLen, 0)
}

func TestSubmitInvalidProof(t *testing.T) {
	c := qt.New(t)
	validator, reg, proofs := newTestValidator(t)

	record, err := reg.CreateGroup("zk-Builders", "", "", "", alice)
	c.Assert(err, qt.IsNil)

	_, err = validator.Submit(record.RegistryID, nil)
	c.Assert(err, qt.ErrorIs, semaphore.ErrProofInvalid)

	proofs.VerifyErr = semaphore.ErrProofInvalid
	_, err = validator.Submit(record.RegistryID, testProof(1, "gm", "daily-checkin"))
	c.Assert(err, qt.ErrorIs, semaphore.ErrProofInvalid)

	// a rejected proof does not consume its nullifier
	proofs.VerifyErr = nil
	_, err = validator.Submit(record.RegistryID, testProof(1, "gm", "daily-checkin"))
	c.Assert(err, qt.IsNil)
}

func TestSubmitNullifierOutOfRange(t *testing.T) {
	c := qt.New(t)
	validator, reg, _ := newTestValidator(t)

	record, err := reg.CreateGroup("zk-Builders", "", "", "", alice)
	c.Assert(err, qt.IsNil)

	// a nullifier wider than the fixed key width is rejected up front,
	// before verification or any storage keying
	oversized := &semaphore.Proof{
		Nullifier: (*types.BigInt)(new(big.Int).Lsh(big.NewInt(1), 256)),
		Message:   []byte("gm"),
		Scope:     []byte("s"),
	}
	_, err = validator.Submit(record.RegistryID, oversized)
	c.Assert(err, qt.ErrorIs, semaphore.ErrProofInvalid)

	// negative values are rejected too, so they can never alias the key
	// of their absolute value
	negative := &semaphore.Proof{
		Nullifier: (*types.BigInt)(big.NewInt(-1)),
		Message:   []byte("gm"),
		Scope:     []byte("s"),
	}
	_, err = validator.Submit(record.RegistryID, negative)
	c.Assert(err, qt.ErrorIs, semaphore.ErrProofInvalid)

	// the positive counterpart is unaffected by the rejected negative
	_, err = validator.Submit(record.RegistryID, testProof(1, "gm", "s"))
	c.Assert(err, qt.IsNil)

	// the widest canonical value is accepted
	max := &semaphore.Proof{
		Nullifier: (*types.BigInt)(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))),
		Message:   []byte("gm"),
		Scope:     []byte("wide"),
	}
	_, err = validator.Submit(record.RegistryID, max)
	c.Assert(err, qt.IsNil)
}

func TestNullifierScopedPerRegistry(t *testing.T) {
	c := qt.New(t)
	validator, reg, _ := newTestValidator(t)

	first, err := reg.CreateGroup("first", "", "", "", alice)
	c.Assert(err, qt.IsNil)
	second, err := reg.CreateGroup("second", "", "", "", alice)
	c.Assert(err, qt.IsNil)

	// the same nullifier value is independent across registry ids
	_, err = validator.Submit(first.RegistryID, testProof(7, "gm", "s"))
	c.Assert(err, qt.IsNil)
	_, err = validator.Submit(second.RegistryID, testProof(7, "gm", "s"))
	c.Assert(err, qt.IsNil)

	_, err = validator.Submit(first.RegistryID, testProof(7, "gm", "s"))
	c.Assert(err, qt.ErrorIs, ErrNullifierReused)
}
