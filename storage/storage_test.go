package storage

import (
	"math/big"
	"testing"
	"time"

	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestGroupRecords(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	next, err := stg.NextRegistryID()
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, uint64(0))

	_, err = stg.Group(0)
	c.Assert(err, qt.Equals, ErrNotFound)

	// registry ids are dense and assigned in call order
	for i := 0; i < 3; i++ {
		record := &types.GroupRecord{
			ExternalGroupID: uuid.New(),
			Creator:         common.HexToAddress("0x1111111111111111111111111111111111111111"),
			CreatedAt:       time.Now(),
			Name:            "zk-Builders",
			Category:        "engineering",
		}
		id, err := stg.PutGroup(record)
		c.Assert(err, qt.IsNil)
		c.Assert(id, qt.Equals, uint64(i))
		c.Assert(record.RegistryID, qt.Equals, uint64(i))
		c.Assert(record.Exists, qt.IsTrue)
	}

	next, err = stg.NextRegistryID()
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, uint64(3))

	record, err := stg.Group(1)
	c.Assert(err, qt.IsNil)
	c.Assert(record.RegistryID, qt.Equals, uint64(1))
	c.Assert(record.Name, qt.Equals, "zk-Builders")
	c.Assert(record.Exists, qt.IsTrue)

	records, err := stg.ListGroups()
	c.Assert(err, qt.IsNil)
	c.Assert(len(records), qt.Equals, 3)
	for i, r := range records {
		c.Assert(r.RegistryID, qt.Equals, uint64(i))
	}
}

func TestJoinMarkers(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	alice := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bob := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	joined, err := stg.IsMember(0, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(joined, qt.IsFalse)

	marker := &JoinMarker{
		Commitment: (*types.BigInt)(big.NewInt(12345)),
		JoinedAt:   time.Now(),
	}
	c.Assert(stg.SetMember(0, alice, marker), qt.IsNil)

	joined, err = stg.IsMember(0, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(joined, qt.IsTrue)

	// independent per address and per registry id
	joined, err = stg.IsMember(0, bob)
	c.Assert(err, qt.IsNil)
	c.Assert(joined, qt.IsFalse)
	joined, err = stg.IsMember(1, alice)
	c.Assert(err, qt.IsNil)
	c.Assert(joined, qt.IsFalse)
}

func TestSignalReceipts(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	external := uuid.New()
	for i := int64(1); i <= 3; i++ {
		signal := &types.Signal{
			RegistryID:      4,
			ExternalGroupID: external,
			SignalHash:      (*types.BigInt)(big.NewInt(i * 100)),
			ScopeHash:       (*types.BigInt)(big.NewInt(i * 200)),
			Nullifier:       (*types.BigInt)(big.NewInt(i)),
			Timestamp:       time.Now(),
		}
		c.Assert(stg.PushSignal(signal), qt.IsNil)
	}

	signals, err := stg.SignalsByGroup(4)
	c.Assert(err, qt.IsNil)
	c.Assert(len(signals), qt.Equals, 3)
	c.Assert(signals[0].Nullifier.String(), qt.Equals, "1")
	c.Assert(signals[0].ExternalGroupID, qt.Equals, external)

	signals, err = stg.SignalsByGroup(5)
	c.Assert(err, qt.IsNil)
	c.Assert(len(signals), qt.Equals, 0)

	c.Assert(stg.PushSignal(nil), qt.Not(qt.IsNil))
}
