package semaphore

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Akhil-2310/arkanon/types"
	"github.com/google/uuid"
	"github.com/vocdoni/arbo"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

const (
	groupDBprefix          = "sg_"
	groupDBreferencePrefix = "sr_"
)

var defaultHashFunction = arbo.HashFunctionPoseidon

// GroupRef is a reference to a group accumulator. It holds the merkle tree
// of identity commitments plus the persisted tree parameters.
type GroupRef struct {
	ID        uuid.UUID
	MaxLevels int
	CreatedAt time.Time

	tree     *arbo.Tree
	treeLock sync.Mutex
}

// Tree returns the merkle tree of the group.
func (ref *GroupRef) Tree() *arbo.Tree {
	return ref.tree
}

// Root returns the current merkle root of the group accumulator.
func (ref *GroupRef) Root() ([]byte, error) {
	ref.treeLock.Lock()
	defer ref.treeLock.Unlock()
	return ref.tree.Root()
}

// Size returns the number of commitments admitted into the group.
func (ref *GroupRef) Size() int {
	ref.treeLock.Lock()
	defer ref.treeLock.Unlock()
	n, err := ref.tree.GetNLeafs()
	if err != nil {
		return 0
	}
	return n
}

// GroupDB is a persistent database of group accumulators, keyed by opaque
// uuid handles. It keeps an in-memory index of the loaded groups.
type GroupDB struct {
	mu     sync.RWMutex
	db     db.Database
	loaded map[uuid.UUID]*GroupRef
}

// NewGroupDB creates a new GroupDB backed by the given key-value database.
func NewGroupDB(database db.Database) *GroupDB {
	return &GroupDB{
		db:     database,
		loaded: make(map[uuid.UUID]*GroupRef),
	}
}

func groupPrefix(groupID uuid.UUID) []byte {
	return append([]byte(groupDBprefix), groupID[:]...)
}

func referenceKey(groupID uuid.UUID) []byte {
	return append([]byte(groupDBreferencePrefix), groupID[:]...)
}

// CreateGroup originates a new empty group accumulator and returns its
// handle. Group creation always has capacity; the only failure modes are
// storage errors.
func (g *GroupDB) CreateGroup() (uuid.UUID, error) {
	groupID := uuid.New()

	g.mu.Lock()
	defer g.mu.Unlock()

	ref := &GroupRef{
		ID:        groupID,
		MaxLevels: types.GroupTreeMaxLevels,
		CreatedAt: time.Now(),
	}
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(g.db, groupPrefix(groupID)),
		MaxLevels:    types.GroupTreeMaxLevels,
		HashFunction: defaultHashFunction,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ref.tree = tree

	if err := g.writeReference(ref); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	g.loaded[groupID] = ref
	return groupID, nil
}

// writeReference persists a group reference.
func (g *GroupDB) writeReference(ref *GroupRef) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ref); err != nil {
		return err
	}
	wtx := g.db.WriteTx()
	defer wtx.Discard()
	if err := wtx.Set(referenceKey(ref.ID), buf.Bytes()); err != nil {
		return err
	}
	return wtx.Commit()
}

// Exists returns true if the group handle is known.
func (g *GroupDB) Exists(groupID uuid.UUID) bool {
	g.mu.RLock()
	_, ok := g.loaded[groupID]
	g.mu.RUnlock()
	if ok {
		return true
	}
	_, err := g.db.Get(referenceKey(groupID))
	return err == nil
}

// Load returns the group reference, restoring it from the persistent
// database if it is not already in memory.
func (g *GroupDB) Load(groupID uuid.UUID) (*GroupRef, error) {
	g.mu.RLock()
	if ref, ok := g.loaded[groupID]; ok {
		g.mu.RUnlock()
		return ref, nil
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if ref, ok := g.loaded[groupID]; ok {
		return ref, nil
	}

	data, err := g.db.Get(referenceKey(groupID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ref := &GroupRef{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(ref); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(g.db, groupPrefix(groupID)),
		MaxLevels:    ref.MaxLevels,
		HashFunction: defaultHashFunction,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	ref.tree = tree
	g.loaded[groupID] = ref
	return ref, nil
}

// AddMember admits an identity commitment into the group accumulator. The
// commitment must be a canonical field element and not already present.
func (g *GroupDB) AddMember(groupID uuid.UUID, commitment *big.Int) error {
	if err := checkCommitment(commitment); err != nil {
		return err
	}
	ref, err := g.Load(groupID)
	if err != nil {
		return err
	}

	ref.treeLock.Lock()
	defer ref.treeLock.Unlock()
	key := g.leafKey(commitment)
	if key == nil {
		return fmt.Errorf("%w: cannot derive leaf key", ErrInvalidCommitment)
	}
	value := arbo.BigIntToBytes(arbo.HashFunctionPoseidon.Len(), commitment)
	if err := ref.tree.Add(key, value); err != nil {
		if errors.Is(err, arbo.ErrKeyAlreadyExists) {
			return fmt.Errorf("%w: %s", ErrMemberExists, commitment)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Root returns the current merkle root of a group as a field element.
func (g *GroupDB) Root(groupID uuid.UUID) (*big.Int, error) {
	ref, err := g.Load(groupID)
	if err != nil {
		return nil, err
	}
	root, err := ref.Root()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return arbo.BytesToBigInt(root), nil
}

// leafKey derives the fixed-width tree key for a commitment, hashing and
// truncating when the raw value does not fit the tree key length.
func (g *GroupDB) leafKey(commitment *big.Int) []byte {
	raw := commitment.Bytes()
	if len(raw) <= types.GroupKeyMaxLen {
		return raw
	}
	hash, err := defaultHashFunction.Hash(raw)
	if err != nil {
		return nil
	}
	if len(hash) < types.GroupKeyMaxLen {
		panic("hash function output is too short for the tree key length")
	}
	return hash[:types.GroupKeyMaxLen]
}
