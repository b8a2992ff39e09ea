// Package registry implements the group registry: group creation, member
// admission and read access to group records and join status. Registry ids
// are dense sequential integers assigned at creation; the mapping to the
// proof service group handle is immutable once stored.
package registry

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Akhil-2310/arkanon/log"
	"github.com/Akhil-2310/arkanon/notify"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/Akhil-2310/arkanon/storage"
	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrGroupNotFound is returned when the registry id was never assigned.
	ErrGroupNotFound = fmt.Errorf("group not found")
	// ErrAlreadyJoined is returned when the address already joined the
	// group. A joined address cannot update or rotate its commitment.
	ErrAlreadyJoined = fmt.Errorf("address already joined this group")
)

// Registry is the group registry. It owns the group records and the join
// markers; the proof service owns the membership accumulators.
type Registry struct {
	store    *storage.Storage
	proofs   semaphore.Service
	notifier notify.Notifier

	// mu serializes the check-then-act sequence of Join, so a single
	// address can never register two commitments into the same group.
	mu sync.Mutex
}

// New creates a Registry. A nil notifier falls back to the log sink.
func New(store *storage.Storage, proofs semaphore.Service, notifier notify.Notifier) *Registry {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Registry{store: store, proofs: proofs, notifier: notifier}
}

// CreateGroup originates a new group in the proof service and registers it
// under the next sequential registry id. Metadata is stored verbatim, with
// no validation and no uniqueness constraint on the name. Group creation is
// not permissioned.
func (r *Registry) CreateGroup(name, description, imageURL, category string, creator common.Address) (*types.GroupRecord, error) {
	externalID, err := r.proofs.CreateGroup()
	if err != nil {
		// no registry id is consumed when the proof service fails
		return nil, fmt.Errorf("cannot originate group: %w", err)
	}
	record := &types.GroupRecord{
		ExternalGroupID: externalID,
		Creator:         creator,
		CreatedAt:       time.Now(),
		Name:            name,
		Description:     description,
		ImageURL:        imageURL,
		Category:        category,
	}
	registryID, err := r.store.PutGroup(record)
	if err != nil {
		return nil, fmt.Errorf("cannot store group record: %w", err)
	}
	log.Infow("group created",
		"registryId", registryID,
		"externalGroupId", externalID.String(),
		"creator", creator.Hex(),
	)
	r.notifier.GroupCreated(&notify.GroupCreatedEvent{
		RegistryID:      record.RegistryID,
		ExternalGroupID: record.ExternalGroupID,
		Creator:         record.Creator,
		Name:            record.Name,
		Description:     record.Description,
		ImageURL:        record.ImageURL,
		Category:        record.Category,
		CreatedAt:       record.CreatedAt,
	})
	return record, nil
}

// Join admits an identity commitment into a group on behalf of caller. Each
// address can join a given group at most once; proof service failures
// propagate unchanged and leave no join marker behind.
func (r *Registry) Join(registryID uint64, commitment *big.Int, caller common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.store.Group(registryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: registry id %d", ErrGroupNotFound, registryID)
		}
		return err
	}
	joined, err := r.store.IsMember(registryID, caller)
	if err != nil {
		return err
	}
	if joined {
		return fmt.Errorf("%w: %s", ErrAlreadyJoined, caller.Hex())
	}
	if err := r.proofs.AddMember(record.ExternalGroupID, commitment); err != nil {
		return err
	}
	marker := &storage.JoinMarker{
		Commitment: (*types.BigInt)(commitment),
		JoinedAt:   time.Now(),
	}
	if err := r.store.SetMember(registryID, caller, marker); err != nil {
		return fmt.Errorf("cannot store join marker: %w", err)
	}
	log.Infow("member joined", "registryId", registryID, "member", caller.Hex())
	r.notifier.MemberJoined(&notify.MemberJoinedEvent{
		RegistryID:      registryID,
		ExternalGroupID: record.ExternalGroupID,
		Member:          caller,
		Commitment:      marker.Commitment,
		JoinedAt:        marker.JoinedAt,
	})
	return nil
}

// IsMember reports whether the address has joined the group. Unknown
// registry ids simply report false.
func (r *Registry) IsMember(registryID uint64, address common.Address) (bool, error) {
	return r.store.IsMember(registryID, address)
}

// GroupInfo returns the record of a group. For an unassigned registry id it
// returns a zero record with Exists set to false rather than an error, so
// callers must check Exists explicitly.
func (r *Registry) GroupInfo(registryID uint64) (*types.GroupRecord, error) {
	record, err := r.store.Group(registryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &types.GroupRecord{RegistryID: registryID}, nil
		}
		return nil, err
	}
	return record, nil
}

// ListGroups returns all group records in creation order.
func (r *Registry) ListGroups() ([]*types.GroupRecord, error) {
	return r.store.ListGroups()
}

// NextRegistryID returns the number of groups created so far.
func (r *Registry) NextRegistryID() (uint64, error) {
	return r.store.NextRegistryID()
}
