// Package signal implements proof-gated emission of anonymous signals with
// nullifier based double-use prevention. For a given registry id, a
// nullifier moves from unseen to used exactly once, on the first accepted
// submission; every later submission with the same nullifier is rejected,
// whatever its message or scope.
package signal

import (
	"fmt"
	"time"

	"github.com/Akhil-2310/arkanon/log"
	"github.com/Akhil-2310/arkanon/notify"
	"github.com/Akhil-2310/arkanon/registry"
	"github.com/Akhil-2310/arkanon/semaphore"
	"github.com/Akhil-2310/arkanon/storage"
	"github.com/Akhil-2310/arkanon/storage/nullifier"
	"github.com/Akhil-2310/arkanon/types"
)

// ErrNullifierReused is returned when the submitted nullifier was already
// used for the group. Unrecoverable for that identity and scope.
var ErrNullifierReused = fmt.Errorf("nullifier already used")

// Validator validates anonymous membership proofs and records one signal
// per accepted submission. It resolves registry ids through the group
// registry and delegates proof verification to the proof service.
type Validator struct {
	registry   *registry.Registry
	store      *storage.Storage
	nullifiers nullifier.Store
	proofs     semaphore.Service
	notifier   notify.Notifier
}

// New creates a Validator. A nil notifier falls back to the log sink.
func New(reg *registry.Registry, store *storage.Storage, nullifiers nullifier.Store,
	proofs semaphore.Service, notifier notify.Notifier,
) *Validator {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Validator{
		registry:   reg,
		store:      store,
		nullifiers: nullifiers,
		proofs:     proofs,
		notifier:   notifier,
	}
}

// Submit validates the proof against the group's accumulator and, on
// success, marks the nullifier as used and returns the signal receipt.
//
// The nullifier is checked before invoking the verifier, so a certain
// rejection never pays the verification cost and the caller gets the
// precise error. The used-nullifier set is only mutated after verification
// succeeds, through an atomic check-and-set: of two concurrent submissions
// carrying the same nullifier, exactly one is accepted.
func (v *Validator) Submit(registryID uint64, proof *semaphore.Proof) (*types.Signal, error) {
	if proof == nil || proof.Nullifier == nil {
		return nil, fmt.Errorf("%w: missing nullifier", semaphore.ErrProofInvalid)
	}
	// The nullifier is client-supplied and keys the used-nullifier set, so
	// it must be a canonical unsigned value of the fixed key width before
	// anything downstream encodes it.
	if n := proof.Nullifier.MathBigInt(); n.Sign() < 0 || n.BitLen() > types.NullifierLen*8 {
		return nil, fmt.Errorf("%w: nullifier out of range", semaphore.ErrProofInvalid)
	}
	record, err := v.registry.GroupInfo(registryID)
	if err != nil {
		return nil, err
	}
	if !record.Exists {
		return nil, fmt.Errorf("%w: registry id %d", registry.ErrGroupNotFound, registryID)
	}
	seen, err := v.nullifiers.Seen(registryID, proof.Nullifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", semaphore.ErrUnavailable, err)
	}
	if seen {
		return nil, fmt.Errorf("%w: %s", ErrNullifierReused, proof.Nullifier)
	}
	if err := v.proofs.VerifyProof(record.ExternalGroupID, proof); err != nil {
		return nil, err
	}
	ok, err := v.nullifiers.CheckAndSet(registryID, proof.Nullifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", semaphore.ErrUnavailable, err)
	}
	if !ok {
		// a concurrent submission with the same nullifier won the race
		return nil, fmt.Errorf("%w: %s", ErrNullifierReused, proof.Nullifier)
	}

	signal := &types.Signal{
		RegistryID:      registryID,
		ExternalGroupID: record.ExternalGroupID,
		SignalHash:      (*types.BigInt)(semaphore.HashToField(proof.Message)),
		ScopeHash:       (*types.BigInt)(semaphore.HashToField(proof.Scope)),
		Nullifier:       proof.Nullifier,
		Timestamp:       time.Now(),
	}
	// the receipt and the notification are side channels: the nullifier is
	// already consumed, so failures here are logged, not propagated
	if err := v.store.PushSignal(signal); err != nil {
		log.Warnw("failed to store signal receipt",
			"registryId", registryID,
			"nullifier", proof.Nullifier.String(),
			"error", err,
		)
	}
	log.Infow("signal accepted",
		"registryId", registryID,
		"signalHash", signal.SignalHash.String(),
		"scopeHash", signal.ScopeHash.String(),
		"nullifier", signal.Nullifier.String(),
	)
	v.notifier.SignalSent(&notify.SignalSentEvent{Signal: signal})
	return signal, nil
}

// Signals returns the receipts of all signals accepted for a group.
func (v *Validator) Signals(registryID uint64) ([]*types.Signal, error) {
	return v.store.SignalsByGroup(registryID)
}
