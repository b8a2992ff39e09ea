// Package notify delivers best-effort notifications about registry state
// changes to external indexers. Delivery is outside the consistency
// boundary: a failed publication never rolls back the state change that
// produced it.
package notify

import (
	"time"

	"github.com/Akhil-2310/arkanon/log"
	"github.com/Akhil-2310/arkanon/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// GroupCreatedEvent is published when a group is registered.
type GroupCreatedEvent struct {
	RegistryID      uint64         `json:"registryId"`
	ExternalGroupID uuid.UUID      `json:"externalGroupId"`
	Creator         common.Address `json:"creator"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ImageURL        string         `json:"imageUrl"`
	Category        string         `json:"category"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// MemberJoinedEvent is published when an address joins a group.
type MemberJoinedEvent struct {
	RegistryID      uint64         `json:"registryId"`
	ExternalGroupID uuid.UUID      `json:"externalGroupId"`
	Member          common.Address `json:"member"`
	Commitment      *types.BigInt  `json:"commitment"`
	JoinedAt        time.Time      `json:"joinedAt"`
}

// SignalSentEvent is published when an anonymous signal is accepted. It
// carries the full signal receipt.
type SignalSentEvent struct {
	*types.Signal
}

// Notifier is the notification sink consumed by the registry and the signal
// validator. Implementations must never block the caller on delivery
// failures.
type Notifier interface {
	GroupCreated(event *GroupCreatedEvent)
	MemberJoined(event *MemberJoinedEvent)
	SignalSent(event *SignalSentEvent)
}

// LogNotifier writes every event to the structured log. It is the default
// sink when no external indexer is configured.
type LogNotifier struct{}

func (LogNotifier) GroupCreated(event *GroupCreatedEvent) {
	log.Infow("group created",
		"registryId", event.RegistryID,
		"externalGroupId", event.ExternalGroupID.String(),
		"creator", event.Creator.Hex(),
		"name", event.Name,
		"category", event.Category,
	)
}

func (LogNotifier) MemberJoined(event *MemberJoinedEvent) {
	log.Infow("member joined",
		"registryId", event.RegistryID,
		"member", event.Member.Hex(),
		"commitment", event.Commitment.String(),
	)
}

func (LogNotifier) SignalSent(event *SignalSentEvent) {
	log.Infow("signal sent",
		"registryId", event.RegistryID,
		"signalHash", event.SignalHash.String(),
		"scopeHash", event.ScopeHash.String(),
		"nullifier", event.Nullifier.String(),
	)
}
