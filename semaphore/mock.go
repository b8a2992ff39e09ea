package semaphore

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// MockService implements an in-memory version of Service for testing. The
// Err fields, when set, are returned by the corresponding operation to
// simulate every documented failure without real proof generation.
type MockService struct {
	mu     sync.Mutex
	groups map[uuid.UUID][]*big.Int

	CreateErr error
	AddErr    error
	VerifyErr error
}

// NewMockService creates an empty MockService.
func NewMockService() *MockService {
	return &MockService{groups: make(map[uuid.UUID][]*big.Int)}
}

func (m *MockService) CreateGroup() (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return uuid.Nil, m.CreateErr
	}
	groupID := uuid.New()
	m.groups[groupID] = nil
	return groupID, nil
}

func (m *MockService) AddMember(groupID uuid.UUID, commitment *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return m.AddErr
	}
	if err := checkCommitment(commitment); err != nil {
		return err
	}
	members, ok := m.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	for _, member := range members {
		if member.Cmp(commitment) == 0 {
			return fmt.Errorf("%w: %s", ErrMemberExists, commitment)
		}
	}
	m.groups[groupID] = append(members, new(big.Int).Set(commitment))
	return nil
}

func (m *MockService) VerifyProof(groupID uuid.UUID, proof *Proof) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.VerifyErr != nil {
		return m.VerifyErr
	}
	if _, ok := m.groups[groupID]; !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if proof == nil || proof.Nullifier == nil {
		return fmt.Errorf("%w: incomplete proof bundle", ErrProofInvalid)
	}
	return nil
}

// Members returns the commitments admitted into a group.
func (m *MockService) Members(groupID uuid.UUID) []*big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*big.Int{}, m.groups[groupID]...)
}
