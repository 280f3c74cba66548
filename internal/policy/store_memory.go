package policy

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	policies map[id.PolicyID]HolisticSupportPolicy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{policies: make(map[id.PolicyID]HolisticSupportPolicy)}
}

func (s *InMemoryStore) Get(_ context.Context, policyID id.PolicyID) (HolisticSupportPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyID]
	if !ok {
		return HolisticSupportPolicy{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryStore) Save(_ context.Context, policy HolisticSupportPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.ID] = policy
	return nil
}
