package supporter

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.RWMutex
	supporters map[id.SupporterID]Supporter
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{supporters: make(map[id.SupporterID]Supporter)}
}

func (s *InMemoryStore) Get(_ context.Context, supporterID id.SupporterID) (Supporter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.supporters[supporterID]
	if !ok {
		return Supporter{}, sentinel.ErrNotFound
	}
	return sup, nil
}

func (s *InMemoryStore) Save(_ context.Context, supporter Supporter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supporters[supporter.ID] = supporter
	return nil
}
