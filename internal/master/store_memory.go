package master

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	types map[id.ServiceTypeID]ServiceType
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{types: make(map[id.ServiceTypeID]ServiceType)}
}

func (s *InMemoryStore) Get(_ context.Context, serviceTypeID id.ServiceTypeID) (ServiceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.types[serviceTypeID]
	if !ok {
		return ServiceType{}, sentinel.ErrNotFound
	}
	return st, nil
}

func (s *InMemoryStore) Save(_ context.Context, serviceType ServiceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[serviceType.ID] = serviceType
	return nil
}
