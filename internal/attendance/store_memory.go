package attendance

import (
	"context"
	"sync"

	id "carelink/pkg/domain"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	logs []AbsenceResponseLog
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, log AbsenceResponseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return nil
}

func (s *InMemoryStore) CountLinkedEvidence(_ context.Context, userID id.UserID, planID id.PlanID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, log := range s.logs {
		if log.UserID == userID && log.LinkedPlanID == planID {
			count++
		}
	}
	return count, nil
}
