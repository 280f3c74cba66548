package gap

import (
	"context"
	"sync"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// InMemoryStore keeps continuity gap logs keyed by the previous plan they
// explain away.
type InMemoryStore struct {
	mu   sync.RWMutex
	logs map[id.PlanID]models.ContinuityGapLog
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{logs: make(map[id.PlanID]models.ContinuityGapLog)}
}

func (s *InMemoryStore) Append(_ context.Context, log models.ContinuityGapLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[log.PreviousPlanID] = log
	return nil
}

func (s *InMemoryStore) FindByPreviousPlan(_ context.Context, planID id.PlanID) (models.ContinuityGapLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.logs[planID]
	if !ok {
		return models.ContinuityGapLog{}, sentinel.ErrNotFound
	}
	return log, nil
}
