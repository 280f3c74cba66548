package conference

import (
	"context"
	"sort"
	"sync"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
)

// InMemoryStore keeps conference logs in a slice per plan. Logs are
// append-only.
type InMemoryStore struct {
	mu   sync.RWMutex
	logs map[id.PlanID][]models.ConferenceLog
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{logs: make(map[id.PlanID][]models.ConferenceLog)}
}

func (s *InMemoryStore) Append(_ context.Context, log models.ConferenceLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[log.PlanID] = append(s.logs[log.PlanID], log)
	return nil
}

func (s *InMemoryStore) ListByPlan(_ context.Context, planID id.PlanID) ([]models.ConferenceLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := make([]models.ConferenceLog, len(s.logs[planID]))
	copy(logs, s.logs[planID])
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].ConferenceDate.Before(logs[j].ConferenceDate)
	})
	return logs, nil
}
