package plan

import (
	"context"
	"sync"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// InMemoryStore keeps plans in a map for tests and local development.
// GetForUpdate has no locking semantics here; serialization of concurrent
// transitions is the transaction runner's job.
type InMemoryStore struct {
	mu    sync.RWMutex
	plans map[id.PlanID]models.SupportPlan
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{plans: make(map[id.PlanID]models.SupportPlan)}
}

func (s *InMemoryStore) Get(_ context.Context, planID id.PlanID) (models.SupportPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[planID]
	if !ok {
		return models.SupportPlan{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemoryStore) GetForUpdate(ctx context.Context, planID id.PlanID) (models.SupportPlan, error) {
	return s.Get(ctx, planID)
}

// FindLatestByUser returns the user's plan with the latest start date.
func (s *InMemoryStore) FindLatestByUser(_ context.Context, userID id.UserID) (models.SupportPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest models.SupportPlan
	found := false
	for _, p := range s.plans {
		if p.UserID != userID {
			continue
		}
		if !found || p.StartDate.After(latest.StartDate) {
			latest = p
			found = true
		}
	}
	if !found {
		return models.SupportPlan{}, sentinel.ErrNotFound
	}
	return latest, nil
}

// FindPreviousByEnd returns the user's plan with the latest end date,
// skipping the excluded plan. Used by the continuity check to locate the
// plan the new one should follow.
func (s *InMemoryStore) FindPreviousByEnd(_ context.Context, userID id.UserID, exclude id.PlanID) (models.SupportPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest models.SupportPlan
	found := false
	for _, p := range s.plans {
		if p.UserID != userID || p.ID == exclude {
			continue
		}
		if !found || p.EndDate.After(latest.EndDate) {
			latest = p
			found = true
		}
	}
	if !found {
		return models.SupportPlan{}, sentinel.ErrNotFound
	}
	return latest, nil
}

func (s *InMemoryStore) FindActiveByUser(_ context.Context, userID id.UserID) (models.SupportPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans {
		if p.UserID == userID && p.Status == models.StatusActive {
			return p, nil
		}
	}
	return models.SupportPlan{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Insert(_ context.Context, plan models.SupportPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[plan.ID]; ok {
		return sentinel.ErrConflict
	}
	s.plans[plan.ID] = plan
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, plan models.SupportPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[plan.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.plans[plan.ID] = plan
	return nil
}
