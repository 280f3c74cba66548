package goal

import (
	"context"
	"sync"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// InMemoryStore keeps the three-level goal hierarchy in maps.
type InMemoryStore struct {
	mu         sync.RWMutex
	longTerm   map[id.LongTermGoalID]models.LongTermGoal
	shortTerm  map[id.ShortTermGoalID]models.ShortTermGoal
	individual map[id.GoalID]models.IndividualSupportGoal
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		longTerm:   make(map[id.LongTermGoalID]models.LongTermGoal),
		shortTerm:  make(map[id.ShortTermGoalID]models.ShortTermGoal),
		individual: make(map[id.GoalID]models.IndividualSupportGoal),
	}
}

func (s *InMemoryStore) SaveLongTerm(_ context.Context, g models.LongTermGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.longTerm[g.ID] = g
	return nil
}

func (s *InMemoryStore) SaveShortTerm(_ context.Context, g models.ShortTermGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.longTerm[g.LongTermGoalID]; !ok {
		return sentinel.ErrNotFound
	}
	s.shortTerm[g.ID] = g
	return nil
}

func (s *InMemoryStore) SaveIndividual(_ context.Context, g models.IndividualSupportGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shortTerm[g.ShortTermGoalID]; !ok {
		return sentinel.ErrNotFound
	}
	s.individual[g.ID] = g
	return nil
}

func (s *InMemoryStore) GetLongTerm(_ context.Context, goalID id.LongTermGoalID) (models.LongTermGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.longTerm[goalID]
	if !ok {
		return models.LongTermGoal{}, sentinel.ErrNotFound
	}
	return g, nil
}

func (s *InMemoryStore) GetShortTerm(_ context.Context, goalID id.ShortTermGoalID) (models.ShortTermGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.shortTerm[goalID]
	if !ok {
		return models.ShortTermGoal{}, sentinel.ErrNotFound
	}
	return g, nil
}

func (s *InMemoryStore) ResolveIndividual(_ context.Context, goalID id.GoalID) (models.IndividualSupportGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.individual[goalID]
	if !ok {
		return models.IndividualSupportGoal{}, sentinel.ErrNotFound
	}
	return g, nil
}

// OwningPlanID walks individual -> short-term -> long-term -> plan.
func (s *InMemoryStore) OwningPlanID(_ context.Context, goalID id.GoalID) (id.PlanID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ind, ok := s.individual[goalID]
	if !ok {
		return id.PlanID{}, sentinel.ErrNotFound
	}
	st, ok := s.shortTerm[ind.ShortTermGoalID]
	if !ok {
		return id.PlanID{}, sentinel.ErrNotFound
	}
	lt, ok := s.longTerm[st.LongTermGoalID]
	if !ok {
		return id.PlanID{}, sentinel.ErrNotFound
	}
	return lt.PlanID, nil
}

// Tree returns the full hierarchy under one plan.
func (s *InMemoryStore) Tree(_ context.Context, planID id.PlanID) (models.GoalTree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tree models.GoalTree
	longIDs := make(map[id.LongTermGoalID]struct{})
	for _, lt := range s.longTerm {
		if lt.PlanID == planID {
			tree.LongTerm = append(tree.LongTerm, lt)
			longIDs[lt.ID] = struct{}{}
		}
	}
	shortIDs := make(map[id.ShortTermGoalID]struct{})
	for _, st := range s.shortTerm {
		if _, ok := longIDs[st.LongTermGoalID]; ok {
			tree.ShortTerm = append(tree.ShortTerm, st)
			shortIDs[st.ID] = struct{}{}
		}
	}
	for _, ind := range s.individual {
		if _, ok := shortIDs[ind.ShortTermGoalID]; ok {
			tree.Individual = append(tree.Individual, ind)
		}
	}
	return tree, nil
}
