package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"carelink/internal/consent"
	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// Bundle is the full read model for one plan: the plan itself, its goal
// hierarchy, its conference history, and the consent records covering it.
type Bundle struct {
	Plan        models.SupportPlan
	Goals       models.GoalTree
	Conferences []models.ConferenceLog
	Consents    []consent.Record
}

// GetBundle assembles the bundle with the subordinate reads fanned out
// concurrently.
func (s *Service) GetBundle(ctx context.Context, planID id.PlanID) (Bundle, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return Bundle{}, err
	}

	bundle := Bundle{Plan: plan}
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		tree, err := s.goals.Tree(ctx, planID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load goal tree")
		}
		bundle.Goals = tree
		return nil
	})
	group.Go(func() error {
		logs, err := s.conferences.ListByPlan(ctx, planID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load conference logs")
		}
		bundle.Conferences = logs
		return nil
	})
	group.Go(func() error {
		records, err := s.consents.ListByUser(ctx, plan.UserID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load consent records")
		}
		for _, record := range records {
			if record.Covers(planID) {
				bundle.Consents = append(bundle.Consents, record)
			}
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}
