package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
)

// Goal edits are allowed while the owning plan is DRAFT (authoring) or
// ACTIVE (mid-period PDCA adjustments). PENDING_CONSENT plans are frozen:
// the client consents to a specific document, and ARCHIVED plans are
// history.

type LongTermGoalInput struct {
	Description string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (s *Service) AddLongTermGoal(ctx context.Context, planID id.PlanID, input LongTermGoalInput) (models.LongTermGoal, error) {
	if strings.TrimSpace(input.Description) == "" {
		return models.LongTermGoal{}, dErrors.New(dErrors.CodeValidation, "goal description is required")
	}
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return models.LongTermGoal{}, err
	}
	if err := s.requireEditable(plan); err != nil {
		return models.LongTermGoal{}, err
	}

	goal := models.LongTermGoal{
		ID:          id.NewLongTermGoalID(),
		PlanID:      planID,
		Description: input.Description,
		PeriodStart: dateOnly(input.PeriodStart),
		PeriodEnd:   dateOnly(input.PeriodEnd),
	}
	if err := s.goals.SaveLongTerm(ctx, goal); err != nil {
		return models.LongTermGoal{}, dErrors.Wrap(err, dErrors.CodeInternal, "save long-term goal")
	}
	return goal, nil
}

type ShortTermGoalInput struct {
	Description    string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	NextReviewDate time.Time
}

func (s *Service) AddShortTermGoal(ctx context.Context, planID id.PlanID, longTermGoalID id.LongTermGoalID, input ShortTermGoalInput) (models.ShortTermGoal, error) {
	if strings.TrimSpace(input.Description) == "" {
		return models.ShortTermGoal{}, dErrors.New(dErrors.CodeValidation, "goal description is required")
	}
	parent, err := s.goals.GetLongTerm(ctx, longTermGoalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.ShortTermGoal{}, dErrors.New(dErrors.CodeNotFound, "long-term goal not found")
		}
		return models.ShortTermGoal{}, dErrors.Wrap(err, dErrors.CodeInternal, "load long-term goal")
	}
	if parent.PlanID != planID {
		return models.ShortTermGoal{}, dErrors.New(dErrors.CodeValidation, "long-term goal does not belong to this plan")
	}
	plan, err := s.GetPlan(ctx, parent.PlanID)
	if err != nil {
		return models.ShortTermGoal{}, err
	}
	if err := s.requireEditable(plan); err != nil {
		return models.ShortTermGoal{}, err
	}

	goal := models.ShortTermGoal{
		ID:             id.NewShortTermGoalID(),
		LongTermGoalID: longTermGoalID,
		Description:    input.Description,
		PeriodStart:    dateOnly(input.PeriodStart),
		PeriodEnd:      dateOnly(input.PeriodEnd),
		NextReviewDate: dateOnly(input.NextReviewDate),
	}
	if err := s.goals.SaveShortTerm(ctx, goal); err != nil {
		return models.ShortTermGoal{}, dErrors.Wrap(err, dErrors.CodeInternal, "save short-term goal")
	}
	return goal, nil
}

type IndividualGoalInput struct {
	ConcreteGoal       string
	UserCommitment     string
	SupportActions     string
	ServiceType        models.GoalServiceType
	IsFacilityInDeemed bool
	IsWorkPreparation  bool
}

func (s *Service) AddIndividualGoal(ctx context.Context, planID id.PlanID, shortTermGoalID id.ShortTermGoalID, input IndividualGoalInput) (models.IndividualSupportGoal, error) {
	if strings.TrimSpace(input.ConcreteGoal) == "" {
		return models.IndividualSupportGoal{}, dErrors.New(dErrors.CodeValidation, "concrete goal is required")
	}
	if !input.ServiceType.Valid() {
		return models.IndividualSupportGoal{}, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("unknown service type %q", input.ServiceType))
	}
	parent, err := s.goals.GetShortTerm(ctx, shortTermGoalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.IndividualSupportGoal{}, dErrors.New(dErrors.CodeNotFound, "short-term goal not found")
		}
		return models.IndividualSupportGoal{}, dErrors.Wrap(err, dErrors.CodeInternal, "load short-term goal")
	}
	grand, err := s.goals.GetLongTerm(ctx, parent.LongTermGoalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.IndividualSupportGoal{}, dErrors.New(dErrors.CodeNotFound, "long-term goal not found")
		}
		return models.IndividualSupportGoal{}, dErrors.Wrap(err, dErrors.CodeInternal, "load long-term goal")
	}
	if grand.PlanID != planID {
		return models.IndividualSupportGoal{}, dErrors.New(dErrors.CodeValidation, "short-term goal does not belong to this plan")
	}
	plan, err := s.GetPlan(ctx, grand.PlanID)
	if err != nil {
		return models.IndividualSupportGoal{}, err
	}
	if err := s.requireEditable(plan); err != nil {
		return models.IndividualSupportGoal{}, err
	}

	goal := models.IndividualSupportGoal{
		ID:                 id.NewGoalID(),
		ShortTermGoalID:    shortTermGoalID,
		ConcreteGoal:       input.ConcreteGoal,
		UserCommitment:     input.UserCommitment,
		SupportActions:     input.SupportActions,
		ServiceType:        input.ServiceType,
		IsFacilityInDeemed: input.IsFacilityInDeemed,
		IsWorkPreparation:  input.IsWorkPreparation,
	}
	if err := s.goals.SaveIndividual(ctx, goal); err != nil {
		return models.IndividualSupportGoal{}, dErrors.Wrap(err, dErrors.CodeInternal, "save individual goal")
	}
	return goal, nil
}

func (s *Service) requireEditable(plan models.SupportPlan) error {
	if !plan.Status.Editable() {
		return dErrors.New(dErrors.CodeInvalidStateTransition,
			fmt.Sprintf("goals can only be edited while the plan is %s or %s, plan is %s",
				models.StatusDraft, models.StatusActive, plan.Status))
	}
	return nil
}
