// Package guardrail answers one question for the activity recording flow:
// may this individual support goal be attached to a record for this client
// on this date? The answer is a plain yes or no. Why a request was denied is
// an operational concern and stays in logs and metrics; leaking it to the
// recording UI would invite working around the check.
package guardrail

import (
	"context"
	"log/slog"
	"time"

	"carelink/internal/audit"
	"carelink/internal/plan/models"
	"carelink/internal/platform/metrics"
	id "carelink/pkg/domain"
)

// PlanReader resolves plans for verdicts.
type PlanReader interface {
	Get(ctx context.Context, planID id.PlanID) (models.SupportPlan, error)
}

// GoalResolver walks an individual goal back to its owning plan.
type GoalResolver interface {
	ResolveIndividual(ctx context.Context, goalID id.GoalID) (models.IndividualSupportGoal, error)
	OwningPlanID(ctx context.Context, goalID id.GoalID) (id.PlanID, error)
}

const outcomePermitted = "permitted"

// Denial reasons, used as metric labels and audit reasons only.
const (
	denyGoalNotFound   = "goal_not_found"
	denyChainBroken    = "ownership_chain_broken"
	denyPlanNotFound   = "plan_not_found"
	denyUserMismatch   = "user_mismatch"
	denyPlanNotActive  = "plan_not_active"
	denyDateOutOfRange = "date_out_of_range"
)

// Service evaluates guardrail verdicts. Fail-closed: any lookup failure or
// broken ownership chain denies rather than guessing.
type Service struct {
	goals   GoalResolver
	plans   PlanReader
	cache   *Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

func New(goals GoalResolver, plans PlanReader, cache *Cache, logger *slog.Logger, m *metrics.Metrics, publisher *audit.Publisher) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		goals:   goals,
		plans:   plans,
		cache:   cache,
		logger:  logger,
		metrics: m,
		audit:   publisher,
	}
}

// Check reports whether the goal may be referenced by an activity record
// for the client on the given date. Never returns an error: the verdict is
// the whole contract, and an unresolvable request is simply denied.
func (s *Service) Check(ctx context.Context, userID id.UserID, goalID id.GoalID, date time.Time) bool {
	if s.cache != nil {
		verdict, hit, err := s.cache.Get(ctx, userID, goalID, date)
		if err != nil {
			s.logger.WarnContext(ctx, "guardrail cache read failed", "error", err)
		} else if hit {
			return verdict
		}
	}

	permitted := s.evaluate(ctx, userID, goalID, date)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, goalID, date, permitted); err != nil {
			s.logger.WarnContext(ctx, "guardrail cache write failed", "error", err)
		}
	}
	return permitted
}

func (s *Service) evaluate(ctx context.Context, userID id.UserID, goalID id.GoalID, date time.Time) bool {
	if _, err := s.goals.ResolveIndividual(ctx, goalID); err != nil {
		return s.deny(ctx, userID, goalID, denyGoalNotFound, err)
	}

	planID, err := s.goals.OwningPlanID(ctx, goalID)
	if err != nil {
		return s.deny(ctx, userID, goalID, denyChainBroken, err)
	}

	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return s.deny(ctx, userID, goalID, denyPlanNotFound, err)
	}

	if plan.UserID != userID {
		return s.deny(ctx, userID, goalID, denyUserMismatch, nil)
	}
	if plan.Status != models.StatusActive {
		return s.deny(ctx, userID, goalID, denyPlanNotActive, nil)
	}
	if !plan.CoversDate(date) {
		return s.deny(ctx, userID, goalID, denyDateOutOfRange, nil)
	}

	s.metrics.IncGuardrailVerdict(outcomePermitted)
	return true
}

func (s *Service) deny(ctx context.Context, userID id.UserID, goalID id.GoalID, reason string, err error) bool {
	s.metrics.IncGuardrailVerdict(reason)
	s.logger.InfoContext(ctx, "guardrail denied",
		"user_id", userID.String(),
		"goal_id", goalID.String(),
		"reason", reason,
		"error", err,
	)
	if s.audit != nil {
		s.audit.Emit(audit.Event{
			UserID:  userID,
			Subject: goalID.String(),
			Action:  audit.ActionGuardrailDenied,
			Reason:  reason,
		})
	}
	return false
}
