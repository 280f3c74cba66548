package service

import (
	"context"

	"carelink/internal/consent"
	"carelink/internal/master"
	"carelink/internal/plan/models"
	"carelink/internal/policy"
	"carelink/internal/user"
	id "carelink/pkg/domain"
)

// PlanStore is the persistence surface the lifecycle engine drives.
// Implementations return sentinel.ErrNotFound for missing plans; the service
// translates to coded domain errors.
type PlanStore interface {
	Get(ctx context.Context, planID id.PlanID) (models.SupportPlan, error)
	// GetForUpdate locks the plan row for the duration of the surrounding
	// transaction so concurrent transitions serialize.
	GetForUpdate(ctx context.Context, planID id.PlanID) (models.SupportPlan, error)
	// FindLatestByUser orders by start date descending.
	FindLatestByUser(ctx context.Context, userID id.UserID) (models.SupportPlan, error)
	// FindPreviousByEnd orders by end date descending, excluding one plan.
	FindPreviousByEnd(ctx context.Context, userID id.UserID, exclude id.PlanID) (models.SupportPlan, error)
	FindActiveByUser(ctx context.Context, userID id.UserID) (models.SupportPlan, error)
	Insert(ctx context.Context, plan models.SupportPlan) error
	Update(ctx context.Context, plan models.SupportPlan) error
}

type GoalStore interface {
	SaveLongTerm(ctx context.Context, g models.LongTermGoal) error
	SaveShortTerm(ctx context.Context, g models.ShortTermGoal) error
	SaveIndividual(ctx context.Context, g models.IndividualSupportGoal) error
	GetLongTerm(ctx context.Context, goalID id.LongTermGoalID) (models.LongTermGoal, error)
	GetShortTerm(ctx context.Context, goalID id.ShortTermGoalID) (models.ShortTermGoal, error)
	ResolveIndividual(ctx context.Context, goalID id.GoalID) (models.IndividualSupportGoal, error)
	OwningPlanID(ctx context.Context, goalID id.GoalID) (id.PlanID, error)
	Tree(ctx context.Context, planID id.PlanID) (models.GoalTree, error)
}

type ConferenceStore interface {
	Append(ctx context.Context, log models.ConferenceLog) error
	ListByPlan(ctx context.Context, planID id.PlanID) ([]models.ConferenceLog, error)
}

type GapStore interface {
	Append(ctx context.Context, log models.ContinuityGapLog) error
	FindByPreviousPlan(ctx context.Context, planID id.PlanID) (models.ContinuityGapLog, error)
}

// ConsentReader is the lifecycle engine's read-only view of consent
// evidence. Capturing consent lives in the consent domain.
type ConsentReader interface {
	Get(ctx context.Context, consentID id.ConsentID) (consent.Record, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]consent.Record, error)
}

// AbsenceEvidence counts absence responses linked to a plan, the third leg
// of the conference absence guardrail.
type AbsenceEvidence interface {
	CountLinkedEvidence(ctx context.Context, userID id.UserID, planID id.PlanID) (int, error)
}

type PolicyReader interface {
	Get(ctx context.Context, policyID id.PolicyID) (policy.HolisticSupportPolicy, error)
}

type UserReader interface {
	Get(ctx context.Context, userID id.UserID) (user.User, error)
}

type ServiceTypeReader interface {
	Get(ctx context.Context, serviceTypeID id.ServiceTypeID) (master.ServiceType, error)
}

// CacheInvalidator drops cached guardrail verdicts for a client after a
// lifecycle transition changes which plan is active.
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID id.UserID) error
}
