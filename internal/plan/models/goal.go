package models

import (
	"time"

	id "carelink/pkg/domain"
)

// The goal hierarchy is a strict three-level ownership chain:
// plan -> long-term goal -> short-term goal -> individual support goal.
// Daily activity records reference individual support goals only; the
// guardrail walks the chain back up to the owning plan.

type LongTermGoal struct {
	ID          id.LongTermGoalID
	PlanID      id.PlanID
	Description string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

type ShortTermGoal struct {
	ID             id.ShortTermGoalID
	LongTermGoalID id.LongTermGoalID
	Description    string
	PeriodStart    time.Time
	PeriodEnd      time.Time

	// NextReviewDate drives the PDCA review cycle for this goal.
	NextReviewDate time.Time
}

// GoalServiceType labels the billing-relevant activity category an
// individual goal belongs to.
type GoalServiceType string

const (
	GoalServiceHomeSupport   GoalServiceType = "HOME_SUPPORT"
	GoalServiceOutsideWork   GoalServiceType = "OUTSIDE_WORK"
	GoalServiceGroupTraining GoalServiceType = "GROUP_TRAINING"
)

// Valid reports whether the service type is a known category.
func (t GoalServiceType) Valid() bool {
	switch t {
	case GoalServiceHomeSupport, GoalServiceOutsideWork, GoalServiceGroupTraining:
		return true
	}
	return false
}

// IndividualSupportGoal is the smallest unit of planned support: the
// concrete goal, the client's own commitment, and the staff actions that
// back it. Goals referenced by activity records are never deleted.
type IndividualSupportGoal struct {
	ID              id.GoalID
	ShortTermGoalID id.ShortTermGoalID

	ConcreteGoal   string
	UserCommitment string
	SupportActions string

	ServiceType GoalServiceType

	// IsFacilityInDeemed marks home training counted as in-facility.
	IsFacilityInDeemed bool
	// IsWorkPreparation marks activity eligible for the work-preparation
	// addition.
	IsWorkPreparation bool
}

// GoalTree is the full hierarchy under one plan, as read for the bundle
// endpoint.
type GoalTree struct {
	LongTerm   []LongTermGoal
	ShortTerm  []ShortTermGoal
	Individual []IndividualSupportGoal
}
