package models

import (
	"time"

	id "carelink/pkg/domain"
)

// Status is the lifecycle state of a support plan. Transitions are gated by
// the two locks: conference approval (DRAFT -> PENDING_CONSENT) and consent
// finalization (PENDING_CONSENT -> ACTIVE). Activation archives the
// previously active plan; nothing is ever deleted.
type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusPendingConsent Status = "PENDING_CONSENT"
	StatusActive         Status = "ACTIVE"
	StatusArchived       Status = "ARCHIVED"
)

// CanTransitionTo encodes the legal state machine edges.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusPendingConsent
	case StatusPendingConsent:
		return next == StatusActive
	case StatusActive:
		return next == StatusArchived
	default:
		return false
	}
}

// Editable reports whether goals under a plan may still be changed.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusActive
}

// SupportPlan is one version of an individualized support plan for one
// client. Mutated only through lifecycle transitions; archived in place to
// preserve audit history.
type SupportPlan struct {
	ID      id.PlanID
	UserID  id.UserID
	Version int
	Status  Status

	// SabikanID is the responsible service-management supervisor whose
	// approval gates the transitions.
	SabikanID id.SupporterID

	// PolicyID anchors the plan to the governing holistic support policy
	// instead of copying its text.
	PolicyID id.PolicyID

	StartDate time.Time
	EndDate   time.Time

	SabikanApprovedAt *time.Time
	ConsentID         *id.ConsentID
	ConsentedAt       *time.Time

	CreatedAt time.Time
}

// CoversDate reports whether the date falls within the plan period,
// inclusive on both ends.
func (p SupportPlan) CoversDate(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}
