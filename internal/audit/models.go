package audit

import (
	"time"

	id "carelink/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    id.UserID
	Actor     string
	Subject   string
	Action    string
	Reason    string
}

// Actions recorded by the lifecycle engine and guardrail.
const (
	ActionDraftCreated       = "plan.draft_created"
	ActionDraftDegraded      = "plan.draft_degraded_start_date"
	ActionConferenceApproved = "plan.conference_approved"
	ActionApprovalRejected   = "plan.approval_rejected"
	ActionPlanActivated      = "plan.activated"
	ActionPlanArchived       = "plan.archived"
	ActionGapLogged          = "plan.continuity_gap_logged"
	ActionGuardrailDenied    = "guardrail.denied"
)
