package models

import (
	"time"

	id "carelink/pkg/domain"
)

// ConferenceLog records the support-conference outcome for one plan.
// Exactly one is created per approval; immutable after creation.
type ConferenceLog struct {
	ID     id.ConferenceID
	PlanID id.PlanID

	ConferenceDate   time.Time
	Minutes          string
	UserParticipated bool

	// Absence evidence package, only meaningful when the client did not
	// participate. DigitalDeclaration is the approver's explicit statement
	// of personal engagement; MonitoringSummary describes how the client's
	// situation was tracked in their absence.
	AbsenceReason      string
	DigitalDeclaration bool
	MonitoringSummary  string

	CreatedAt time.Time
}
