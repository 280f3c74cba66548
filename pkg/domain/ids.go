// Package domain defines the typed identifiers shared across the service.
// Wrapping uuid.UUID per entity makes cross-entity ID mixups a compile
// error instead of a data bug.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "carelink/pkg/domain-errors"
)

type (
	// UserID identifies a client receiving support services.
	UserID uuid.UUID
	// SupporterID identifies a staff member or sabikan.
	SupporterID uuid.UUID
	// PlanID identifies one version of a support plan.
	PlanID uuid.UUID
	// PolicyID identifies a holistic support policy.
	PolicyID uuid.UUID
	// ServiceTypeID identifies a service-type master row.
	ServiceTypeID uuid.UUID
	// LongTermGoalID identifies a long-term goal under a plan.
	LongTermGoalID uuid.UUID
	// ShortTermGoalID identifies a short-term goal under a long-term goal.
	ShortTermGoalID uuid.UUID
	// GoalID identifies an individual support goal, the unit activity
	// records reference.
	GoalID uuid.UUID
	// ConferenceID identifies a support conference log.
	ConferenceID uuid.UUID
	// ConsentID identifies a document consent record.
	ConsentID uuid.UUID
	// AbsenceLogID identifies an absence response log.
	AbsenceLogID uuid.UUID
	// GapLogID identifies a continuity gap log.
	GapLogID uuid.UUID
)

func NewUserID() UserID                   { return UserID(uuid.New()) }
func NewSupporterID() SupporterID         { return SupporterID(uuid.New()) }
func NewPlanID() PlanID                   { return PlanID(uuid.New()) }
func NewPolicyID() PolicyID               { return PolicyID(uuid.New()) }
func NewServiceTypeID() ServiceTypeID     { return ServiceTypeID(uuid.New()) }
func NewLongTermGoalID() LongTermGoalID   { return LongTermGoalID(uuid.New()) }
func NewShortTermGoalID() ShortTermGoalID { return ShortTermGoalID(uuid.New()) }
func NewGoalID() GoalID                   { return GoalID(uuid.New()) }
func NewConferenceID() ConferenceID       { return ConferenceID(uuid.New()) }
func NewConsentID() ConsentID             { return ConsentID(uuid.New()) }
func NewAbsenceLogID() AbsenceLogID       { return AbsenceLogID(uuid.New()) }
func NewGapLogID() GapLogID               { return GapLogID(uuid.New()) }

func (v UserID) String() string          { return uuid.UUID(v).String() }
func (v SupporterID) String() string     { return uuid.UUID(v).String() }
func (v PlanID) String() string          { return uuid.UUID(v).String() }
func (v PolicyID) String() string        { return uuid.UUID(v).String() }
func (v ServiceTypeID) String() string   { return uuid.UUID(v).String() }
func (v LongTermGoalID) String() string  { return uuid.UUID(v).String() }
func (v ShortTermGoalID) String() string { return uuid.UUID(v).String() }
func (v GoalID) String() string          { return uuid.UUID(v).String() }
func (v ConferenceID) String() string    { return uuid.UUID(v).String() }
func (v ConsentID) String() string       { return uuid.UUID(v).String() }
func (v AbsenceLogID) String() string    { return uuid.UUID(v).String() }
func (v GapLogID) String() string        { return uuid.UUID(v).String() }

func (v UserID) IsZero() bool          { return v == UserID(uuid.Nil) }
func (v SupporterID) IsZero() bool     { return v == SupporterID(uuid.Nil) }
func (v PlanID) IsZero() bool          { return v == PlanID(uuid.Nil) }
func (v PolicyID) IsZero() bool        { return v == PolicyID(uuid.Nil) }
func (v ServiceTypeID) IsZero() bool   { return v == ServiceTypeID(uuid.Nil) }
func (v LongTermGoalID) IsZero() bool  { return v == LongTermGoalID(uuid.Nil) }
func (v ShortTermGoalID) IsZero() bool { return v == ShortTermGoalID(uuid.Nil) }
func (v GoalID) IsZero() bool          { return v == GoalID(uuid.Nil) }
func (v ConsentID) IsZero() bool       { return v == ConsentID(uuid.Nil) }

// parseUUID rejects empty, malformed, and nil UUIDs so a zero value can
// never masquerade as a real identifier.
func parseUUID(kind, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s is required", kind))
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid %s: %q", kind, raw))
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must not be the nil UUID", kind))
	}
	return parsed, nil
}

func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID("user id", raw)
	return UserID(parsed), err
}

func ParseSupporterID(raw string) (SupporterID, error) {
	parsed, err := parseUUID("supporter id", raw)
	return SupporterID(parsed), err
}

func ParsePlanID(raw string) (PlanID, error) {
	parsed, err := parseUUID("plan id", raw)
	return PlanID(parsed), err
}

func ParsePolicyID(raw string) (PolicyID, error) {
	parsed, err := parseUUID("policy id", raw)
	return PolicyID(parsed), err
}

func ParseServiceTypeID(raw string) (ServiceTypeID, error) {
	parsed, err := parseUUID("service type id", raw)
	return ServiceTypeID(parsed), err
}

func ParseLongTermGoalID(raw string) (LongTermGoalID, error) {
	parsed, err := parseUUID("long-term goal id", raw)
	return LongTermGoalID(parsed), err
}

func ParseShortTermGoalID(raw string) (ShortTermGoalID, error) {
	parsed, err := parseUUID("short-term goal id", raw)
	return ShortTermGoalID(parsed), err
}

func ParseGoalID(raw string) (GoalID, error) {
	parsed, err := parseUUID("goal id", raw)
	return GoalID(parsed), err
}

func ParseConsentID(raw string) (ConsentID, error) {
	parsed, err := parseUUID("consent id", raw)
	return ConsentID(parsed), err
}
