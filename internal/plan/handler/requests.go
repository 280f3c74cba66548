package handler

import (
	"strings"
	"time"

	"carelink/internal/plan/models"
	"carelink/internal/plan/service"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" must be a date in YYYY-MM-DD format")
	}
	return parsed, nil
}

// CreateDraftRequest is the body for POST /plans.
type CreateDraftRequest struct {
	UserID   string `json:"user_id"`
	PolicyID string `json:"policy_id"`

	parsedUserID   id.UserID
	parsedPolicyID id.PolicyID
}

func (r *CreateDraftRequest) Validate() error {
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	policyID, err := id.ParsePolicyID(r.PolicyID)
	if err != nil {
		return err
	}
	r.parsedUserID = userID
	r.parsedPolicyID = policyID
	return nil
}

// Goal kinds accepted by POST /plans/{planID}/goals.
const (
	goalKindLongTerm   = "long_term"
	goalKindShortTerm  = "short_term"
	goalKindIndividual = "individual"
)

// AddGoalRequest adds one node to the goal hierarchy. Kind selects the
// level; parent IDs are required for the lower two.
type AddGoalRequest struct {
	Kind string `json:"kind"`

	LongTermGoalID  string `json:"long_term_goal_id,omitempty"`
	ShortTermGoalID string `json:"short_term_goal_id,omitempty"`

	Description    string `json:"description,omitempty"`
	PeriodStart    string `json:"period_start,omitempty"`
	PeriodEnd      string `json:"period_end,omitempty"`
	NextReviewDate string `json:"next_review_date,omitempty"`

	ConcreteGoal       string `json:"concrete_goal,omitempty"`
	UserCommitment     string `json:"user_commitment,omitempty"`
	SupportActions     string `json:"support_actions,omitempty"`
	ServiceType        string `json:"service_type,omitempty"`
	IsFacilityInDeemed bool   `json:"is_facility_in_deemed,omitempty"`
	IsWorkPreparation  bool   `json:"is_work_preparation,omitempty"`

	parsedLongTermGoalID  id.LongTermGoalID
	parsedShortTermGoalID id.ShortTermGoalID
	parsedPeriodStart     time.Time
	parsedPeriodEnd       time.Time
	parsedNextReviewDate  time.Time
}

func (r *AddGoalRequest) Validate() error {
	switch r.Kind {
	case goalKindLongTerm, goalKindShortTerm:
		start, err := parseDate("period_start", r.PeriodStart)
		if err != nil {
			return err
		}
		end, err := parseDate("period_end", r.PeriodEnd)
		if err != nil {
			return err
		}
		if end.Before(start) {
			return dErrors.New(dErrors.CodeValidation, "period_end must not be before period_start")
		}
		r.parsedPeriodStart = start
		r.parsedPeriodEnd = end
	case goalKindIndividual:
	default:
		return dErrors.New(dErrors.CodeValidation, "kind must be one of long_term, short_term, individual")
	}

	switch r.Kind {
	case goalKindShortTerm:
		parent, err := id.ParseLongTermGoalID(r.LongTermGoalID)
		if err != nil {
			return err
		}
		r.parsedLongTermGoalID = parent
		review, err := parseDate("next_review_date", r.NextReviewDate)
		if err != nil {
			return err
		}
		r.parsedNextReviewDate = review
	case goalKindIndividual:
		parent, err := id.ParseShortTermGoalID(r.ShortTermGoalID)
		if err != nil {
			return err
		}
		r.parsedShortTermGoalID = parent
	}
	return nil
}

// ApproveRequest is the conference record submitted for Lock 1.
type ApproveRequest struct {
	ConferenceDate   string `json:"conference_date"`
	Minutes          string `json:"minutes"`
	UserParticipated bool   `json:"user_participated"`

	AbsenceReason      string `json:"absence_reason,omitempty"`
	DigitalDeclaration bool   `json:"digital_declaration,omitempty"`
	MonitoringSummary  string `json:"monitoring_summary,omitempty"`

	parsedDate time.Time
}

func (r *ApproveRequest) Validate() error {
	date, err := parseDate("conference_date", r.ConferenceDate)
	if err != nil {
		return err
	}
	if strings.TrimSpace(r.Minutes) == "" {
		return dErrors.New(dErrors.CodeValidation, "minutes is required")
	}
	r.parsedDate = date
	return nil
}

func (r *ApproveRequest) ToInput() service.ConferenceInput {
	return service.ConferenceInput{
		Date:               r.parsedDate,
		Minutes:            r.Minutes,
		UserParticipated:   r.UserParticipated,
		AbsenceReason:      r.AbsenceReason,
		DigitalDeclaration: r.DigitalDeclaration,
		MonitoringSummary:  r.MonitoringSummary,
	}
}

// FinalizeRequest carries the consent reference for Lock 2 and optionally a
// continuity gap justification.
type FinalizeRequest struct {
	ConsentID string      `json:"consent_id"`
	Gap       *GapRequest `json:"gap,omitempty"`

	parsedConsentID id.ConsentID
}

type GapRequest struct {
	ReasonType    string `json:"reason_type"`
	ReasonDetail  string `json:"reason_detail"`
	ResponsibleID string `json:"responsible_id,omitempty"`

	parsedResponsibleID id.SupporterID
}

func (r *FinalizeRequest) Validate() error {
	consentID, err := id.ParseConsentID(r.ConsentID)
	if err != nil {
		return err
	}
	r.parsedConsentID = consentID

	if r.Gap != nil {
		if !models.GapReason(r.Gap.ReasonType).Valid() {
			return dErrors.New(dErrors.CodeValidation, "gap.reason_type is not a known reason")
		}
		if strings.TrimSpace(r.Gap.ReasonDetail) == "" {
			return dErrors.New(dErrors.CodeValidation, "gap.reason_detail is required")
		}
		if r.Gap.ResponsibleID != "" {
			responsible, err := id.ParseSupporterID(r.Gap.ResponsibleID)
			if err != nil {
				return err
			}
			r.Gap.parsedResponsibleID = responsible
		}
	}
	return nil
}

func (r *FinalizeRequest) ToInput(approverID id.SupporterID) service.FinalizeInput {
	input := service.FinalizeInput{
		ConsentID:  r.parsedConsentID,
		ApproverID: approverID,
	}
	if r.Gap != nil {
		input.Gap = &service.GapInput{
			ReasonType:    models.GapReason(r.Gap.ReasonType),
			ReasonDetail:  r.Gap.ReasonDetail,
			ResponsibleID: r.Gap.parsedResponsibleID,
		}
	}
	return input
}
