package handler

import (
	"time"

	"carelink/internal/consent"
	"carelink/internal/plan/models"
	"carelink/internal/plan/service"
)

const dateLayout = "2006-01-02"

type PlanResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Version   int    `json:"version"`
	Status    string `json:"status"`
	SabikanID string `json:"sabikan_id"`
	PolicyID  string `json:"policy_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	SabikanApprovedAt *time.Time `json:"sabikan_approved_at,omitempty"`
	ConsentID         *string    `json:"consent_id,omitempty"`
	ConsentedAt       *time.Time `json:"consented_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func FromPlan(p models.SupportPlan) PlanResponse {
	resp := PlanResponse{
		ID:                p.ID.String(),
		UserID:            p.UserID.String(),
		Version:           p.Version,
		Status:            string(p.Status),
		SabikanID:         p.SabikanID.String(),
		PolicyID:          p.PolicyID.String(),
		StartDate:         p.StartDate.Format(dateLayout),
		EndDate:           p.EndDate.Format(dateLayout),
		SabikanApprovedAt: p.SabikanApprovedAt,
		ConsentedAt:       p.ConsentedAt,
		CreatedAt:         p.CreatedAt,
	}
	if p.ConsentID != nil {
		consentID := p.ConsentID.String()
		resp.ConsentID = &consentID
	}
	return resp
}

type LongTermGoalResponse struct {
	ID          string `json:"id"`
	PlanID      string `json:"plan_id"`
	Description string `json:"description"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func FromLongTermGoal(g models.LongTermGoal) LongTermGoalResponse {
	return LongTermGoalResponse{
		ID:          g.ID.String(),
		PlanID:      g.PlanID.String(),
		Description: g.Description,
		PeriodStart: g.PeriodStart.Format(dateLayout),
		PeriodEnd:   g.PeriodEnd.Format(dateLayout),
	}
}

type ShortTermGoalResponse struct {
	ID             string `json:"id"`
	LongTermGoalID string `json:"long_term_goal_id"`
	Description    string `json:"description"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	NextReviewDate string `json:"next_review_date"`
}

func FromShortTermGoal(g models.ShortTermGoal) ShortTermGoalResponse {
	return ShortTermGoalResponse{
		ID:             g.ID.String(),
		LongTermGoalID: g.LongTermGoalID.String(),
		Description:    g.Description,
		PeriodStart:    g.PeriodStart.Format(dateLayout),
		PeriodEnd:      g.PeriodEnd.Format(dateLayout),
		NextReviewDate: g.NextReviewDate.Format(dateLayout),
	}
}

type IndividualGoalResponse struct {
	ID                 string `json:"id"`
	ShortTermGoalID    string `json:"short_term_goal_id"`
	ConcreteGoal       string `json:"concrete_goal"`
	UserCommitment     string `json:"user_commitment"`
	SupportActions     string `json:"support_actions"`
	ServiceType        string `json:"service_type"`
	IsFacilityInDeemed bool   `json:"is_facility_in_deemed"`
	IsWorkPreparation  bool   `json:"is_work_preparation"`
}

func FromIndividualGoal(g models.IndividualSupportGoal) IndividualGoalResponse {
	return IndividualGoalResponse{
		ID:                 g.ID.String(),
		ShortTermGoalID:    g.ShortTermGoalID.String(),
		ConcreteGoal:       g.ConcreteGoal,
		UserCommitment:     g.UserCommitment,
		SupportActions:     g.SupportActions,
		ServiceType:        string(g.ServiceType),
		IsFacilityInDeemed: g.IsFacilityInDeemed,
		IsWorkPreparation:  g.IsWorkPreparation,
	}
}

type ConferenceResponse struct {
	ID                 string    `json:"id"`
	PlanID             string    `json:"plan_id"`
	ConferenceDate     string    `json:"conference_date"`
	Minutes            string    `json:"minutes"`
	UserParticipated   bool      `json:"user_participated"`
	AbsenceReason      string    `json:"absence_reason,omitempty"`
	DigitalDeclaration bool      `json:"digital_declaration"`
	MonitoringSummary  string    `json:"monitoring_summary,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func FromConference(c models.ConferenceLog) ConferenceResponse {
	return ConferenceResponse{
		ID:                 c.ID.String(),
		PlanID:             c.PlanID.String(),
		ConferenceDate:     c.ConferenceDate.Format(dateLayout),
		Minutes:            c.Minutes,
		UserParticipated:   c.UserParticipated,
		AbsenceReason:      c.AbsenceReason,
		DigitalDeclaration: c.DigitalDeclaration,
		MonitoringSummary:  c.MonitoringSummary,
		CreatedAt:          c.CreatedAt,
	}
}

type ConsentResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DocumentType string    `json:"document_type"`
	DocumentID   string    `json:"document_id"`
	ConsentedAt  time.Time `json:"consented_at"`
}

func FromConsent(r consent.Record) ConsentResponse {
	return ConsentResponse{
		ID:           r.ID.String(),
		UserID:       r.UserID.String(),
		DocumentType: string(r.DocumentType),
		DocumentID:   r.DocumentID,
		ConsentedAt:  r.ConsentedAt,
	}
}

type GoalTreeResponse struct {
	LongTerm   []LongTermGoalResponse   `json:"long_term"`
	ShortTerm  []ShortTermGoalResponse  `json:"short_term"`
	Individual []IndividualGoalResponse `json:"individual"`
}

type BundleResponse struct {
	Plan        PlanResponse         `json:"plan"`
	Goals       GoalTreeResponse     `json:"goals"`
	Conferences []ConferenceResponse `json:"conferences"`
	Consents    []ConsentResponse    `json:"consents"`
}

func FromBundle(b service.Bundle) BundleResponse {
	resp := BundleResponse{
		Plan: FromPlan(b.Plan),
		Goals: GoalTreeResponse{
			LongTerm:   make([]LongTermGoalResponse, 0, len(b.Goals.LongTerm)),
			ShortTerm:  make([]ShortTermGoalResponse, 0, len(b.Goals.ShortTerm)),
			Individual: make([]IndividualGoalResponse, 0, len(b.Goals.Individual)),
		},
		Conferences: make([]ConferenceResponse, 0, len(b.Conferences)),
		Consents:    make([]ConsentResponse, 0, len(b.Consents)),
	}
	for _, g := range b.Goals.LongTerm {
		resp.Goals.LongTerm = append(resp.Goals.LongTerm, FromLongTermGoal(g))
	}
	for _, g := range b.Goals.ShortTerm {
		resp.Goals.ShortTerm = append(resp.Goals.ShortTerm, FromShortTermGoal(g))
	}
	for _, g := range b.Goals.Individual {
		resp.Goals.Individual = append(resp.Goals.Individual, FromIndividualGoal(g))
	}
	for _, c := range b.Conferences {
		resp.Conferences = append(resp.Conferences, FromConference(c))
	}
	for _, c := range b.Consents {
		resp.Consents = append(resp.Consents, FromConsent(c))
	}
	return resp
}
