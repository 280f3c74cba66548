package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"carelink/internal/audit"
	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
)

// minMonitoringSummaryLen is the shortest monitoring summary accepted as
// absence evidence. Counted in runes; summaries are usually Japanese.
const minMonitoringSummaryLen = 10

// ConferenceInput is the conference record submitted for approval.
type ConferenceInput struct {
	Date             time.Time
	Minutes          string
	UserParticipated bool

	AbsenceReason      string
	DigitalDeclaration bool
	MonitoringSummary  string
}

// ApproveConference runs the first lock: it records the support conference
// and moves the plan DRAFT -> PENDING_CONSENT.
//
// When the client did not participate, approval demands the full absence
// evidence package: the approver's digital declaration, a substantive
// monitoring summary, and at least one absence response log linked to the
// plan. Any missing piece rejects the whole approval; the plan stays DRAFT
// and no conference log is written.
func (s *Service) ApproveConference(ctx context.Context, planID id.PlanID, sabikanID id.SupporterID, input ConferenceInput) (models.ConferenceLog, error) {
	var created models.ConferenceLog
	err := s.tx.RunInTx(ctx, "plan:"+planID.String(), func(ctx context.Context) error {
		plan, err := s.plans.GetForUpdate(ctx, planID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "plan not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load plan")
		}
		if plan.Status != models.StatusDraft {
			s.metrics.IncApprovalRejected("invalid_state")
			return dErrors.New(dErrors.CodeInvalidStateTransition,
				fmt.Sprintf("conference approval requires a %s plan, plan is %s", models.StatusDraft, plan.Status))
		}

		if !input.UserParticipated {
			if err := s.checkAbsenceEvidence(ctx, plan, sabikanID, input); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		log := models.ConferenceLog{
			ID:                 id.NewConferenceID(),
			PlanID:             plan.ID,
			ConferenceDate:     dateOnly(input.Date),
			Minutes:            input.Minutes,
			UserParticipated:   input.UserParticipated,
			AbsenceReason:      input.AbsenceReason,
			DigitalDeclaration: input.DigitalDeclaration,
			MonitoringSummary:  input.MonitoringSummary,
			CreatedAt:          now,
		}
		if err := s.conferences.Append(ctx, log); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "append conference log")
		}

		plan.Status = models.StatusPendingConsent
		plan.SabikanID = sabikanID
		approvedAt := now
		plan.SabikanApprovedAt = &approvedAt
		if err := s.plans.Update(ctx, plan); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "update plan")
		}

		s.emit(audit.Event{
			UserID:  plan.UserID,
			Actor:   sabikanID.String(),
			Subject: plan.ID.String(),
			Action:  audit.ActionConferenceApproved,
		})
		created = log
		return nil
	})
	if err != nil {
		return models.ConferenceLog{}, err
	}
	return created, nil
}

// checkAbsenceEvidence enforces the three-part guardrail for conferences
// held without the client.
func (s *Service) checkAbsenceEvidence(ctx context.Context, plan models.SupportPlan, sabikanID id.SupporterID, input ConferenceInput) error {
	if !input.DigitalDeclaration {
		return s.rejectApproval(ctx, plan, sabikanID, "digital_declaration",
			"a digital declaration of personal engagement is required when the client is absent")
	}
	if utf8.RuneCountInString(strings.TrimSpace(input.MonitoringSummary)) <= minMonitoringSummaryLen {
		return s.rejectApproval(ctx, plan, sabikanID, "monitoring_summary",
			"a substantive monitoring summary is required when the client is absent")
	}
	count, err := s.absences.CountLinkedEvidence(ctx, plan.UserID, plan.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "count absence evidence")
	}
	if count == 0 {
		return s.rejectApproval(ctx, plan, sabikanID, "absence_response_log",
			"at least one absence response log linked to this plan is required when the client is absent")
	}
	return nil
}

func (s *Service) rejectApproval(ctx context.Context, plan models.SupportPlan, sabikanID id.SupporterID, reason, message string) error {
	s.metrics.IncApprovalRejected(reason)
	s.emit(audit.Event{
		UserID:  plan.UserID,
		Actor:   sabikanID.String(),
		Subject: plan.ID.String(),
		Action:  audit.ActionApprovalRejected,
		Reason:  reason,
	})
	s.logger.InfoContext(ctx, "conference approval rejected",
		"plan_id", plan.ID.String(),
		"reason", reason,
	)
	return dErrors.New(dErrors.CodeMissingAbsenceEvidence, message)
}
