package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carelink/internal/audit"
	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
)

// GapInput documents a hole between the previous plan and the one being
// finalized.
type GapInput struct {
	ReasonType    models.GapReason
	ReasonDetail  string
	ResponsibleID id.SupporterID
}

// FinalizeInput is the second lock's evidence: the consent record that
// covers the plan, the approver performing the activation, and an optional
// gap justification when coverage is discontinuous.
type FinalizeInput struct {
	ConsentID  id.ConsentID
	ApproverID id.SupporterID
	Gap        *GapInput
}

// Finalize runs the second lock: it verifies consent coverage and moves the
// plan PENDING_CONSENT -> ACTIVE, archiving the previously active plan in
// the same transaction so the client never has two active plans.
//
// Before activation the plan's start date is checked for continuity with
// the previous plan's end date. A gap must be documented (or already have
// been documented) before the plan can go live; a retroactive overlap is
// rejected outright.
func (s *Service) Finalize(ctx context.Context, planID id.PlanID, input FinalizeInput) (models.SupportPlan, error) {
	// Resolve the owning client first so the transaction serializes per
	// client, which is what the exactly-one-active invariant needs.
	peek, err := s.GetPlan(ctx, planID)
	if err != nil {
		return models.SupportPlan{}, err
	}

	var finalized models.SupportPlan
	err = s.tx.RunInTx(ctx, "user:"+peek.UserID.String(), func(ctx context.Context) error {
		plan, err := s.plans.GetForUpdate(ctx, planID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "plan not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load plan")
		}
		if plan.Status != models.StatusPendingConsent {
			return dErrors.New(dErrors.CodeInvalidStateTransition,
				fmt.Sprintf("finalization requires a %s plan, plan is %s", models.StatusPendingConsent, plan.Status))
		}

		record, err := s.consents.Get(ctx, input.ConsentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "consent record not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load consent record")
		}
		if !record.Covers(plan.ID) {
			return dErrors.New(dErrors.CodeConsentMismatch,
				"consent record does not cover this plan document")
		}

		if err := s.ensureContinuity(ctx, plan, input); err != nil {
			return err
		}

		previous, err := s.plans.FindActiveByUser(ctx, plan.UserID)
		switch {
		case err == nil && previous.ID != plan.ID:
			previous.Status = models.StatusArchived
			if err := s.plans.Update(ctx, previous); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "archive previous plan")
			}
			s.metrics.PlansArchived.Inc()
			s.emit(audit.Event{
				UserID:  plan.UserID,
				Actor:   input.ApproverID.String(),
				Subject: previous.ID.String(),
				Action:  audit.ActionPlanArchived,
			})
		case err != nil && !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "find active plan")
		}

		plan.Status = models.StatusActive
		consentID := input.ConsentID
		plan.ConsentID = &consentID
		consentedAt := record.ConsentedAt
		plan.ConsentedAt = &consentedAt
		if err := s.plans.Update(ctx, plan); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "update plan")
		}

		s.metrics.PlansActivated.Inc()
		s.emit(audit.Event{
			UserID:  plan.UserID,
			Actor:   input.ApproverID.String(),
			Subject: plan.ID.String(),
			Action:  audit.ActionPlanActivated,
		})
		finalized = plan
		return nil
	})
	if err != nil {
		return models.SupportPlan{}, err
	}

	s.invalidateGuardrail(ctx, finalized.UserID)
	return finalized, nil
}

// ensureContinuity compares the plan's start date with the day after the
// previous plan's end. Equal is seamless; later requires a documented gap;
// earlier means overlapping coverage and is always rejected.
func (s *Service) ensureContinuity(ctx context.Context, plan models.SupportPlan, input FinalizeInput) error {
	previous, err := s.plans.FindPreviousByEnd(ctx, plan.UserID, plan.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "find previous plan")
	}

	expected := previous.EndDate.AddDate(0, 0, 1)
	switch {
	case plan.StartDate.Equal(expected):
		return nil
	case plan.StartDate.Before(expected):
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("plan start date %s overlaps the previous plan; earliest continuous start is %s",
				formatDate(plan.StartDate), formatDate(expected)))
	}

	if _, err := s.gaps.FindByPreviousPlan(ctx, previous.ID); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "find gap log")
	}

	if input.Gap == nil {
		return dErrors.New(dErrors.CodeContinuityGapRequired,
			fmt.Sprintf("coverage gap since %s must be documented before finalization", formatDate(expected)))
	}
	if !input.Gap.ReasonType.Valid() {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("unknown gap reason %q", input.Gap.ReasonType))
	}
	if strings.TrimSpace(input.Gap.ReasonDetail) == "" {
		return dErrors.New(dErrors.CodeValidation, "gap reason detail is required")
	}
	responsible := input.Gap.ResponsibleID
	if responsible.IsZero() {
		responsible = input.ApproverID
	}
	if responsible.IsZero() {
		return dErrors.New(dErrors.CodeFinalizationPending,
			"a responsible approver is required to document the coverage gap")
	}

	log := models.ContinuityGapLog{
		ID:             id.NewGapLogID(),
		PreviousPlanID: previous.ID,
		ReasonType:     input.Gap.ReasonType,
		ReasonDetail:   input.Gap.ReasonDetail,
		GapStart:       expected,
		GapEnd:         plan.StartDate.AddDate(0, 0, -1),
		ResponsibleID:  responsible,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.gaps.Append(ctx, log); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "append gap log")
	}
	s.emit(audit.Event{
		UserID:  plan.UserID,
		Actor:   responsible.String(),
		Subject: plan.ID.String(),
		Action:  audit.ActionGapLogged,
		Reason:  string(input.Gap.ReasonType),
	})
	return nil
}
