package service

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"carelink/internal/consent"
	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

func (s *LifecycleSuite) TestFinalize() {
	approver := id.NewSupporterID()
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)

	s.Run("consent activates the plan", func() {
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))
		record := s.seedConsent(userID, plan.ID)

		finalized, err := s.service.Finalize(s.ctx, plan.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.Require().NoError(err)
		s.Equal(models.StatusActive, finalized.Status)
		s.Require().NotNil(finalized.ConsentID)
		s.Equal(record.ID, *finalized.ConsentID)
		s.Require().NotNil(finalized.ConsentedAt)
		s.Equal(record.ConsentedAt, *finalized.ConsentedAt)
	})

	s.Run("only pending-consent plans can be finalized", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2026, 1, 1), date(2026, 4, 1))
		record := s.seedConsent(userID, plan.ID)

		_, err := s.service.Finalize(s.ctx, plan.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})

	s.Run("unknown consent record is not found", func() {
		userID, _ := s.seedClient(&start, 3)
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))

		_, err := s.service.Finalize(s.ctx, plan.ID, FinalizeInput{
			ConsentID: id.NewConsentID(), ApproverID: approver,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LifecycleSuite) TestFinalizeConsentMismatch() {
	approver := id.NewSupporterID()
	start := date(2025, 1, 1)

	s.Run("consent for another document is rejected", func() {
		userID, _ := s.seedClient(&start, 3)
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))
		record := s.seedConsent(userID, id.NewPlanID())

		_, err := s.service.Finalize(s.ctx, plan.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConsentMismatch))

		unchanged, err := s.plans.Get(s.ctx, plan.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingConsent, unchanged.Status)
		s.Nil(unchanged.ConsentID)
	})

	s.Run("monitoring-report consent cannot activate a plan", func() {
		userID, _ := s.seedClient(&start, 3)
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))
		record := consent.Record{
			ID:           id.NewConsentID(),
			UserID:       userID,
			DocumentType: consent.DocumentTypeMonitoringReport,
			DocumentID:   plan.ID.String(),
			ConsentedAt:  fixedNow,
		}
		s.Require().NoError(s.consents.Append(s.ctx, record))

		_, err := s.service.Finalize(s.ctx, plan.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConsentMismatch))
	})
}

func (s *LifecycleSuite) TestFinalizeArchivesPreviousActive() {
	approver := id.NewSupporterID()
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)

	previous := s.seedPlan(userID, models.StatusActive, date(2025, 1, 1), date(2025, 4, 1))
	next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 4, 2), date(2025, 7, 1))
	record := s.seedConsent(userID, next.ID)

	finalized, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
		ConsentID: record.ID, ApproverID: approver,
	})
	s.Require().NoError(err)
	s.Equal(models.StatusActive, finalized.Status)

	archived, err := s.plans.Get(s.ctx, previous.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusArchived, archived.Status)

	active, err := s.plans.FindActiveByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(next.ID, active.ID)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.PlansArchived))
}

func (s *LifecycleSuite) TestFinalizeContinuity() {
	approver := id.NewSupporterID()
	start := date(2025, 1, 1)

	gapInput := func() *GapInput {
		return &GapInput{
			ReasonType:   models.GapReasonHospitalization,
			ReasonDetail: "4月中の入院のため通所を中断",
		}
	}

	s.Run("seamless succession needs no gap", func() {
		userID, _ := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 4, 2), date(2025, 7, 1))
		record := s.seedConsent(userID, next.ID)

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.NoError(err)
	})

	s.Run("an undocumented gap blocks finalization", func() {
		userID, _ := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 5, 1), date(2025, 7, 31))
		record := s.seedConsent(userID, next.ID)

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeContinuityGapRequired))

		unchanged, err := s.plans.Get(s.ctx, next.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingConsent, unchanged.Status)
	})

	s.Run("a documented gap activates and records the hole", func() {
		userID, _ := s.seedClient(&start, 3)
		previous := s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 5, 1), date(2025, 7, 31))
		record := s.seedConsent(userID, next.ID)

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver, Gap: gapInput(),
		})
		s.Require().NoError(err)

		log, err := s.gaps.FindByPreviousPlan(s.ctx, previous.ID)
		s.Require().NoError(err)
		s.Equal(models.GapReasonHospitalization, log.ReasonType)
		s.Equal(date(2025, 4, 2), log.GapStart)
		s.Equal(date(2025, 4, 30), log.GapEnd)
		s.Equal(approver, log.ResponsibleID)
	})

	s.Run("an already documented gap passes without new input", func() {
		userID, _ := s.seedClient(&start, 3)
		previous := s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 5, 1), date(2025, 7, 31))
		record := s.seedConsent(userID, next.ID)
		s.Require().NoError(s.gaps.Append(s.ctx, models.ContinuityGapLog{
			ID:             id.NewGapLogID(),
			PreviousPlanID: previous.ID,
			ReasonType:     models.GapReasonUserRequest,
			ReasonDetail:   "本人の希望による休止",
			GapStart:       date(2025, 4, 2),
			GapEnd:         date(2025, 4, 30),
			ResponsibleID:  approver,
			CreatedAt:      fixedNow,
		}))

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.NoError(err)
	})

	s.Run("overlapping coverage is always rejected", func() {
		userID, _ := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 3, 15), date(2025, 6, 14))
		record := s.seedConsent(userID, next.ID)

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver, Gap: gapInput(),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("gap reason must be a known type", func() {
		userID, _ := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 5, 1), date(2025, 7, 31))
		record := s.seedConsent(userID, next.ID)
		gap := gapInput()
		gap.ReasonType = "VACATION"

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver, Gap: gap,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("gap detail must not be blank", func() {
		userID, _ := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 5, 1), date(2025, 7, 31))
		record := s.seedConsent(userID, next.ID)
		gap := gapInput()
		gap.ReasonDetail = "   "

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver, Gap: gap,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("gap documentation needs a responsible approver", func() {
		userID, _ := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		next := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 5, 1), date(2025, 7, 31))
		record := s.seedConsent(userID, next.ID)

		_, err := s.service.Finalize(s.ctx, next.ID, FinalizeInput{
			ConsentID: record.ID, Gap: gapInput(),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeFinalizationPending))
	})

	s.Run("first plan ever has nothing to be continuous with", func() {
		userID, _ := s.seedClient(&start, 3)
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))
		record := s.seedConsent(userID, plan.ID)

		_, err := s.service.Finalize(s.ctx, plan.ID, FinalizeInput{
			ConsentID: record.ID, ApproverID: approver,
		})
		s.NoError(err)
	})
}
