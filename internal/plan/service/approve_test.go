package service

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"carelink/internal/attendance"
	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

func (s *LifecycleSuite) participatedConference() ConferenceInput {
	return ConferenceInput{
		Date:             date(2025, 6, 10),
		Minutes:          "本人同席のもと計画内容を確認した。",
		UserParticipated: true,
	}
}

func (s *LifecycleSuite) absentConference() ConferenceInput {
	return ConferenceInput{
		Date:               date(2025, 6, 10),
		Minutes:            "本人欠席のため電話での意向確認結果を共有した。",
		UserParticipated:   false,
		AbsenceReason:      "体調不良",
		DigitalDeclaration: true,
		MonitoringSummary:  "直近1ヶ月の通所状況と作業遂行の様子を確認済み",
	}
}

func (s *LifecycleSuite) linkAbsenceEvidence(userID id.UserID, planID id.PlanID) {
	s.Require().NoError(s.absences.Append(s.ctx, attendance.AbsenceResponseLog{
		ID:           id.NewAbsenceLogID(),
		UserID:       userID,
		AbsenceDate:  date(2025, 6, 9),
		LinkedPlanID: planID,
		SupporterID:  id.NewSupporterID(),
		Method:       attendance.MethodPhoneCall,
		Summary:      "電話で体調を確認、来週の面談を約束",
		RecordedAt:   fixedNow,
	}))
}

// requireStillDraft asserts the rejection left no trace: the plan did not
// move and no conference log was written.
func (s *LifecycleSuite) requireStillDraft(planID id.PlanID) {
	plan, err := s.plans.Get(s.ctx, planID)
	s.Require().NoError(err)
	s.Equal(models.StatusDraft, plan.Status)
	s.Nil(plan.SabikanApprovedAt)
	logs, err := s.conferences.ListByPlan(s.ctx, planID)
	s.Require().NoError(err)
	s.Empty(logs)
}

func (s *LifecycleSuite) TestApproveConference() {
	sabikan := id.NewSupporterID()
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)

	s.Run("participated conference moves the plan to pending consent", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))

		log, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, s.participatedConference())
		s.Require().NoError(err)
		s.Equal(plan.ID, log.PlanID)
		s.True(log.UserParticipated)

		updated, err := s.plans.Get(s.ctx, plan.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingConsent, updated.Status)
		s.Equal(sabikan, updated.SabikanID)
		s.Require().NotNil(updated.SabikanApprovedAt)
		s.Equal(fixedNow, *updated.SabikanApprovedAt)
	})

	s.Run("only draft plans can be approved", func() {
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))
		_, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, s.participatedConference())
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})

	s.Run("unknown plan is not found", func() {
		_, err := s.service.ApproveConference(s.ctx, id.NewPlanID(), sabikan, s.participatedConference())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LifecycleSuite) TestApproveConferenceAbsenceEvidence() {
	sabikan := id.NewSupporterID()
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)

	s.Run("full evidence package approves an absentee conference", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		s.linkAbsenceEvidence(userID, plan.ID)

		log, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, s.absentConference())
		s.Require().NoError(err)
		s.False(log.UserParticipated)
		s.True(log.DigitalDeclaration)

		updated, err := s.plans.Get(s.ctx, plan.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingConsent, updated.Status)
	})

	s.Run("missing digital declaration rejects", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		s.linkAbsenceEvidence(userID, plan.ID)
		input := s.absentConference()
		input.DigitalDeclaration = false

		_, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, input)
		s.True(dErrors.HasCode(err, dErrors.CodeMissingAbsenceEvidence))
		s.requireStillDraft(plan.ID)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ApprovalsRejected.WithLabelValues("digital_declaration")))
	})

	s.Run("monitoring summary must exceed ten runes", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		s.linkAbsenceEvidence(userID, plan.ID)
		input := s.absentConference()
		input.MonitoringSummary = "あいうえおかきくけこ" // exactly 10 runes

		_, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, input)
		s.True(dErrors.HasCode(err, dErrors.CodeMissingAbsenceEvidence))
		s.requireStillDraft(plan.ID)
	})

	s.Run("whitespace does not pad the monitoring summary", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		s.linkAbsenceEvidence(userID, plan.ID)
		input := s.absentConference()
		input.MonitoringSummary = "   短い要約です   "

		_, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, input)
		s.True(dErrors.HasCode(err, dErrors.CodeMissingAbsenceEvidence))
		s.requireStillDraft(plan.ID)
	})

	s.Run("at least one linked absence response log is required", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		// Evidence linked to a different plan does not count.
		s.linkAbsenceEvidence(userID, id.NewPlanID())

		_, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, s.absentConference())
		s.True(dErrors.HasCode(err, dErrors.CodeMissingAbsenceEvidence))
		s.requireStillDraft(plan.ID)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ApprovalsRejected.WithLabelValues("absence_response_log")))
	})

	s.Run("evidence is not checked when the client participated", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		input := s.participatedConference()

		_, err := s.service.ApproveConference(s.ctx, plan.ID, sabikan, input)
		s.NoError(err)
	})
}
