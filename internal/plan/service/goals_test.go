package service

import (
	"carelink/internal/plan/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

func (s *LifecycleSuite) longTermInput() LongTermGoalInput {
	return LongTermGoalInput{
		Description: "生活リズムを整え一般就労を目指す",
		PeriodStart: date(2025, 1, 1),
		PeriodEnd:   date(2025, 4, 1),
	}
}

func (s *LifecycleSuite) shortTermInput() ShortTermGoalInput {
	return ShortTermGoalInput{
		Description:    "週4日の安定通所",
		PeriodStart:    date(2025, 1, 1),
		PeriodEnd:      date(2025, 2, 28),
		NextReviewDate: date(2025, 2, 1),
	}
}

func (s *LifecycleSuite) individualInput() IndividualGoalInput {
	return IndividualGoalInput{
		ConcreteGoal:   "午前の軽作業を最後まで続ける",
		UserCommitment: "開始前に体調を職員に伝える",
		SupportActions: "作業を30分単位に区切って提示する",
		ServiceType:    models.GoalServiceGroupTraining,
	}
}

func (s *LifecycleSuite) TestGoalEditingStates() {
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)

	s.Run("draft plans accept goals", func() {
		plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))
		goal, err := s.service.AddLongTermGoal(s.ctx, plan.ID, s.longTermInput())
		s.Require().NoError(err)
		s.Equal(plan.ID, goal.PlanID)
	})

	s.Run("active plans accept mid-period adjustments", func() {
		plan := s.seedPlan(userID, models.StatusActive, date(2025, 1, 1), date(2025, 4, 1))
		_, err := s.service.AddLongTermGoal(s.ctx, plan.ID, s.longTermInput())
		s.NoError(err)
	})

	s.Run("pending-consent plans are frozen", func() {
		plan := s.seedPlan(userID, models.StatusPendingConsent, date(2025, 1, 1), date(2025, 4, 1))
		_, err := s.service.AddLongTermGoal(s.ctx, plan.ID, s.longTermInput())
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})

	s.Run("archived plans are history", func() {
		plan := s.seedPlan(userID, models.StatusArchived, date(2025, 1, 1), date(2025, 4, 1))
		_, err := s.service.AddLongTermGoal(s.ctx, plan.ID, s.longTermInput())
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})
}

func (s *LifecycleSuite) TestGoalHierarchy() {
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)
	plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))

	lt, err := s.service.AddLongTermGoal(s.ctx, plan.ID, s.longTermInput())
	s.Require().NoError(err)
	st, err := s.service.AddShortTermGoal(s.ctx, plan.ID, lt.ID, s.shortTermInput())
	s.Require().NoError(err)

	s.Run("individual goal resolves back to its plan", func() {
		goal, err := s.service.AddIndividualGoal(s.ctx, plan.ID, st.ID, s.individualInput())
		s.Require().NoError(err)

		owner, err := s.goals.OwningPlanID(s.ctx, goal.ID)
		s.Require().NoError(err)
		s.Equal(plan.ID, owner)
	})

	s.Run("short-term goal must belong to the path plan", func() {
		other := s.seedPlan(userID, models.StatusDraft, date(2025, 4, 2), date(2025, 7, 1))
		_, err := s.service.AddShortTermGoal(s.ctx, other.ID, lt.ID, s.shortTermInput())
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("individual goal must belong to the path plan", func() {
		other := s.seedPlan(userID, models.StatusDraft, date(2025, 7, 2), date(2025, 10, 1))
		_, err := s.service.AddIndividualGoal(s.ctx, other.ID, st.ID, s.individualInput())
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown parent is not found", func() {
		_, err := s.service.AddShortTermGoal(s.ctx, plan.ID, id.NewLongTermGoalID(), s.shortTermInput())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LifecycleSuite) TestGoalValidation() {
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)
	plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))

	lt, err := s.service.AddLongTermGoal(s.ctx, plan.ID, s.longTermInput())
	s.Require().NoError(err)
	st, err := s.service.AddShortTermGoal(s.ctx, plan.ID, lt.ID, s.shortTermInput())
	s.Require().NoError(err)

	s.Run("descriptions must not be blank", func() {
		input := s.longTermInput()
		input.Description = "  "
		_, err := s.service.AddLongTermGoal(s.ctx, plan.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("individual goal needs a concrete goal", func() {
		input := s.individualInput()
		input.ConcreteGoal = ""
		_, err := s.service.AddIndividualGoal(s.ctx, plan.ID, st.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("individual goal needs a known service type", func() {
		input := s.individualInput()
		input.ServiceType = "DAY_TRIP"
		_, err := s.service.AddIndividualGoal(s.ctx, plan.ID, st.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
