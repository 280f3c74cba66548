package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"carelink/internal/attendance"
	"carelink/internal/consent"
	"carelink/internal/master"
	"carelink/internal/plan/models"
	conferenceStore "carelink/internal/plan/store/conference"
	gapStore "carelink/internal/plan/store/gap"
	goalStore "carelink/internal/plan/store/goal"
	planStore "carelink/internal/plan/store/plan"
	"carelink/internal/platform/metrics"
	"carelink/internal/policy"
	"carelink/internal/user"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/tx"
)

// fixedNow anchors every test; plan period arithmetic is date math, so a
// moving clock would make failures unreproducible.
var fixedNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

type LifecycleSuite struct {
	suite.Suite
	ctx context.Context

	plans        *planStore.InMemoryStore
	goals        *goalStore.InMemoryStore
	conferences  *conferenceStore.InMemoryStore
	gaps         *gapStore.InMemoryStore
	consents     *consent.InMemoryStore
	absences     *attendance.InMemoryStore
	policies     *policy.InMemoryStore
	users        *user.InMemoryStore
	serviceTypes *master.InMemoryStore

	metrics *metrics.Metrics
	service *Service
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()

	s.plans = planStore.NewInMemoryStore()
	s.goals = goalStore.NewInMemoryStore()
	s.conferences = conferenceStore.NewInMemoryStore()
	s.gaps = gapStore.NewInMemoryStore()
	s.consents = consent.NewInMemoryStore()
	s.absences = attendance.NewInMemoryStore()
	s.policies = policy.NewInMemoryStore()
	s.users = user.NewInMemoryStore()
	s.serviceTypes = master.NewInMemoryStore()
	s.metrics = metrics.NewWith(prometheus.NewRegistry())

	s.service = New(Deps{
		Plans:        s.plans,
		Goals:        s.goals,
		Conferences:  s.conferences,
		Gaps:         s.gaps,
		Consents:     s.consents,
		Absences:     s.absences,
		Policies:     s.policies,
		Users:        s.users,
		ServiceTypes: s.serviceTypes,
		Tx:           tx.NewMemoryRunner(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:      s.metrics,
		Now:          func() time.Time { return fixedNow },
	})
}

// seedClient creates a client with master data and a policy, returning the
// IDs a draft needs. serviceStart may be nil to exercise the degraded path.
func (s *LifecycleSuite) seedClient(serviceStart *time.Time, reviewMonths int) (id.UserID, id.PolicyID) {
	userID := id.NewUserID()
	serviceTypeID := id.NewServiceTypeID()
	s.Require().NoError(s.serviceTypes.Save(s.ctx, master.ServiceType{
		ID:                   serviceTypeID,
		Name:                 "就労継続支援B型",
		Code:                 "B-TYPE",
		RequiredReviewMonths: reviewMonths,
	}))
	s.Require().NoError(s.users.Save(s.ctx, user.User{
		ID:               userID,
		Name:             "Test Client",
		ServiceStartDate: serviceStart,
		ServiceTypeID:    serviceTypeID,
		CreatedAt:        fixedNow,
	}))
	policyID := id.NewPolicyID()
	s.Require().NoError(s.policies.Save(s.ctx, policy.HolisticSupportPolicy{
		ID:            policyID,
		UserID:        userID,
		EffectiveDate: fixedNow,
		UserIntention: "自分のペースで働き続けたい",
		SupportPolicy: "週3日の通所から始め、段階的に日数を増やす",
		CreatedAt:     fixedNow,
	}))
	return userID, policyID
}

// seedPlan inserts a plan directly, bypassing CreateDraft, so transition
// tests control every field.
func (s *LifecycleSuite) seedPlan(userID id.UserID, status models.Status, start, end time.Time) models.SupportPlan {
	plan := models.SupportPlan{
		ID:        id.NewPlanID(),
		UserID:    userID,
		Version:   1,
		Status:    status,
		SabikanID: id.NewSupporterID(),
		PolicyID:  id.NewPolicyID(),
		StartDate: start,
		EndDate:   end,
		CreatedAt: fixedNow,
	}
	s.Require().NoError(s.plans.Insert(s.ctx, plan))
	return plan
}

func (s *LifecycleSuite) seedConsent(userID id.UserID, planID id.PlanID) consent.Record {
	record := consent.Record{
		ID:           id.NewConsentID(),
		UserID:       userID,
		DocumentType: consent.DocumentTypeSupportPlan,
		DocumentID:   planID.String(),
		ConsentedAt:  fixedNow,
		Proof:        "signature.png",
	}
	s.Require().NoError(s.consents.Append(s.ctx, record))
	return record
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *LifecycleSuite) TestCreateDraftStartDateDerivation() {
	sabikan := id.NewSupporterID()

	s.Run("first plan anchors on the service start date", func() {
		start := date(2025, 1, 1)
		userID, policyID := s.seedClient(&start, 3)

		plan, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: policyID, SabikanID: sabikan,
		})
		s.Require().NoError(err)
		s.Equal(models.StatusDraft, plan.Status)
		s.Equal(1, plan.Version)
		s.Equal(date(2025, 1, 1), plan.StartDate)
		// 3 statutory months at a flat 30 days each.
		s.Equal(date(2025, 4, 1), plan.EndDate)
	})

	s.Run("renewal starts the day after the latest plan ends", func() {
		start := date(2025, 1, 1)
		userID, policyID := s.seedClient(&start, 3)
		s.seedPlan(userID, models.StatusActive, date(2025, 1, 1), date(2025, 4, 1))

		plan, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: policyID, SabikanID: sabikan,
		})
		s.Require().NoError(err)
		s.Equal(2, plan.Version)
		s.Equal(date(2025, 4, 2), plan.StartDate)
		s.Equal(date(2025, 7, 1), plan.EndDate)
	})

	s.Run("missing service start date degrades to today and is counted", func() {
		userID, policyID := s.seedClient(nil, 3)

		plan, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: policyID, SabikanID: sabikan,
		})
		s.Require().NoError(err)
		s.Equal(date(2025, 6, 15), plan.StartDate)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.DegradedDrafts))
	})

	s.Run("service start date beats today even with a broken service type", func() {
		start := date(2025, 3, 10)
		userID, _ := s.seedClient(&start, 6)
		// Point the client at a nonexistent service type; the review
		// period falls back to the three-month default.
		s.Require().NoError(s.users.Save(s.ctx, user.User{
			ID:               userID,
			Name:             "Test Client",
			ServiceStartDate: &start,
			ServiceTypeID:    id.NewServiceTypeID(),
			CreatedAt:        fixedNow,
		}))
		policyID := id.NewPolicyID()
		s.Require().NoError(s.policies.Save(s.ctx, policy.HolisticSupportPolicy{
			ID: policyID, UserID: userID, EffectiveDate: fixedNow, CreatedAt: fixedNow,
		}))

		plan, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: policyID, SabikanID: sabikan,
		})
		s.Require().NoError(err)
		s.Equal(date(2025, 3, 10), plan.StartDate)
		s.Equal(date(2025, 3, 10).AddDate(0, 0, 90), plan.EndDate)
		s.Equal(float64(0), testutil.ToFloat64(s.metrics.DegradedDrafts))
	})

	s.Run("review period comes from the service type master", func() {
		start := date(2025, 1, 1)
		userID, policyID := s.seedClient(&start, 6)

		plan, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: policyID, SabikanID: sabikan,
		})
		s.Require().NoError(err)
		s.Equal(date(2025, 1, 1).AddDate(0, 0, 180), plan.EndDate)
	})
}

func (s *LifecycleSuite) TestCreateDraftPolicyValidation() {
	sabikan := id.NewSupporterID()
	start := date(2025, 1, 1)

	s.Run("nonexistent policy is rejected", func() {
		userID, _ := s.seedClient(&start, 3)
		_, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: id.NewPolicyID(), SabikanID: sabikan,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidPolicyReference))
	})

	s.Run("policy owned by another client is rejected", func() {
		userID, _ := s.seedClient(&start, 3)
		_, otherPolicy := s.seedClient(&start, 3)
		_, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: userID, PolicyID: otherPolicy, SabikanID: sabikan,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidPolicyReference))
	})

	s.Run("unknown client is rejected", func() {
		userID, policyID := s.seedClient(&start, 3)
		// Repoint the policy at a user that does not exist.
		ghost := id.NewUserID()
		s.Require().NoError(s.policies.Save(s.ctx, policy.HolisticSupportPolicy{
			ID: policyID, UserID: ghost, EffectiveDate: fixedNow, CreatedAt: fixedNow,
		}))
		_, err := s.service.CreateDraft(s.ctx, CreateDraftInput{
			UserID: ghost, PolicyID: policyID, SabikanID: sabikan,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_ = userID
	})
}

func (s *LifecycleSuite) TestGetBundle() {
	start := date(2025, 1, 1)
	userID, _ := s.seedClient(&start, 3)
	plan := s.seedPlan(userID, models.StatusDraft, date(2025, 1, 1), date(2025, 4, 1))

	lt, err := s.service.AddLongTermGoal(s.ctx, plan.ID, LongTermGoalInput{
		Description: "一般就労への移行",
		PeriodStart: plan.StartDate,
		PeriodEnd:   plan.EndDate,
	})
	s.Require().NoError(err)
	st, err := s.service.AddShortTermGoal(s.ctx, plan.ID, lt.ID, ShortTermGoalInput{
		Description:    "週4日の安定通所",
		PeriodStart:    plan.StartDate,
		PeriodEnd:      plan.EndDate,
		NextReviewDate: date(2025, 2, 1),
	})
	s.Require().NoError(err)
	_, err = s.service.AddIndividualGoal(s.ctx, plan.ID, st.ID, IndividualGoalInput{
		ConcreteGoal:   "午前の軽作業を最後まで続ける",
		UserCommitment: "休憩時間を守る",
		SupportActions: "作業を30分単位に区切って提示する",
		ServiceType:    models.GoalServiceGroupTraining,
	})
	s.Require().NoError(err)

	covering := s.seedConsent(userID, plan.ID)
	s.seedConsent(userID, id.NewPlanID()) // consent for another document

	bundle, err := s.service.GetBundle(s.ctx, plan.ID)
	s.Require().NoError(err)
	s.Equal(plan.ID, bundle.Plan.ID)
	s.Len(bundle.Goals.LongTerm, 1)
	s.Len(bundle.Goals.ShortTerm, 1)
	s.Len(bundle.Goals.Individual, 1)
	s.Require().Len(bundle.Consents, 1)
	s.Equal(covering.ID, bundle.Consents[0].ID)
}

func (s *LifecycleSuite) TestGetPlanNotFound() {
	_, err := s.service.GetPlan(s.ctx, id.NewPlanID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
