package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"carelink/internal/audit"
	"carelink/internal/plan/models"
	"carelink/internal/platform/metrics"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/platform/tx"
)

// defaultReviewMonths applies when a client's service type cannot be
// resolved. Three months is the shortest statutory review period, so the
// fallback never stretches a plan past its legal horizon.
const defaultReviewMonths = 3

// daysPerMonth converts the statutory review period to a plan duration.
// Calendar-month arithmetic would shift the end day by month length; the
// flat 30-day month keeps renewal windows predictable for billing.
const daysPerMonth = 30

// Deps wires the lifecycle engine. Everything is an interface so tests run
// on the in-memory stores with a fixed clock.
type Deps struct {
	Plans        PlanStore
	Goals        GoalStore
	Conferences  ConferenceStore
	Gaps         GapStore
	Consents     ConsentReader
	Absences     AbsenceEvidence
	Policies     PolicyReader
	Users        UserReader
	ServiceTypes ServiceTypeReader
	Tx           tx.Runner
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Audit        *audit.Publisher
	Now          func() time.Time
}

// Service owns every support-plan lifecycle transition. Plans only ever
// move DRAFT -> PENDING_CONSENT -> ACTIVE -> ARCHIVED, and only through the
// methods here.
type Service struct {
	plans        PlanStore
	goals        GoalStore
	conferences  ConferenceStore
	gaps         GapStore
	consents     ConsentReader
	absences     AbsenceEvidence
	policies     PolicyReader
	users        UserReader
	serviceTypes ServiceTypeReader
	tx           tx.Runner
	logger       *slog.Logger
	metrics      *metrics.Metrics
	audit        *audit.Publisher
	invalidator  CacheInvalidator
	now          func() time.Time
}

func New(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		plans:        deps.Plans,
		goals:        deps.Goals,
		conferences:  deps.Conferences,
		gaps:         deps.Gaps,
		consents:     deps.Consents,
		absences:     deps.Absences,
		policies:     deps.Policies,
		users:        deps.Users,
		serviceTypes: deps.ServiceTypes,
		tx:           deps.Tx,
		logger:       logger,
		metrics:      deps.Metrics,
		audit:        deps.Audit,
		now:          now,
	}
}

// SetCacheInvalidator attaches the guardrail cache hook. Optional; wired
// after construction because the guardrail depends on the plan stores.
func (s *Service) SetCacheInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

// CreateDraftInput names the actors and the policy anchor for a new draft.
type CreateDraftInput struct {
	UserID    id.UserID
	PolicyID  id.PolicyID
	SabikanID id.SupporterID
}

// CreateDraft creates a new DRAFT plan with a derived period.
//
// The start date comes from the first source that exists: the day after the
// client's latest plan ends, then the client's contractual service start
// date, then today. The last fallback means client master data is broken;
// it is logged loudly and counted, but the draft still goes through so
// on-site work is never blocked.
func (s *Service) CreateDraft(ctx context.Context, input CreateDraftInput) (models.SupportPlan, error) {
	var created models.SupportPlan
	err := s.tx.RunInTx(ctx, "user:"+input.UserID.String(), func(ctx context.Context) error {
		pol, err := s.policies.Get(ctx, input.PolicyID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeInvalidPolicyReference, "referenced support policy does not exist")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load support policy")
		}
		if pol.UserID != input.UserID {
			return dErrors.New(dErrors.CodeInvalidPolicyReference, "support policy belongs to a different client")
		}

		usr, err := s.users.Get(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "client not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load client")
		}

		version := 1
		var start time.Time
		latest, err := s.plans.FindLatestByUser(ctx, input.UserID)
		switch {
		case err == nil:
			start = latest.EndDate.AddDate(0, 0, 1)
			version = latest.Version + 1
		case errors.Is(err, sentinel.ErrNotFound):
			if usr.ServiceStartDate != nil {
				start = dateOnly(*usr.ServiceStartDate)
			} else {
				start = dateOnly(s.now().UTC())
				s.logger.ErrorContext(ctx, "plan start date fell back to today; client has no prior plan and no service start date",
					"user_id", input.UserID.String(),
				)
				s.metrics.DegradedDrafts.Inc()
				s.emit(audit.Event{
					UserID: input.UserID,
					Actor:  input.SabikanID.String(),
					Action: audit.ActionDraftDegraded,
					Reason: "no prior plan and no service start date",
				})
			}
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "find latest plan")
		}

		months := defaultReviewMonths
		st, err := s.serviceTypes.Get(ctx, usr.ServiceTypeID)
		switch {
		case err == nil:
			months = st.RequiredReviewMonths
		case errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "service type not found; using default review period",
				"user_id", input.UserID.String(),
				"service_type_id", usr.ServiceTypeID.String(),
				"default_months", defaultReviewMonths,
			)
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "load service type")
		}

		plan := models.SupportPlan{
			ID:        id.NewPlanID(),
			UserID:    input.UserID,
			Version:   version,
			Status:    models.StatusDraft,
			SabikanID: input.SabikanID,
			PolicyID:  input.PolicyID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, daysPerMonth*months),
			CreatedAt: s.now().UTC(),
		}
		if err := s.plans.Insert(ctx, plan); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert plan")
		}

		s.metrics.PlansDrafted.Inc()
		s.emit(audit.Event{
			UserID:  plan.UserID,
			Actor:   input.SabikanID.String(),
			Subject: plan.ID.String(),
			Action:  audit.ActionDraftCreated,
		})
		created = plan
		return nil
	})
	if err != nil {
		return models.SupportPlan{}, err
	}
	return created, nil
}

// GetPlan loads a single plan.
func (s *Service) GetPlan(ctx context.Context, planID id.PlanID) (models.SupportPlan, error) {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.SupportPlan{}, dErrors.New(dErrors.CodeNotFound, "plan not found")
		}
		return models.SupportPlan{}, dErrors.Wrap(err, dErrors.CodeInternal, "load plan")
	}
	return plan, nil
}

func (s *Service) emit(event audit.Event) {
	if s.audit != nil {
		s.audit.Emit(event)
	}
}

func (s *Service) invalidateGuardrail(ctx context.Context, userID id.UserID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate guardrail cache",
			"user_id", userID.String(),
			"error", err,
		)
	}
}

// dateOnly truncates to UTC midnight; plan dates have day precision.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
