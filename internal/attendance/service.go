package attendance

import (
	"context"
	"strings"
	"time"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// Service records absence responses. Summaries are mandatory: an outreach
// log without content is no evidence at all.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

type RecordInput struct {
	UserID       id.UserID
	AbsenceDate  time.Time
	LinkedPlanID id.PlanID
	SupporterID  id.SupporterID
	Method       ResponseMethod
	Summary      string
}

func (s *Service) Record(ctx context.Context, in RecordInput) (AbsenceResponseLog, error) {
	switch in.Method {
	case MethodPhoneCall, MethodFamilyContact, MethodHomeVisit:
	default:
		return AbsenceResponseLog{}, dErrors.New(dErrors.CodeBadRequest, "unknown response method: "+string(in.Method))
	}
	if strings.TrimSpace(in.Summary) == "" {
		return AbsenceResponseLog{}, dErrors.New(dErrors.CodeValidation, "response summary is required")
	}

	log := AbsenceResponseLog{
		ID:           id.NewAbsenceLogID(),
		UserID:       in.UserID,
		AbsenceDate:  in.AbsenceDate,
		LinkedPlanID: in.LinkedPlanID,
		SupporterID:  in.SupporterID,
		Method:       in.Method,
		Summary:      in.Summary,
		RecordedAt:   s.now().UTC(),
	}
	if err := s.store.Append(ctx, log); err != nil {
		return AbsenceResponseLog{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record absence response")
	}
	return log, nil
}
