package attendance

import (
	"time"

	id "carelink/pkg/domain"
)

// ResponseMethod labels how staff reached out after an absence.
type ResponseMethod string

const (
	MethodPhoneCall     ResponseMethod = "PHONE_CALL"
	MethodFamilyContact ResponseMethod = "FAMILY_CONTACT"
	MethodHomeVisit     ResponseMethod = "HOME_VISIT"
)

// AbsenceResponseLog documents the outreach performed when a client was
// absent. Lock 1 requires at least one of these linked to the plan before an
// absentee conference can be approved; asserting outreach at approval time
// is not enough.
type AbsenceResponseLog struct {
	ID           id.AbsenceLogID
	UserID       id.UserID
	AbsenceDate  time.Time
	LinkedPlanID id.PlanID
	SupporterID  id.SupporterID
	Method       ResponseMethod
	Summary      string
	RecordedAt   time.Time
}
