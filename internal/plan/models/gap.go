package models

import (
	"time"

	id "carelink/pkg/domain"
)

// GapReason classifies why plan coverage was interrupted.
type GapReason string

const (
	GapReasonHospitalization GapReason = "HOSPITALIZATION"
	GapReasonUserRequest     GapReason = "USER_REQUEST"
	GapReasonFacilityClosure GapReason = "FACILITY_CLOSURE"
	GapReasonOther           GapReason = "OTHER"
)

// Valid reports whether the reason is a known classification.
func (r GapReason) Valid() bool {
	switch r {
	case GapReasonHospitalization, GapReasonUserRequest, GapReasonFacilityClosure, GapReasonOther:
		return true
	}
	return false
}

// ContinuityGapLog documents a hole between two consecutive plans. A new
// plan whose start date is discontinuous with the previous plan's end can
// only be finalized once the gap is documented and approved.
type ContinuityGapLog struct {
	ID             id.GapLogID
	PreviousPlanID id.PlanID

	ReasonType   GapReason
	ReasonDetail string

	GapStart time.Time
	GapEnd   time.Time

	ResponsibleID id.SupporterID
	CreatedAt     time.Time
}
