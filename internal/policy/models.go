package policy

import (
	"time"

	id "carelink/pkg/domain"
)

// HolisticSupportPolicy records the client's intentions and the professional
// support policy they anchor. Plans reference a policy instead of copying
// its text, so the intent at drafting time stays auditable. Versions are
// never edited in place; a new row supersedes the old one.
type HolisticSupportPolicy struct {
	ID             id.PolicyID
	UserID         id.UserID
	EffectiveDate  time.Time
	UserIntention  string
	SupportPolicy  string
	Considerations string
	CreatedAt      time.Time
}
