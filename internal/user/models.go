package user

import (
	"time"

	id "carelink/pkg/domain"
)

// User is an enrolled (or prospective) client of the day service. Only the
// fields the lifecycle engine consumes live here; demographics and PII stay
// with the excluded administrative layer.
type User struct {
	ID   id.UserID
	Name string

	// ServiceStartDate anchors a client's first-ever plan. Nullable: a
	// missing value is a data-integrity gap the draft flow must surface.
	ServiceStartDate *time.Time

	// ServiceTypeID selects the legally mandated review period for plans.
	ServiceTypeID id.ServiceTypeID

	CreatedAt time.Time
}
