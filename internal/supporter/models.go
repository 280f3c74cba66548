package supporter

import (
	"time"

	id "carelink/pkg/domain"
)

// Role labels a staff member's legal function. The sabikan (service
// management supervisor) is the only role allowed to gate plan transitions.
type Role string

const (
	RoleSabikan Role = "sabikan"
	RoleStaff   Role = "staff"
)

// Supporter is a staff member. PasswordHash holds a bcrypt hash; plaintext
// never touches a model.
type Supporter struct {
	ID           id.SupporterID
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
