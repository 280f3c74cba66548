package audit

import (
	"context"

	id "carelink/pkg/domain"
)

// Store is append-only; audit history is never rewritten.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
