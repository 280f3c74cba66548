package consent

import (
	"context"

	id "carelink/pkg/domain"
)

// Store is append-only: consent evidence is never edited or deleted.
type Store interface {
	Get(ctx context.Context, consentID id.ConsentID) (Record, error)
	Append(ctx context.Context, record Record) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Record, error)
}
