package supporter

import (
	"context"
	"errors"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/sentinel"
)

type Store interface {
	Get(ctx context.Context, supporterID id.SupporterID) (Supporter, error)
	Save(ctx context.Context, supporter Supporter) error
}

// RequireRole confirms the supporter exists and carries the given role.
// Plan transitions call this before anything else runs.
func RequireRole(ctx context.Context, store Store, supporterID id.SupporterID, role Role) error {
	s, err := store.Get(ctx, supporterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeForbidden, "unknown supporter")
		}
		return err
	}
	if s.Role != role {
		return dErrors.New(dErrors.CodeForbidden, "operation requires role "+string(role))
	}
	return nil
}
