package user

import (
	"context"

	id "carelink/pkg/domain"
)

type Store interface {
	Get(ctx context.Context, userID id.UserID) (User, error)
	Save(ctx context.Context, user User) error
}
