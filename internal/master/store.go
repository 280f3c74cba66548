package master

import (
	"context"

	id "carelink/pkg/domain"
)

type Store interface {
	Get(ctx context.Context, serviceTypeID id.ServiceTypeID) (ServiceType, error)
	Save(ctx context.Context, serviceType ServiceType) error
}
