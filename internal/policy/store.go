package policy

import (
	"context"

	id "carelink/pkg/domain"
)

type Store interface {
	Get(ctx context.Context, policyID id.PolicyID) (HolisticSupportPolicy, error)
	Save(ctx context.Context, policy HolisticSupportPolicy) error
}
