package attendance

import (
	"context"

	id "carelink/pkg/domain"
)

type Store interface {
	Append(ctx context.Context, log AbsenceResponseLog) error
	// CountLinkedEvidence counts absence responses for the client that were
	// explicitly linked to the given plan before approval time.
	CountLinkedEvidence(ctx context.Context, userID id.UserID, planID id.PlanID) (int, error)
}
