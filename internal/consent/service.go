package consent

import (
	"context"
	"time"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// Service captures consent evidence. It keeps orchestration out of handlers
// and domain logic thin.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Capture records a new consent log for a document. The document itself is
// not validated here; the transition consuming the consent does that.
func (s *Service) Capture(ctx context.Context, userID id.UserID, docType DocumentType, documentID, proof, documentURL string) (Record, error) {
	switch docType {
	case DocumentTypeSupportPlan, DocumentTypeMonitoringReport:
	default:
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "unknown document type: "+string(docType))
	}
	if documentID == "" {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "document id must not be empty")
	}

	record := Record{
		ID:           id.NewConsentID(),
		UserID:       userID,
		DocumentType: docType,
		DocumentID:   documentID,
		ConsentedAt:  s.now().UTC(),
		Proof:        proof,
		DocumentURL:  documentURL,
	}
	if err := s.store.Append(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record consent")
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID id.UserID) ([]Record, error) {
	return s.store.ListByUser(ctx, userID)
}
