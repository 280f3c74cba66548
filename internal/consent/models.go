package consent

import (
	"time"

	id "carelink/pkg/domain"
)

// DocumentType discriminates what a consent record covers. The finalize
// transition only accepts SUPPORT_PLAN consents; a consent captured for a
// monitoring report can never activate a plan.
type DocumentType string

const (
	DocumentTypeSupportPlan      DocumentType = "SUPPORT_PLAN"
	DocumentTypeMonitoringReport DocumentType = "MONITORING_REPORT"
)

// Record proves the client (or their representative) consented to one
// specific document. Created by the consent-capture workflow; the lifecycle
// engine only ever reads it.
//
// Nothing marks a record spent after finalization. That matches the
// upstream behavior; see DESIGN.md before tightening it.
type Record struct {
	ID           id.ConsentID
	UserID       id.UserID
	DocumentType DocumentType
	DocumentID   string
	ConsentedAt  time.Time
	Proof        string
	DocumentURL  string
}

// Covers reports whether the record consents to the given plan document.
func (r Record) Covers(planID id.PlanID) bool {
	return r.DocumentType == DocumentTypeSupportPlan && r.DocumentID == planID.String()
}
