package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PlansDrafted       prometheus.Counter
	DegradedDrafts     prometheus.Counter
	PlansActivated     prometheus.Counter
	PlansArchived      prometheus.Counter
	ApprovalsRejected  *prometheus.CounterVec
	GuardrailVerdicts  *prometheus.CounterVec
	RequestLatency     *prometheus.HistogramVec
	AuditEventsDropped prometheus.Counter
}

// New creates all metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registerer. Tests pass a fresh
// registry so parallel suites do not collide on duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PlansDrafted: factory.NewCounter(prometheus.CounterOpts{
			Name: "carelink_plans_drafted_total",
			Help: "Total number of support plan drafts created",
		}),
		DegradedDrafts: factory.NewCounter(prometheus.CounterOpts{
			Name: "carelink_plans_drafted_degraded_total",
			Help: "Drafts whose start date fell back to today because no prior plan or service start date existed",
		}),
		PlansActivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "carelink_plans_activated_total",
			Help: "Total number of plans finalized to ACTIVE",
		}),
		PlansArchived: factory.NewCounter(prometheus.CounterOpts{
			Name: "carelink_plans_archived_total",
			Help: "Total number of previously active plans archived on activation",
		}),
		ApprovalsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_approvals_rejected_total",
			Help: "Conference approvals rejected, by reason",
		}, []string{"reason"}),
		GuardrailVerdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carelink_guardrail_verdicts_total",
			Help: "Activity-plan guardrail verdicts, by outcome",
		}, []string{"outcome"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carelink_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		AuditEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "carelink_audit_events_dropped_total",
			Help: "Audit events dropped because the worker inbox was full",
		}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestLatency.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

// IncApprovalRejected counts a Lock 1 rejection by reason label.
func (m *Metrics) IncApprovalRejected(reason string) {
	m.ApprovalsRejected.WithLabelValues(reason).Inc()
}

// IncGuardrailVerdict counts a guardrail outcome ("permitted" or a denial
// reason).
func (m *Metrics) IncGuardrailVerdict(outcome string) {
	m.GuardrailVerdicts.WithLabelValues(outcome).Inc()
}
