// Package httptransport assembles the HTTP surface: middleware chain,
// domain handlers, health and metrics endpoints.
package httptransport

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attendancehandler "carelink/internal/attendance/handler"
	consenthandler "carelink/internal/consent/handler"
	guardrailhandler "carelink/internal/guardrail/handler"
	planhandler "carelink/internal/plan/handler"
	"carelink/internal/platform/metrics"
	"carelink/internal/platform/middleware"
	"carelink/internal/platform/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Plans      *planhandler.Handler
	Guardrail  *guardrailhandler.Handler
	Consents   *consenthandler.Handler
	Attendance *attendancehandler.Handler

	Validator middleware.JWTValidator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics

	// Health probes. Either may be nil when the backing service is not
	// configured.
	DB    *sql.DB
	Redis *redis.Client
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthz(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		deps.Plans.Register(r)
		deps.Guardrail.Register(r)
		deps.Consents.Register(r)
		deps.Attendance.Register(r)
	})

	return r
}

func healthz(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		body := `{"status":"ok"}`

		if deps.DB != nil {
			if err := deps.DB.PingContext(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = `{"status":"degraded","component":"database"}`
			}
		}
		if status == http.StatusOK && deps.Redis != nil {
			if err := deps.Redis.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = `{"status":"degraded","component":"redis"}`
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
