package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carelink/internal/guardrail"
	"carelink/internal/platform/middleware"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/httputil"
)

// Handler exposes the guardrail verdict to the activity recording flow.
type Handler struct {
	service *guardrail.Service
	logger  *slog.Logger
}

func New(service *guardrail.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/guardrail/check", h.HandleCheck)
}

// CheckRequest asks whether a goal may back an activity record.
type CheckRequest struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
	Date   string `json:"date"`

	parsedUserID id.UserID
	parsedGoalID id.GoalID
	parsedDate   time.Time
}

func (r *CheckRequest) Validate() error {
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	goalID, err := id.ParseGoalID(r.GoalID)
	if err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be a date in YYYY-MM-DD format")
	}
	r.parsedUserID = userID
	r.parsedGoalID = goalID
	r.parsedDate = date
	return nil
}

// CheckResponse is deliberately a bare verdict. Denial reasons live in logs
// and metrics only.
type CheckResponse struct {
	Permitted bool `json:"permitted"`
}

// HandleCheck handles POST /guardrail/check.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	permitted := h.service.Check(ctx, req.parsedUserID, req.parsedGoalID, req.parsedDate)
	httputil.WriteJSON(w, http.StatusOK, CheckResponse{Permitted: permitted})
}
