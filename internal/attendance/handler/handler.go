package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carelink/internal/attendance"
	"carelink/internal/platform/middleware"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/httputil"
)

// Handler records absence responses, the evidence trail the conference
// absence guardrail counts.
type Handler struct {
	service *attendance.Service
	logger  *slog.Logger
}

func New(service *attendance.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/absences", h.HandleRecord)
}

// RecordRequest logs one outreach to an absent client.
type RecordRequest struct {
	UserID       string `json:"user_id"`
	AbsenceDate  string `json:"absence_date"`
	LinkedPlanID string `json:"linked_plan_id"`
	Method       string `json:"method"`
	Summary      string `json:"summary"`

	parsedUserID id.UserID
	parsedPlanID id.PlanID
	parsedDate   time.Time
}

func (r *RecordRequest) Validate() error {
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	planID, err := id.ParsePlanID(r.LinkedPlanID)
	if err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", r.AbsenceDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "absence_date must be a date in YYYY-MM-DD format")
	}
	r.parsedUserID = userID
	r.parsedPlanID = planID
	r.parsedDate = date
	return nil
}

type RecordResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	AbsenceDate  string `json:"absence_date"`
	LinkedPlanID string `json:"linked_plan_id"`
	SupporterID  string `json:"supporter_id"`
	Method       string `json:"method"`
	Summary      string `json:"summary"`
}

// HandleRecord handles POST /absences.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	supporterID, err := id.ParseSupporterID(middleware.GetSupporterID(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	log, err := h.service.Record(ctx, attendance.RecordInput{
		UserID:       req.parsedUserID,
		AbsenceDate:  req.parsedDate,
		LinkedPlanID: req.parsedPlanID,
		SupporterID:  supporterID,
		Method:       attendance.ResponseMethod(req.Method),
		Summary:      req.Summary,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "absence response recorded",
		"request_id", requestID,
		"absence_log_id", log.ID.String(),
		"linked_plan_id", log.LinkedPlanID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, RecordResponse{
		ID:           log.ID.String(),
		UserID:       log.UserID.String(),
		AbsenceDate:  log.AbsenceDate.Format("2006-01-02"),
		LinkedPlanID: log.LinkedPlanID.String(),
		SupporterID:  log.SupporterID.String(),
		Method:       string(log.Method),
		Summary:      log.Summary,
	})
}
