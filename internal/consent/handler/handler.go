package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carelink/internal/consent"
	"carelink/internal/platform/middleware"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/httputil"
)

// Handler captures consent evidence over HTTP.
type Handler struct {
	service *consent.Service
	logger  *slog.Logger
}

func New(service *consent.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/consents", h.HandleCapture)
	r.Get("/users/{userID}/consents", h.HandleList)
}

// CaptureRequest records consent for one document.
type CaptureRequest struct {
	UserID       string `json:"user_id"`
	DocumentType string `json:"document_type"`
	DocumentID   string `json:"document_id"`
	Proof        string `json:"proof,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`

	parsedUserID id.UserID
}

func (r *CaptureRequest) Validate() error {
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	if r.DocumentType == "" {
		return dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	r.parsedUserID = userID
	return nil
}

type ConsentResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	DocumentType string `json:"document_type"`
	DocumentID   string `json:"document_id"`
	ConsentedAt  string `json:"consented_at"`
}

func fromRecord(record consent.Record) ConsentResponse {
	return ConsentResponse{
		ID:           record.ID.String(),
		UserID:       record.UserID.String(),
		DocumentType: string(record.DocumentType),
		DocumentID:   record.DocumentID,
		ConsentedAt:  record.ConsentedAt.Format(time.RFC3339),
	}
}

// HandleCapture handles POST /consents.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CaptureRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Capture(ctx, req.parsedUserID,
		consent.DocumentType(req.DocumentType), req.DocumentID, req.Proof, req.DocumentURL)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "consent captured",
		"request_id", requestID,
		"consent_id", record.ID.String(),
		"document_type", record.DocumentType,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromRecord(record))
}

// HandleList handles GET /users/{userID}/consents.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.List(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	responses := make([]ConsentResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, fromRecord(record))
	}
	httputil.WriteJSON(w, http.StatusOK, responses)
}
