package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carelink/internal/plan/models"
	"carelink/internal/plan/service"
	"carelink/internal/platform/middleware"
	"carelink/internal/supporter"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/httputil"
)

// Handler wires the plan lifecycle endpoints to the lifecycle engine.
type Handler struct {
	service    *service.Service
	supporters supporter.Store
	logger     *slog.Logger
}

func New(svc *service.Service, supporters supporter.Store, logger *slog.Logger) *Handler {
	return &Handler{service: svc, supporters: supporters, logger: logger}
}

// Register mounts the plan endpoints. All of them sit behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/plans", h.HandleCreateDraft)
	r.Get("/plans/{planID}", h.HandleGetBundle)
	r.Post("/plans/{planID}/goals", h.HandleAddGoal)
	r.Post("/plans/{planID}/approve", h.HandleApprove)
	r.Post("/plans/{planID}/finalize", h.HandleFinalize)
}

// actor resolves the authenticated supporter and optionally demands the
// sabikan role. Lifecycle transitions are sabikan-only; goal edits any staff
// member can do.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request, requireSabikan bool) (id.SupporterID, bool) {
	supporterID, err := id.ParseSupporterID(middleware.GetSupporterID(r.Context()))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.SupporterID{}, false
	}
	if requireSabikan {
		if err := supporter.RequireRole(r.Context(), h.supporters, supporterID, supporter.RoleSabikan); err != nil {
			httputil.WriteError(w, err)
			return id.SupporterID{}, false
		}
	}
	return supporterID, true
}

func planIDFromPath(w http.ResponseWriter, r *http.Request) (id.PlanID, bool) {
	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.PlanID{}, false
	}
	return planID, true
}

// HandleCreateDraft handles POST /plans.
func (h *Handler) HandleCreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	sabikanID, ok := h.actor(w, r, true)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateDraftRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := h.service.CreateDraft(ctx, service.CreateDraftInput{
		UserID:    req.parsedUserID,
		PolicyID:  req.parsedPolicyID,
		SabikanID: sabikanID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft creation failed",
			"request_id", requestID,
			"user_id", req.UserID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "plan draft created",
		"request_id", requestID,
		"plan_id", plan.ID.String(),
		"user_id", plan.UserID.String(),
		"version", plan.Version,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPlan(plan))
}

// HandleGetBundle handles GET /plans/{planID}.
func (h *Handler) HandleGetBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := h.actor(w, r, false); !ok {
		return
	}
	planID, ok := planIDFromPath(w, r)
	if !ok {
		return
	}

	bundle, err := h.service.GetBundle(ctx, planID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromBundle(bundle))
}

// HandleAddGoal handles POST /plans/{planID}/goals.
func (h *Handler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if _, ok := h.actor(w, r, false); !ok {
		return
	}
	planID, ok := planIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddGoalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var resp any
	var err error
	switch req.Kind {
	case goalKindLongTerm:
		created, cerr := h.service.AddLongTermGoal(ctx, planID, service.LongTermGoalInput{
			Description: req.Description,
			PeriodStart: req.parsedPeriodStart,
			PeriodEnd:   req.parsedPeriodEnd,
		})
		resp, err = FromLongTermGoal(created), cerr
	case goalKindShortTerm:
		created, cerr := h.service.AddShortTermGoal(ctx, planID, req.parsedLongTermGoalID, service.ShortTermGoalInput{
			Description:    req.Description,
			PeriodStart:    req.parsedPeriodStart,
			PeriodEnd:      req.parsedPeriodEnd,
			NextReviewDate: req.parsedNextReviewDate,
		})
		resp, err = FromShortTermGoal(created), cerr
	case goalKindIndividual:
		created, cerr := h.service.AddIndividualGoal(ctx, planID, req.parsedShortTermGoalID, service.IndividualGoalInput{
			ConcreteGoal:       req.ConcreteGoal,
			UserCommitment:     req.UserCommitment,
			SupportActions:     req.SupportActions,
			ServiceType:        models.GoalServiceType(req.ServiceType),
			IsFacilityInDeemed: req.IsFacilityInDeemed,
			IsWorkPreparation:  req.IsWorkPreparation,
		})
		resp, err = FromIndividualGoal(created), cerr
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// HandleApprove handles POST /plans/{planID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	sabikanID, ok := h.actor(w, r, true)
	if !ok {
		return
	}
	planID, ok := planIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ApproveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	log, err := h.service.ApproveConference(ctx, planID, sabikanID, req.ToInput())
	if err != nil {
		h.logger.WarnContext(ctx, "conference approval failed",
			"request_id", requestID,
			"plan_id", planID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "conference approved",
		"request_id", requestID,
		"plan_id", planID.String(),
		"user_participated", log.UserParticipated,
	)
	httputil.WriteJSON(w, http.StatusOK, FromConference(log))
}

// HandleFinalize handles POST /plans/{planID}/finalize.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	sabikanID, ok := h.actor(w, r, true)
	if !ok {
		return
	}
	planID, ok := planIDFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := h.service.Finalize(ctx, planID, req.ToInput(sabikanID))
	if err != nil {
		h.logger.WarnContext(ctx, "finalization failed",
			"request_id", requestID,
			"plan_id", planID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "plan activated",
		"request_id", requestID,
		"plan_id", plan.ID.String(),
		"user_id", plan.UserID.String(),
		"version", plan.Version,
	)
	httputil.WriteJSON(w, http.StatusOK, FromPlan(plan))
}
