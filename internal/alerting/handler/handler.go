package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fundline/internal/alerting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
	"fundline/pkg/platform/httputil"
	"fundline/pkg/requestcontext"
)

// Service defines the interface for alert evaluation operations.
type Service interface {
	CheckAll(ctx context.Context, lenderID id.LenderID) (*alerting.CheckResult, error)
}

// Handler wires alerting endpoints to the alert evaluator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an alerting handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts alerting endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/alerts/check", h.HandleCheck)
}

// CheckResponse is the HTTP response for POST /alerts/check.
type CheckResponse struct {
	RulesEvaluated int `json:"rules_evaluated"`
	EventsEmitted  int `json:"events_emitted"`
	Suppressed     int `json:"suppressed"`
}

// HandleCheck handles POST /alerts/check requests. The run is scoped to the
// authenticated lender; the request carries no body.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	lenderID := requestcontext.LenderID(ctx)
	if lenderID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	result, err := h.service.CheckAll(ctx, lenderID)
	if err != nil {
		h.logger.ErrorContext(ctx, "alert check failed",
			"request_id", requestID,
			"lender_id", lenderID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "alert check completed",
		"request_id", requestID,
		"lender_id", lenderID,
		"rules", result.RulesEvaluated,
		"emitted", result.EventsEmitted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, CheckResponse{
		RulesEvaluated: result.RulesEvaluated,
		EventsEmitted:  result.EventsEmitted,
		Suppressed:     result.Suppressed,
	})
}
