package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fundline/internal/underwriting"
	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
	"fundline/pkg/platform/httputil"
	"fundline/pkg/requestcontext"
)

// Service defines the interface for underwriting operations.
type Service interface {
	Evaluate(ctx context.Context, loanRequestID id.LoanRequestID) (*underwriting.Decision, error)
}

// Handler wires underwriting endpoints to the decision orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an underwriting handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts underwriting endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/underwriting/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /underwriting/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	// Require an authenticated lender
	lenderID := requestcontext.LenderID(ctx)
	if lenderID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	// Decode and validate request
	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Call service
	decision, err := h.service.Evaluate(ctx, req.ParsedLoanRequestID())
	if err != nil {
		h.logger.ErrorContext(ctx, "underwriting evaluation failed",
			"request_id", requestID,
			"lender_id", lenderID,
			"loan_request_id", req.LoanRequestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// Log success
	h.logger.InfoContext(ctx, "underwriting evaluation completed",
		"request_id", requestID,
		"lender_id", lenderID,
		"loan_request_id", req.LoanRequestID,
		"outcome", decision.Outcome,
		"reason", decision.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Return response
	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}
