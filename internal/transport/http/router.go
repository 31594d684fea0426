// Package httptransport assembles the engine's HTTP surface: middleware,
// health and metrics endpoints, and the authenticated v1 API.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fundline/internal/platform/middleware"
	"fundline/pkg/platform/httputil"
)

// Registrar mounts a feature's endpoints on a router. Feature handlers
// implement it so the transport layer stays ignorant of their internals.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the full HTTP surface. Handlers passed in register under
// the authenticated /v1 subtree.
func NewRouter(logger *slog.Logger, validator middleware.TokenValidator, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.RequireAuth(validator, logger))
		for _, h := range handlers {
			h.Register(v1)
		}
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
