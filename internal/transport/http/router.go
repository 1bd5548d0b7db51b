// Package httptransport is the thin HTTP layer over the trust-decision
// services. Handlers delegate to domain services without embedding business
// logic so transport concerns stay isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentra/internal/decision"
	"sentra/internal/identity"
	"sentra/internal/platform/health"
	"sentra/internal/platform/middleware"
	"sentra/internal/ratelimit"
	"sentra/internal/registration"
)

const (
	registrationLimit  = 10
	registrationWindow = time.Minute
)

// Handler bundles the domain services the HTTP surface exposes.
type Handler struct {
	verifier  *identity.Verifier
	decisions *decision.Service
	guard     *registration.Guard
	limiter   *ratelimit.Limiter
	health    *health.Handler
	logger    *slog.Logger
}

// HandlerOption configures optional transport collaborators.
type HandlerOption func(*Handler)

// WithHealth mounts the liveness and readiness probe routes.
func WithHealth(hh *health.Handler) HandlerOption {
	return func(h *Handler) { h.health = hh }
}

func NewHandler(
	verifier *identity.Verifier,
	decisions *decision.Service,
	guard *registration.Guard,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
	opts ...HandlerOption,
) *Handler {
	if verifier == nil || decisions == nil || guard == nil || limiter == nil {
		panic("httptransport: missing required dependency")
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		verifier:  verifier,
		decisions: decisions,
		guard:     guard,
		limiter:   limiter,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.CORS)

	r.Post("/v1/admin/access", h.handleAdminAccess)
	r.Get("/v1/dashboard/access", h.handleDashboardAccess)
	r.Post("/v1/register/validate", h.handleRegisterValidate)

	r.Get("/healthz", h.handleHealthz)
	if h.health != nil {
		h.health.Register(r)
	}
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
