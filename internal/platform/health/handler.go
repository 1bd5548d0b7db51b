// Package health exposes liveness and readiness probes for the gateway.
package health

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"sentra/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Check reports the health of one dependency; nil means healthy.
type Check func() error

// Handler answers probe requests against the registered dependency checks.
type Handler struct {
	startedAt   time.Time
	environment string

	mu     sync.RWMutex
	checks map[string]Check
}

func New(environment string) *Handler {
	return &Handler{
		startedAt:   time.Now(),
		environment: environment,
		checks:      make(map[string]Check),
	}
}

// RegisterCheck adds a named dependency check consulted by the readiness probe.
func (h *Handler) RegisterCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts the probe routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health/live", h.handleLiveness)
	r.Get("/health/ready", h.handleReadiness)
}

// handleLiveness answers 200 whenever the process is serving requests.
func (h *Handler) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

type readinessReport struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Environment   string            `json:"environment"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// handleReadiness runs every registered check and answers 503 if any fails.
func (h *Handler) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := make(map[string]Check, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	report := readinessReport{
		Status:        "ready",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Checks:        make(map[string]string, len(checks)),
	}

	status := http.StatusOK
	for name, check := range checks {
		if err := check(); err != nil {
			report.Checks[name] = "down: " + err.Error()
			report.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		report.Checks[name] = "up"
	}

	httputil.WriteJSON(w, status, report)
}
