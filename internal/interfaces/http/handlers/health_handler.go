package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// Pinger checks the reachability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readinessTimeout bounds the time a single readiness probe may take.
const readinessTimeout = 5 * time.Second

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	checks map[string]Pinger
	logger logging.Logger
}

// NewHealthHandler builds a HealthHandler.  The checks map backing service
// names against their pingers; services without a pinger are simply not
// probed.
func NewHealthHandler(checks map[string]Pinger, logger logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HealthHandler{checks: checks, logger: logger.Named("health")}
}

// HealthResponse is the JSON body of the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness handles GET /healthz.  It only reports that the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz.  It pings every configured backing
// service and reports 503 when any of them is unreachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, pinger := range h.checks {
		if err := pinger.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed",
				logging.String("check", name), logging.Err(err))
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := HealthResponse{Status: "ok", Checks: results}
	if status != http.StatusOK {
		body.Status = "degraded"
	}
	writeJSON(w, status, body)
}
