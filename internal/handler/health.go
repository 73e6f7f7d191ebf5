package handler

import (
	"net/http"

	"github.com/sakif/script-worker/internal/executor"
)

// HealthResponse reports worker liveness and the engine version.
type HealthResponse struct {
	Healthy bool   `json:"healthy"`
	Version string `json:"version"`
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	exec executor.Executor
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(exec executor.Executor) *HealthHandler {
	return &HealthHandler{exec: exec}
}

// HandleHealth responds to GET /api/health. Always 200 — a worker that can
// answer at all is alive; script failures never change this.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthy, version := h.exec.Health()
	writeJSON(w, http.StatusOK, HealthResponse{
		Healthy: healthy,
		Version: version,
	})
}
