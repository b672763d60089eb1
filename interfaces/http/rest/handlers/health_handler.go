package handlers

import (
	"net/http"

	"notemap-backend/pkg/common"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	version string
	ready   func() bool
}

// NewHealthHandler creates a health handler. ready reports whether the
// container finished wiring its dependencies.
func NewHealthHandler(version string, ready func() bool) *HealthHandler {
	return &HealthHandler{version: version, ready: ready}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		common.RespondError(w, http.StatusServiceUnavailable, "NOT_READY", "dependencies not ready")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
