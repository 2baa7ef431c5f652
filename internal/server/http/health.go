package http

import (
	"log/slog"
	"net/http"

	"github.com/ekisa-team/voicestudio/internal/service"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	tts *service.TTS
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(tts *service.TTS) *HealthHandler {
	return &HealthHandler{tts: tts}
}

// Healthz reports that the process is alive.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the configuration currently loads.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if err := h.tts.Ready(); err != nil {
		slog.Warn("Readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
