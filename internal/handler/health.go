package handler

import (
	"context"
	"net/http"
	"time"
)

// Prober reports whether the upstream accepts the configured credential.
type Prober interface {
	ValidateAPIKey(ctx context.Context) bool
}

type HealthHandler struct {
	prober       Prober
	probeTimeout time.Duration
}

// NewHealthHandler builds the /health handler. With a nil prober the check
// only reports liveness.
func NewHealthHandler(prober Prober) *HealthHandler {
	return &HealthHandler{prober: prober, probeTimeout: 5 * time.Second}
}

// HandleHealthCheck reports liveness. With ?upstream=true it also probes the
// upstream credential and answers 503 when it is rejected.
func (h *HealthHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"status": "healthy"}
	if h.prober == nil || r.URL.Query().Get("upstream") != "true" {
		sendMCPResponse(w, http.StatusOK, true, data, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.probeTimeout)
	defer cancel()

	ok := h.prober.ValidateAPIKey(ctx)
	data["upstream"] = ok
	if !ok {
		data["status"] = "degraded"
		sendMCPResponse(w, http.StatusServiceUnavailable, false, data, "upstream rejected the API key or is unreachable")
		return
	}
	sendMCPResponse(w, http.StatusOK, true, data, "")
}
