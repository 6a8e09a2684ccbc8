package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
)

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Realtime string `json:"realtime,omitempty"`
}

// Health handles GET /api/health. A dead database answers 503; a broken
// change feed keeps 200 but reports "degraded" so the site still serves.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Message: "Arena Eventos API", Database: "ok"}
	if h.feed != nil {
		resp.Realtime = string(h.feed.Status())
		if h.feed.Status() == realtime.StatusChannelError {
			resp.Status = "degraded"
		}
	}

	if err := h.db.Ping(ctx); err != nil {
		slog.Error("health check: database ping failed", "error", err)
		resp.Status, resp.Database = "unhealthy", "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
