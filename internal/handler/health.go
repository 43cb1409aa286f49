package handler

import (
	"log/slog"
	"net/http"

	"github.com/scytherma/loginshp-sub000/internal/repository"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks"`
}

// Health answers 503 only when PostgreSQL is down. A failing cache leaves the
// API usable, so it reports "degraded" with 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Message: "Precificador API",
		Checks:  map[string]string{"database": "ok"},
	}
	code := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "health check: database", "error", err)
		resp.Status = "unhealthy"
		resp.Checks["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		resp.Checks["cache"] = "ok"
		if err := h.cache.Ping(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "health check: cache", "error", err)
			resp.Checks["cache"] = "unavailable"
			if code == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	writeJSON(w, code, resp)
}

// WithCache adds an optional dependency to the health report.
func (h *Handler) WithCache(p repository.DB) *Handler {
	h.cache = p
	return h
}
