package handler

import (
	"log/slog"
	"net/http"

	"github.com/scytherma/loginshp-sub000/internal/service"
	"github.com/scytherma/loginshp-sub000/pkg/auth"
)

// MeHandler returns the signed-in user and their plan.
type MeHandler struct {
	subs service.SubscriptionService
}

func NewMeHandler(subs service.SubscriptionService) *MeHandler {
	return &MeHandler{subs: subs}
}

// meResponse is the body of GET /api/me.
type meResponse struct {
	ID           string              `json:"id"`
	Email        string              `json:"email,omitempty"`
	Subscription *service.AccessInfo `json:"subscription"`
}

// Me handles GET /api/me. Calling it for the first time starts the trial.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	info, err := h.subs.Access(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "me: subscription lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:           userID,
		Email:        auth.EmailFromContext(r.Context()),
		Subscription: info,
	})
}
