package handler

import (
	"log/slog"
	"net/http"

	"github.com/scytherma/loginshp-sub000/internal/service"
	"github.com/scytherma/loginshp-sub000/pkg/auth"
)

// RequireSubscription rejects authenticated users whose trial or paid period
// has ended. It must run after the auth middleware.
func RequireSubscription(svc service.SubscriptionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			info, err := svc.Access(r.Context(), userID)
			if err != nil {
				slog.ErrorContext(r.Context(), "subscription check failed", "user_id", userID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			if !info.Allowed {
				writeJSON(w, http.StatusPaymentRequired, map[string]string{
					"error":  "subscription_required",
					"status": info.Status,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
