package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/scytherma/loginshp-sub000/internal/service"
	"github.com/scytherma/loginshp-sub000/pkg/auth"
	"github.com/scytherma/loginshp-sub000/pkg/mercadopago"
)

// WebhookRecorder counts webhook outcomes.
type WebhookRecorder interface {
	RecordWebhook(outcome string)
}

// SubscriptionHandler serves the plan status, checkout and the Mercado Pago webhook.
type SubscriptionHandler struct {
	svc      service.SubscriptionService
	recorder WebhookRecorder // optional
}

func NewSubscriptionHandler(svc service.SubscriptionService, recorder WebhookRecorder) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, recorder: recorder}
}

func (h *SubscriptionHandler) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordWebhook(outcome)
	}
}

// Status handles GET /api/me/subscription.
func (h *SubscriptionHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	info, err := h.svc.Access(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "subscription status failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Checkout handles POST /api/subscription/checkout.
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	email := auth.EmailFromContext(r.Context())

	url, err := h.svc.CreateCheckout(r.Context(), userID, email)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrAlreadySubscribed):
		writeError(w, http.StatusConflict, "already_subscribed")
		return
	case errors.Is(err, mercadopago.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "payments_unavailable")
		return
	default:
		slog.ErrorContext(r.Context(), "checkout failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "checkout_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"init_point": url})
}

// Cancel handles DELETE /api/subscription.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	err := h.svc.Cancel(r.Context(), userID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrNoSubscription):
		writeError(w, http.StatusNotFound, "no_subscription")
	case errors.Is(err, mercadopago.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "payments_unavailable")
	default:
		slog.ErrorContext(r.Context(), "cancel subscription failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "cancel_failed")
	}
}

// Webhook handles POST /api/webhooks/mercadopago. No auth; the request is
// authenticated by its x-signature header.
func (h *SubscriptionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	sig := r.Header.Get("x-signature")
	if sig == "" {
		writeError(w, http.StatusBadRequest, "missing_signature")
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	err = h.svc.ProcessWebhook(r.Context(), payload, sig, r.Header.Get("x-request-id"))
	switch {
	case err == nil:
		h.record("ok")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, mercadopago.ErrNotConfigured):
		h.record("unconfigured")
		writeError(w, http.StatusServiceUnavailable, "payments_unavailable")
	case errors.Is(err, service.ErrInvalidSignature):
		h.record("rejected")
		slog.WarnContext(r.Context(), "mercadopago webhook rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "signature_verification_failed")
	default:
		h.record("error")
		slog.ErrorContext(r.Context(), "mercadopago webhook failed", "error", err)
		writeError(w, http.StatusInternalServerError, "webhook_processing_failed")
	}
}
