package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scytherma/loginshp-sub000/internal/model"
	"github.com/scytherma/loginshp-sub000/internal/repository"
	"github.com/scytherma/loginshp-sub000/internal/service"
	"github.com/scytherma/loginshp-sub000/pkg/auth"
)

// ExtraCostPresetHandler serves a user's saved extra-cost rows.
type ExtraCostPresetHandler struct {
	svc service.ExtraCostPresetService
}

func NewExtraCostPresetHandler(svc service.ExtraCostPresetService) *ExtraCostPresetHandler {
	return &ExtraCostPresetHandler{svc: svc}
}

// presetError maps service errors to a status and code. ok is false for
// unexpected errors.
func presetError(err error) (status int, code string, ok bool) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden", true
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found", true
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), true
	}
	return http.StatusInternalServerError, "", false
}

// List handles GET /api/me/extra-cost-presets.
func (h *ExtraCostPresetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	presets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		slog.Error("extra cost preset list failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if presets == nil {
		presets = []*model.ExtraCostPreset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

// Create handles POST /api/me/extra-cost-presets.
func (h *ExtraCostPresetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Label string  `json:"label"`
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Unit == "" {
		req.Unit = "currency"
	}

	preset, err := h.svc.Create(r.Context(), userID, req.Label, req.Value, req.Unit)
	if err != nil {
		if status, code, known := presetError(err); known {
			writeError(w, status, code)
			return
		}
		slog.Error("extra cost preset create failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}

	writeJSON(w, http.StatusCreated, preset)
}

// Update handles PUT /api/me/extra-cost-presets/{id}.
func (h *ExtraCostPresetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")

	var req struct {
		Label *string  `json:"label"`
		Value *float64 `json:"value"`
		Unit  *string  `json:"unit"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	patch := model.ExtraCostPresetPatch{Label: req.Label, Value: req.Value, Unit: req.Unit}
	if err := h.svc.Update(r.Context(), id, userID, patch); err != nil {
		if status, code, known := presetError(err); known {
			writeError(w, status, code)
			return
		}
		slog.Error("extra cost preset update failed", "error", err, "preset_id", id)
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Delete handles DELETE /api/me/extra-cost-presets/{id}.
func (h *ExtraCostPresetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		if status, code, known := presetError(err); known {
			writeError(w, status, code)
			return
		}
		slog.Error("extra cost preset delete failed", "error", err, "preset_id", id)
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Reorder handles PUT /api/me/extra-cost-presets/reorder.
func (h *ExtraCostPresetHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids_required")
		return
	}

	if err := h.svc.Reorder(r.Context(), userID, req.IDs); err != nil {
		slog.Error("extra cost preset reorder failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "reorder_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
