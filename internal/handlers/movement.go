package handlers

import (
	"net/http"

	"github.com/assettrack/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// MovementHandler serves the movement audit log.
type MovementHandler struct {
	assetService *services.AssetService
}

func NewMovementHandler(assetService *services.AssetService) *MovementHandler {
	return &MovementHandler{assetService: assetService}
}

// MovementsRouter registers movement routes on the given router.
func MovementsRouter(r chi.Router, handler *MovementHandler) {
	r.Get("/", handler.List)
}

// List returns all recorded movements, newest last, optionally filtered
// by the asset query parameter.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	movements, err := h.assetService.ListMovements(r.Context(), r.URL.Query().Get("asset"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movements")
		return
	}
	writeJSON(w, http.StatusOK, movements)
}
