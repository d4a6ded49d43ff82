package handlers

import (
	"net/http"

	"github.com/assettrack/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// DashboardHandler serves the aggregate inventory summary.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardRouter registers dashboard routes on the given router.
func DashboardRouter(r chi.Router, handler *DashboardHandler) {
	r.Get("/", handler.Summary)
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
