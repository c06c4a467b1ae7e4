package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

type DashboardHandler struct {
	handlerBase
	dashboard service.NakesDashboardService
}

func NewDashboardHandler(dashboard service.NakesDashboardService, deps HandlerDeps) *DashboardHandler {
	return &DashboardHandler{handlerBase: newBase(deps), dashboard: dashboard}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}
