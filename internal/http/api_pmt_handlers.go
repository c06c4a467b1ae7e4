package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

// PmtHandler serves the parent side of PMT: menus, a child's schedules and
// progress, and consumption logs.
type PmtHandler struct {
	handlerBase
	pmt service.PmtService
}

func NewPmtHandler(pmt service.PmtService, deps HandlerDeps) *PmtHandler {
	return &PmtHandler{handlerBase: newBase(deps), pmt: pmt}
}

func dateRange(r *http.Request) service.DateRange {
	q := r.URL.Query()
	return service.DateRange{From: q.Get("from"), To: q.Get("to")}
}

func (h *PmtHandler) Menus(w http.ResponseWriter, r *http.Request) {
	var age *int
	if v := queryInt64(r, "age_months"); v != nil {
		a := int(*v)
		age = &a
	}
	menus, err := h.pmt.Menus(r.Context(), age)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(menus))
}

func (h *PmtHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	list, err := h.pmt.ListSchedules(r.Context(), UserFrom(r.Context()), id, dateRange(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

func (h *PmtHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.ScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.pmt.CreateSchedule(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Jadwal PMT berhasil dibuat", s))
}

func (h *PmtHandler) Progress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	p, err := h.pmt.Progress(r.Context(), UserFrom(r.Context()), id, dateRange(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PmtHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.LogRequest
	if !h.decode(w, r, &req) {
		return
	}
	l, err := h.pmt.CreateLog(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Konsumsi PMT berhasil dicatat", l))
}

func (h *PmtHandler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.LogRequest
	if !h.decode(w, r, &req) {
		return
	}
	l, err := h.pmt.UpdateLog(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Log PMT berhasil diperbarui", l))
}
