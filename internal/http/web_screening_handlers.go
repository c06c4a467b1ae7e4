package httpapi

import (
	"net/http"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

// WebScreeningHandler is the nakes view over ASQ-3 screenings and their
// follow-up interventions.
type WebScreeningHandler struct {
	handlerBase
	screenings    service.ScreeningService
	interventions service.InterventionService
}

func NewWebScreeningHandler(screenings service.ScreeningService, interventions service.InterventionService, deps HandlerDeps) *WebScreeningHandler {
	return &WebScreeningHandler{handlerBase: newBase(deps), screenings: screenings, interventions: interventions}
}

type createScreeningRequest struct {
	ChildID int64 `json:"child_id"`
	service.StartScreeningRequest
}

func (h *WebScreeningHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageFrom(r)
	list, total, err := h.screenings.List(r.Context(), repository.ScreeningFilters{
		ChildID: queryInt64(r, "child_id"),
		Status:  q.Get("status"),
		Search:  strings.TrimSpace(q.Get("search")),
	}, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(list, total, page.Page, page.Size))
}

func (h *WebScreeningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScreeningRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ChildID <= 0 {
		h.fail(w, r, service.Invalid("child_id", "Anak wajib dipilih."))
		return
	}
	s, err := h.screenings.Start(r.Context(), UserFrom(r.Context()), req.ChildID, req.StartScreeningRequest)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Skrining berhasil dibuat", s))
}

func (h *WebScreeningHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	s, err := h.screenings.Find(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *WebScreeningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.screenings.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Skrining berhasil dihapus"))
}

func (h *WebScreeningHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	res, err := h.screenings.ResultsByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

func (h *WebScreeningHandler) ListInterventions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	list, err := h.interventions.List(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

func (h *WebScreeningHandler) CreateIntervention(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.InterventionRequest
	if !h.decode(w, r, &req) {
		return
	}
	iv, err := h.interventions.Create(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Intervensi berhasil ditambahkan", iv))
}

func (h *WebScreeningHandler) UpdateIntervention(w http.ResponseWriter, r *http.Request) {
	sid, iid, ok := h.ids(w, r, "id", "iid")
	if !ok {
		return
	}
	var req service.InterventionRequest
	if !h.decode(w, r, &req) {
		return
	}
	iv, err := h.interventions.Update(r.Context(), sid, iid, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Intervensi berhasil diperbarui", iv))
}

func (h *WebScreeningHandler) CompleteIntervention(w http.ResponseWriter, r *http.Request) {
	sid, iid, ok := h.ids(w, r, "id", "iid")
	if !ok {
		return
	}
	iv, err := h.interventions.Complete(r.Context(), sid, iid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Intervensi selesai", iv))
}

func (h *WebScreeningHandler) DeleteIntervention(w http.ResponseWriter, r *http.Request) {
	sid, iid, ok := h.ids(w, r, "id", "iid")
	if !ok {
		return
	}
	if err := h.interventions.Delete(r.Context(), sid, iid); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Intervensi berhasil dihapus"))
}
