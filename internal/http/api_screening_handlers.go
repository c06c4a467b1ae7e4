package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

// ScreeningHandler serves the ASQ-3 reference data and a child's screenings.
type ScreeningHandler struct {
	handlerBase
	screenings service.ScreeningService
}

func NewScreeningHandler(screenings service.ScreeningService, deps HandlerDeps) *ScreeningHandler {
	return &ScreeningHandler{handlerBase: newBase(deps), screenings: screenings}
}

func (h *ScreeningHandler) Domains(w http.ResponseWriter, r *http.Request) {
	ds, err := h.screenings.Domains(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(ds))
}

func (h *ScreeningHandler) AgeIntervals(w http.ResponseWriter, r *http.Request) {
	ivs, err := h.screenings.AgeIntervals(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(ivs))
}

func (h *ScreeningHandler) Questions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	set, err := h.screenings.Questions(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(set))
}

func (h *ScreeningHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.screenings.Recommendations(r.Context(), queryInt64(r, "domain_id"), queryInt64(r, "age_interval_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(recs))
}

func (h *ScreeningHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	page := pageFrom(r)
	list, total, err := h.screenings.ListForChild(r.Context(), UserFrom(r.Context()), id, r.URL.Query().Get("status"), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(list, total, page.Page, page.Size))
}

func (h *ScreeningHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.StartScreeningRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.screenings.Start(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Screening berhasil dimulai", s))
}

func (h *ScreeningHandler) Get(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "sid")
	if !ok {
		return
	}
	s, err := h.screenings.Get(r.Context(), UserFrom(r.Context()), childID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *ScreeningHandler) Update(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "sid")
	if !ok {
		return
	}
	var req service.UpdateScreeningRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.screenings.Update(r.Context(), UserFrom(r.Context()), childID, id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Screening berhasil diperbarui", s))
}

func (h *ScreeningHandler) Progress(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "sid")
	if !ok {
		return
	}
	p, err := h.screenings.Progress(r.Context(), UserFrom(r.Context()), childID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *ScreeningHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "sid")
	if !ok {
		return
	}
	var req service.AnswersRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.screenings.SubmitAnswers(r.Context(), UserFrom(r.Context()), childID, id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Jawaban berhasil disimpan"
	if res.Completed {
		msg = "Screening selesai"
	}
	writeJSON(w, http.StatusOK, OkMessage(msg, res))
}

func (h *ScreeningHandler) Results(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "sid")
	if !ok {
		return
	}
	res, err := h.screenings.Results(r.Context(), UserFrom(r.Context()), childID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}
