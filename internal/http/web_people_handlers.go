package httpapi

import (
	"net/http"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

// ParentHandler is the nakes management of parent accounts.
type ParentHandler struct {
	handlerBase
	parents service.ParentService
}

func NewParentHandler(parents service.ParentService, deps HandlerDeps) *ParentHandler {
	return &ParentHandler{handlerBase: newBase(deps), parents: parents}
}

func (h *ParentHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageFrom(r)
	list, total, err := h.parents.List(r.Context(), repository.UserFilters{Search: strings.TrimSpace(r.URL.Query().Get("search"))}, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(list, total, page.Page, page.Size))
}

func (h *ParentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	p, err := h.parents.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *ParentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ParentRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.parents.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Orang tua berhasil ditambahkan", u))
}

func (h *ParentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.ParentRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.parents.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Orang tua berhasil diperbarui", u))
}

func (h *ParentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.parents.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Orang tua berhasil dihapus"))
}

// WebChildHandler is the nakes management of every child.
type WebChildHandler struct {
	handlerBase
	children service.ChildService
}

func NewWebChildHandler(children service.ChildService, deps HandlerDeps) *WebChildHandler {
	return &WebChildHandler{handlerBase: newBase(deps), children: children}
}

func (h *WebChildHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.ChildFilters{
		Search: strings.TrimSpace(q.Get("search")),
		UserID: queryInt64(r, "user_id"),
	}
	switch q.Get("is_active") {
	case "true", "1":
		v := true
		filters.IsActive = &v
	case "false", "0":
		v := false
		filters.IsActive = &v
	}
	page := pageFrom(r)
	list, total, err := h.children.List(r.Context(), filters, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(list, total, page.Page, page.Size))
}

func (h *WebChildHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	s, err := h.children.Summary(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *WebChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ChildRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.children.Create(r.Context(), UserFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Data anak berhasil ditambahkan", c))
}

func (h *WebChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.ChildRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.children.Update(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Data anak berhasil diperbarui", c))
}

func (h *WebChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.children.Delete(r.Context(), UserFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Data anak berhasil dihapus"))
}
