package httpapi

import (
	"net/http"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

// FoodHandler serves the food catalog on both surfaces; FoodService decides
// what each role may see and edit.
type FoodHandler struct {
	handlerBase
	foods service.FoodService
}

func NewFoodHandler(foods service.FoodService, deps HandlerDeps) *FoodHandler {
	return &FoodHandler{handlerBase: newBase(deps), foods: foods}
}

func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.FoodFilters{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	page := pageFrom(r)
	foods, total, err := h.foods.List(r.Context(), UserFrom(r.Context()), filters, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(foods, total, page.Page, page.Size))
}

func (h *FoodHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.foods.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(cats))
}

func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	f, err := h.foods.Get(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.FoodRequest
	if !h.decode(w, r, &req) {
		return
	}
	f, err := h.foods.Create(r.Context(), UserFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Makanan berhasil ditambahkan", f))
}

func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.FoodRequest
	if !h.decode(w, r, &req) {
		return
	}
	f, err := h.foods.Update(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Makanan berhasil diperbarui", f))
}

func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.foods.Delete(r.Context(), UserFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Makanan berhasil dihapus"))
}
