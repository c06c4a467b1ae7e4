package httpapi

import (
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
)

// ChildHandler serves a parent's children and everything recorded per child:
// measurements, food logs and nutrition views.
type ChildHandler struct {
	handlerBase
	children      service.ChildService
	anthropometry service.AnthropometryService
	foodLogs      service.FoodLogService
	nutrition     service.NutritionService
}

func NewChildHandler(
	children service.ChildService,
	anthropometry service.AnthropometryService,
	foodLogs service.FoodLogService,
	nutrition service.NutritionService,
	deps HandlerDeps,
) *ChildHandler {
	return &ChildHandler{
		handlerBase:   newBase(deps),
		children:      children,
		anthropometry: anthropometry,
		foodLogs:      foodLogs,
		nutrition:     nutrition,
	}
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := h.children.ListOwn(r.Context(), UserFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(children))
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ChildRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.UserID = nil
	c, err := h.children.Create(r.Context(), UserFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Data anak berhasil ditambahkan", c))
}

func (h *ChildHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	c, err := h.children.Get(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.ChildRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.UserID = nil
	c, err := h.children.Update(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Data anak berhasil diperbarui", c))
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ChildHandler) Summary(w http.ResponseWriter, r *http.Request) {
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

func (h *ChildHandler) ListMeasurements(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	ms, err := h.anthropometry.List(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(ms))
}

func (h *ChildHandler) CreateMeasurement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.MeasurementRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.anthropometry.Create(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Data pengukuran berhasil ditambahkan", m))
}

func (h *ChildHandler) GetMeasurement(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "mid")
	if !ok {
		return
	}
	m, err := h.anthropometry.Get(r.Context(), UserFrom(r.Context()), childID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(m))
}

func (h *ChildHandler) UpdateMeasurement(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "mid")
	if !ok {
		return
	}
	var req service.MeasurementRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.anthropometry.Update(r.Context(), UserFrom(r.Context()), childID, id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Data pengukuran berhasil diperbarui", m))
}

func (h *ChildHandler) DeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "mid")
	if !ok {
		return
	}
	if err := h.anthropometry.Delete(r.Context(), UserFrom(r.Context()), childID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Data pengukuran berhasil dihapus"))
}

func (h *ChildHandler) GrowthChart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	chart, err := h.anthropometry.GrowthChart(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(chart))
}

func (h *ChildHandler) ListFoodLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	filters := repository.FoodLogFilters{MealTime: r.URL.Query().Get("meal_time")}
	if d := r.URL.Query().Get("date"); d != "" {
		t, ok := parseQueryDate(d)
		if !ok {
			h.fail(w, r, service.Invalid("date", "Format tanggal tidak valid."))
			return
		}
		filters.Date = &t
	}
	logs, err := h.foodLogs.List(r.Context(), UserFrom(r.Context()), id, filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(logs))
}

func (h *ChildHandler) CreateFoodLog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.FoodLogRequest
	if !h.decode(w, r, &req) {
		return
	}
	l, err := h.foodLogs.Create(r.Context(), UserFrom(r.Context()), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Catatan makan berhasil ditambahkan", l))
}

func (h *ChildHandler) GetFoodLog(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "lid")
	if !ok {
		return
	}
	l, err := h.foodLogs.Get(r.Context(), UserFrom(r.Context()), childID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(l))
}

func (h *ChildHandler) UpdateFoodLog(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "lid")
	if !ok {
		return
	}
	var req service.FoodLogRequest
	if !h.decode(w, r, &req) {
		return
	}
	l, err := h.foodLogs.Update(r.Context(), UserFrom(r.Context()), childID, id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Catatan makan berhasil diperbarui", l))
}

func (h *ChildHandler) DeleteFoodLog(w http.ResponseWriter, r *http.Request) {
	childID, id, ok := h.ids(w, r, "id", "lid")
	if !ok {
		return
	}
	if err := h.foodLogs.Delete(r.Context(), UserFrom(r.Context()), childID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Catatan makan berhasil dihapus"))
}

func (h *ChildHandler) NutritionSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	s, err := h.nutrition.Summary(r.Context(), UserFrom(r.Context()), id, r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *ChildHandler) NutritionTrends(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	t, err := h.nutrition.Trends(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(t))
}

func (h *ChildHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	d, err := h.nutrition.Dashboard(r.Context(), UserFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}
