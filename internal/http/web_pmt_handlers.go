package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"go.uber.org/zap"
)

// ProgramHandler manages PMT programs for nakes.
type ProgramHandler struct {
	handlerBase
	programs service.PmtProgramService
}

func NewProgramHandler(programs service.PmtProgramService, deps HandlerDeps) *ProgramHandler {
	return &ProgramHandler{handlerBase: newBase(deps), programs: programs}
}

func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageFrom(r)
	list, total, err := h.programs.List(r.Context(), repository.ProgramFilters{
		Status: q.Get("status"),
		Search: strings.TrimSpace(q.Get("search")),
	}, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(list, total, page.Page, page.Size))
}

func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	p, err := h.programs.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ProgramRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.programs.Create(r.Context(), UserFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Program PMT berhasil dibuat", p))
}

func (h *ProgramHandler) Discontinue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	p, err := h.programs.Discontinue(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Program PMT dihentikan", p))
}

// ScheduleHandler manages single PMT schedules and their distribution.
type ScheduleHandler struct {
	handlerBase
	pmt service.PmtService
}

func NewScheduleHandler(pmt service.PmtService, deps HandlerDeps) *ScheduleHandler {
	return &ScheduleHandler{handlerBase: newBase(deps), pmt: pmt}
}

type createScheduleRequest struct {
	ChildID int64 `json:"child_id"`
	service.ScheduleRequest
}

// List shows the schedules of one day, today when ?date is absent.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.pmt.SchedulesOn(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(list))
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ChildID <= 0 {
		h.fail(w, r, service.Invalid("child_id", "Anak wajib dipilih."))
		return
	}
	s, err := h.pmt.CreateSchedule(r.Context(), UserFrom(r.Context()), req.ChildID, req.ScheduleRequest)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage("Jadwal PMT berhasil dibuat", s))
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.ScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.pmt.UpdateSchedule(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Jadwal PMT berhasil diperbarui", s))
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	if err := h.pmt.DeleteSchedule(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, done("Jadwal PMT berhasil dihapus"))
}

// Distribution records the portion consumed for a schedule on the parent's behalf.
func (h *ScheduleHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r, "id")
	if !ok {
		return
	}
	var req service.LogRequest
	if !h.decode(w, r, &req) {
		return
	}
	l, err := h.pmt.RecordDistribution(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("Distribusi PMT berhasil dicatat", l))
}

// ReportHandler serves the PMT consumption report and its xlsx export.
type ReportHandler struct {
	handlerBase
	reports service.PmtReportService
}

func NewReportHandler(reports service.PmtReportService, deps HandlerDeps) *ReportHandler {
	return &ReportHandler{handlerBase: newBase(deps), reports: reports}
}

type reportPage struct {
	Paginated[*reportRow]
	Stats pmt.Stats `json:"stats"`
}

// reportRow adds the display fields of the portion to a log row.
type reportRow struct {
	*domain.PmtReportRow
	PortionLabel   string `json:"portion_label"`
	PortionPercent int    `json:"portion_percentage"`
}

func reportQuery(r *http.Request) service.ReportQuery {
	q := r.URL.Query()
	return service.ReportQuery{
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		ProgramID: queryInt64(r, "program_id"),
		Portion:   q.Get("portion"),
		Search:    strings.TrimSpace(q.Get("search")),
	}
}

func (h *ReportHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := pageFrom(r)
	rep, err := h.reports.Report(r.Context(), reportQuery(r), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([]*reportRow, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		rows = append(rows, &reportRow{
			PmtReportRow:   row,
			PortionLabel:   pmt.Label(row.Portion),
			PortionPercent: pmt.Percent(row.Portion),
		})
	}
	writeJSON(w, http.StatusOK, reportPage{
		Paginated: paginate(rows, rep.Total, page.Page, page.Size),
		Stats:     rep.Stats,
	})
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.ExportRows(r.Context(), reportQuery(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := GeneratePmtReportExport(rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename := h.reports.ExportFilename()
	h.logger.Info("PMT report download",
		zap.String("filename", filename),
		zap.Int("rows", len(rows)),
	)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
