package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"
	"github.com/jagoanbunda/jagoanbunda-data/internal/service"
	"github.com/jagoanbunda/jagoanbunda-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type loginAuth struct {
	fakeAuth
}

func (f *loginAuth) Login(_ context.Context, req service.LoginRequest) (*service.TokenResponse, error) {
	if req.Email == nakesUser.Email {
		return nil, &service.BusinessError{Status: http.StatusForbidden, Message: service.MsgNakesWebOnly, Code: service.CodeNakesWebOnly}
	}
	return &service.TokenResponse{Message: "Login berhasil", User: parentUser, Token: "parent-token"}, nil
}

func (f *loginAuth) WebLogin(ctx context.Context, req service.LoginRequest) (*store.Session, *domain.User, error) {
	sess, u, err := f.fakeAuth.WebLogin(ctx, req)
	if sess != nil {
		sess.ExpiresAt = time.Now().Add(time.Hour)
	}
	return sess, u, err
}

type fakeReports struct {
	service.PmtReportService
	query service.ReportQuery
	page  repository.Page
	rows  []*domain.PmtReportRow
}

func (f *fakeReports) Report(_ context.Context, q service.ReportQuery, page repository.Page) (*service.PmtReport, error) {
	f.query, f.page = q, page
	return &service.PmtReport{
		Rows:  f.rows,
		Total: 21,
		Stats: pmt.StatsFromPortions(4, []string{"habis", "half"}),
	}, nil
}

func (f *fakeReports) ExportRows(_ context.Context, q service.ReportQuery) ([]*domain.PmtReportRow, error) {
	f.query = q
	return f.rows, nil
}

func (f *fakeReports) ExportFilename() string { return "laporan-pmt-2025-03-10.xlsx" }

func reportRows() []*domain.PmtReportRow {
	notes := "Dihabiskan bersama kakak"
	return []*domain.PmtReportRow{
		{
			LogID: 1, ScheduleID: 10, ChildID: 3,
			ChildName: "Budi", ParentName: "Sari", MenuName: "Bubur Kacang Hijau",
			ScheduledDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Portion:       "habis",
			Notes:         &notes,
			LoggedAt:      time.Date(2025, 3, 3, 12, 30, 0, 0, time.UTC),
		},
		{
			LogID: 2, ScheduleID: 11, ChildID: 4,
			ChildName: "Citra", ParentName: "Dewi", MenuName: "Nugget Tempe",
			ScheduledDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			Portion:       "half",
			LoggedAt:      time.Date(2025, 3, 4, 18, 5, 0, 0, time.UTC),
		},
	}
}

func newTestRouter(auth service.AuthService, reports service.PmtReportService, pmtSvc service.PmtService) *Router {
	deps := HandlerDeps{Errors: testErrors(), Logger: zap.NewNop()}
	r := NewRouter(deps.Errors, deps.Logger)
	r.RegisterParentRoutes(&ParentAPI{
		Auth:          NewAuthHandler(auth, deps),
		Children:      NewChildHandler(nil, nil, nil, nil, deps),
		Foods:         NewFoodHandler(nil, deps),
		Screenings:    NewScreeningHandler(nil, deps),
		Pmt:           NewPmtHandler(pmtSvc, deps),
		Notifications: NewNotificationHandler(nil, deps),
	}, auth)
	r.RegisterWebRoutes(&WebAPI{
		Auth:       NewWebAuthHandler(auth, testCookie, deps),
		Dashboard:  NewDashboardHandler(nil, deps),
		Parents:    NewParentHandler(nil, deps),
		Children:   NewWebChildHandler(nil, deps),
		Foods:      NewFoodHandler(nil, deps),
		Programs:   NewProgramHandler(nil, deps),
		Schedules:  NewScheduleHandler(pmtSvc, deps),
		Reports:    NewReportHandler(reports, deps),
		Screenings: NewWebScreeningHandler(nil, nil, deps),
	}, auth, testCookie)
	return r
}

func TestRouter_Healthz(t *testing.T) {
	r := newTestRouter(&loginAuth{}, &fakeReports{}, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_GuardsEveryProtectedRoute(t *testing.T) {
	r := newTestRouter(&loginAuth{}, &fakeReports{}, nil)
	for _, target := range []string{
		"GET /api/v1/children",
		"GET /api/v1/children/3/screenings",
		"POST /api/v1/pmt-schedules/5/log",
		"GET /api/v1/notifications",
		"GET /web/dashboard",
		"GET /web/pmt-reports/export",
		"POST /web/screenings/4/interventions/2/complete",
	} {
		method, path, _ := strings.Cut(target, " ")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	r := newTestRouter(&loginAuth{}, &fakeReports{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"sari@example.com","password":"rahasia123"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decodeBody[service.TokenResponse](t, rec)
	assert.Equal(t, "parent-token", tok.Token)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ani@puskesmas.id","password":"rahasia123"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	raw := decodeBody[map[string]any](t, rec)
	assert.Equal(t, service.CodeNakesWebOnly, raw["error_code"])
	assert.NotContains(t, raw, "code")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_MeWithToken(t *testing.T) {
	r := newTestRouter(&loginAuth{}, &fakeReports{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer parent-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sari@example.com", decodeBody[Result[domain.User]](t, rec).Data.Email)
}

func TestWebAuthHandler_LoginSetsCookie(t *testing.T) {
	r := newTestRouter(&loginAuth{}, &fakeReports{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/web/login",
		strings.NewReader(`{"email":"ani@puskesmas.id","password":"rahasia123"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookie.Name, cookies[0].Name)
	assert.Equal(t, "nakes-session", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/web/login",
		strings.NewReader(`{"email":"sari@example.com","password":"rahasia123"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.MsgParentMobileOnly, decodeBody[ErrorBody](t, rec).Message)
	assert.Empty(t, rec.Result().Cookies())
}

func webRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: "nakes-session"})
	return req
}

func TestReportHandler_Index(t *testing.T) {
	reports := &fakeReports{rows: reportRows()}
	r := newTestRouter(&loginAuth{}, reports, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, webRequest(http.MethodGet, "/web/pmt-reports?date_from=2025-03-01&program_id=7&portion=habis&search=%20budi%20&page=2&per_page=10"))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, service.ReportQuery{DateFrom: "2025-03-01", ProgramID: ptrInt64(7), Portion: "habis", Search: "budi"}, reports.query)
	assert.Equal(t, repository.Page{Page: 2, Size: 10}, reports.page)

	body := decodeBody[struct {
		Data []struct {
			ChildName      string `json:"child_name"`
			PortionLabel   string `json:"portion_label"`
			PortionPercent int    `json:"portion_percentage"`
		} `json:"data"`
		Meta  PageMeta  `json:"meta"`
		Stats pmt.Stats `json:"stats"`
	}](t, rec)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Budi", body.Data[0].ChildName)
	assert.Equal(t, 100, body.Data[0].PortionPercent)
	assert.Equal(t, pmt.Label("half"), body.Data[1].PortionLabel)
	assert.Equal(t, PageMeta{CurrentPage: 2, PerPage: 10, Total: 21, LastPage: 3}, body.Meta)
}

func TestReportHandler_Export(t *testing.T) {
	reports := &fakeReports{rows: reportRows()}
	r := newTestRouter(&loginAuth{}, reports, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, webRequest(http.MethodGet, "/web/pmt-reports/export?date_to=2025-03-31"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="laporan-pmt-2025-03-10.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "2025-03-31", reports.query.DateTo)
	assert.NotZero(t, rec.Body.Len())
}

type fakePmt struct {
	service.PmtService
	schedules []*domain.PmtSchedule
	logged    service.LogRequest
}

func (f *fakePmt) ListSchedules(context.Context, *domain.User, int64, service.DateRange) ([]*domain.PmtSchedule, error) {
	return f.schedules, nil
}

func (f *fakePmt) CreateLog(_ context.Context, _ *domain.User, scheduleID int64, req service.LogRequest) (*domain.PmtLog, error) {
	f.logged = req
	return &domain.PmtLog{ID: 1, ScheduleID: scheduleID, Portion: *req.Portion, LoggedAt: time.Now()}, nil
}

func (f *fakePmt) UpdateLog(ctx context.Context, user *domain.User, scheduleID int64, req service.LogRequest) (*domain.PmtLog, error) {
	return f.CreateLog(ctx, user, scheduleID, req)
}

func (f *fakePmt) RecordDistribution(ctx context.Context, scheduleID int64, req service.LogRequest) (*domain.PmtLog, error) {
	return f.CreateLog(ctx, nil, scheduleID, req)
}

type logView struct {
	Portion           string `json:"portion"`
	PortionPercentage *int   `json:"portion_percentage"`
	PortionLabel      string `json:"portion_label"`
}

func TestPmtHandler_LogResponsesCarryPortionView(t *testing.T) {
	svc := &fakePmt{}
	r := newTestRouter(&loginAuth{}, &fakeReports{}, svc)

	tests := []struct {
		name    string
		req     *http.Request
		status  int
		portion string
		percent int
		label   string
	}{
		{
			name:   "create",
			req:    httptest.NewRequest(http.MethodPost, "/api/v1/pmt-schedules/5/log", strings.NewReader(`{"portion":"half"}`)),
			status: http.StatusCreated, portion: "half", percent: 50, label: "Setengah (50%)",
		},
		{
			name:   "update",
			req:    httptest.NewRequest(http.MethodPut, "/api/v1/pmt-schedules/5/log", strings.NewReader(`{"portion":"quarter"}`)),
			status: http.StatusOK, portion: "quarter", percent: 25, label: "Seperempat (25%)",
		},
		{
			name:   "untouched",
			req:    httptest.NewRequest(http.MethodPost, "/api/v1/pmt-schedules/5/log", strings.NewReader(`{"portion":"none"}`)),
			status: http.StatusCreated, portion: "none", percent: 0, label: "Tidak dimakan (0%)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Header.Set("Authorization", "Bearer parent-token")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, tt.req)
			require.Equal(t, tt.status, rec.Code)

			body := decodeBody[Result[logView]](t, rec)
			assert.Equal(t, tt.portion, body.Data.Portion)
			require.NotNil(t, body.Data.PortionPercentage)
			assert.Equal(t, tt.percent, *body.Data.PortionPercentage)
			assert.Equal(t, tt.label, body.Data.PortionLabel)
		})
	}

	t.Run("distribution", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/web/pmt-schedules/5/distribution", strings.NewReader(`{"portion":"habis"}`))
		req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: "nakes-session"})
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[Result[logView]](t, rec)
		require.NotNil(t, body.Data.PortionPercentage)
		assert.Equal(t, 100, *body.Data.PortionPercentage)
		assert.Equal(t, "Habis (100%)", body.Data.PortionLabel)
	})
}

func TestPmtHandler_ScheduleListEmbedsLogView(t *testing.T) {
	svc := &fakePmt{schedules: []*domain.PmtSchedule{
		{ID: 5, ChildID: 3, Log: &domain.PmtLog{ID: 1, ScheduleID: 5, Portion: "half"}},
		{ID: 6, ChildID: 3},
	}}
	r := newTestRouter(&loginAuth{}, &fakeReports{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/children/3/pmt-schedules", nil)
	req.Header.Set("Authorization", "Bearer parent-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[Result[[]struct {
		ID  int64    `json:"id"`
		Log *logView `json:"log"`
	}]](t, rec)
	require.Len(t, body.Data, 2)
	require.NotNil(t, body.Data[0].Log)
	require.NotNil(t, body.Data[0].Log.PortionPercentage)
	assert.Equal(t, 50, *body.Data[0].Log.PortionPercentage)
	assert.Equal(t, "Setengah (50%)", body.Data[0].Log.PortionLabel)
	assert.Nil(t, body.Data[1].Log)
}

func ptrInt64(v int64) *int64 { return &v }
