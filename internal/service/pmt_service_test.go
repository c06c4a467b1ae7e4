package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPmtHarness() (PmtService, *fakePmt) {
	repo := newFakePmt()
	repo.menus[1] = &domain.PmtMenu{ID: 1, Name: "Bubur Kacang Hijau", IsActive: true}
	repo.schedules[20] = &domain.PmtSchedule{ID: 20, ChildID: 7, MenuID: 1, ScheduledDate: day(2025, 3, 10), OwnerID: parentUser.ID}
	children := newFakeChildren(&domain.Child{ID: 7, UserID: parentUser.ID, Birthday: day(2024, 3, 1)})
	foods := &fakeFoods{foods: map[int64]*domain.Food{3: {ID: 3, Name: "Telur"}}}
	return NewPmtService(children, foods, repo, testClock(), zap.NewNop()), repo
}

func TestPmtService_CreateLog(t *testing.T) {
	svc, repo := newPmtHarness()

	l, err := svc.CreateLog(context.Background(), parentUser, 20, LogRequest{Portion: ptr(pmt.PortionHalf), FoodID: ptr(int64(3))})
	require.NoError(t, err)

	assert.Equal(t, pmt.PortionHalf, l.Portion)
	assert.Equal(t, testNow, l.LoggedAt)
	require.Contains(t, repo.logs, int64(20))
	assert.Equal(t, int64(3), *repo.logs[20].FoodID)
}

func TestPmtService_CreateLogTwice(t *testing.T) {
	svc, _ := newPmtHarness()
	ctx := context.Background()
	_, err := svc.CreateLog(ctx, parentUser, 20, LogRequest{Portion: ptr(pmt.PortionHabis)})
	require.NoError(t, err)

	_, err = svc.CreateLog(ctx, parentUser, 20, LogRequest{Portion: ptr(pmt.PortionNone)})

	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusUnprocessableEntity, be.Status)
	assert.Equal(t, MsgPmtAlreadyLogged, be.Message)
}

func TestPmtService_LogForeignSchedule(t *testing.T) {
	svc, repo := newPmtHarness()

	_, err := svc.CreateLog(context.Background(), otherUser, 20, LogRequest{Portion: ptr(pmt.PortionHabis)})

	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusForbidden, be.Status)
	assert.Equal(t, MsgPmtScheduleForbidden, be.Message)
	assert.Empty(t, repo.logs)
}

func TestPmtService_UpdateMissingLog(t *testing.T) {
	svc, _ := newPmtHarness()

	_, err := svc.UpdateLog(context.Background(), parentUser, 20, LogRequest{Portion: ptr(pmt.PortionQuarter)})

	require.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, MsgPmtLogNotFound, err.Error())
}

func TestPmtService_LogValidation(t *testing.T) {
	svc, _ := newPmtHarness()

	_, err := svc.CreateLog(context.Background(), parentUser, 20, LogRequest{Portion: ptr("most"), FoodID: ptr(int64(404))})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "portion")
	assert.Contains(t, ve.Fields, "food_id")
}

func TestPmtService_NotesLimitCountsCharacters(t *testing.T) {
	svc, _ := newPmtHarness()
	ctx := context.Background()

	// 1000 characters, 2000 bytes.
	_, err := svc.CreateLog(ctx, parentUser, 20, LogRequest{Portion: ptr(pmt.PortionHabis), Notes: ptr(strings.Repeat("é", 1000))})
	require.NoError(t, err)

	_, err = svc.UpdateLog(ctx, parentUser, 20, LogRequest{Notes: ptr(strings.Repeat("é", 1001))})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "notes")
}

func TestPmtService_CreateSchedule(t *testing.T) {
	svc, repo := newPmtHarness()
	ctx := context.Background()

	s, err := svc.CreateSchedule(ctx, parentUser, 7, ScheduleRequest{MenuID: ptr(int64(1)), ScheduledDate: ptr("2025-03-11")})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 11), s.ScheduledDate)
	assert.Len(t, repo.schedules, 2)

	_, err = svc.CreateSchedule(ctx, parentUser, 7, ScheduleRequest{MenuID: ptr(int64(1)), ScheduledDate: ptr("2025-03-09")})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{MsgPastDate}, ve.Fields["scheduled_date"])

	_, err = svc.CreateSchedule(ctx, parentUser, 7, ScheduleRequest{MenuID: ptr(int64(99)), ScheduledDate: ptr("2025-03-12")})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "menu_id")
}

func TestPmtService_ProgressDefaultsToCurrentMonth(t *testing.T) {
	svc, repo := newPmtHarness()
	repo.scheduled = 10
	repo.breakdown = pmt.Breakdown{Habis: 4, Half: 2, Quarter: 1, None: 1}

	p, err := svc.Progress(context.Background(), parentUser, 7, DateRange{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", p.From)
	assert.Equal(t, "2025-03-31", p.To)
	assert.Equal(t, 8, p.TotalLogged)
	assert.Equal(t, 2, p.Pending)
	assert.Equal(t, 80.0, p.ComplianceRate)
	// (400 + 100 + 25) / 800 × 100 = 65.625
	assert.Equal(t, 65.6, p.ConsumptionRate)

	require.Len(t, repo.statsCalls, 1)
	assert.Equal(t, int64(7), *repo.statsCalls[0].ChildID)
}

func TestPmtProgramService_Create(t *testing.T) {
	repo := newFakePmt()
	repo.menus[1] = &domain.PmtMenu{ID: 1, Name: "Bubur", IsActive: true}
	notifier := &fakeNotifier{}
	children := newFakeChildren(&domain.Child{ID: 7, UserID: parentUser.ID, Name: "Budi"})
	svc := NewPmtProgramService(children, repo, notifier, testClock(), zap.NewNop())

	p, err := svc.Create(context.Background(), nakesUser, ProgramRequest{
		ChildID: ptr(int64(7)), StartDate: ptr("2025-03-10"), DurationDays: ptr(90),
	})
	require.NoError(t, err)

	assert.Equal(t, day(2025, 6, 7), p.EndDate)
	assert.Len(t, repo.created, 90)
	assert.Equal(t, domain.ProgramActive, p.Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, parentUser.ID, notifier.sent[0].UserID)
	assert.Equal(t, NotifyProgramCreated, notifier.sent[0].Type)

	_, err = svc.Create(context.Background(), nakesUser, ProgramRequest{
		ChildID: ptr(int64(7)), StartDate: ptr("2025-04-01"), DurationDays: ptr(120),
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{MsgActiveProgramExists}, ve.Fields["child_id"])
}

func TestPmtProgramService_CreateValidation(t *testing.T) {
	svc := NewPmtProgramService(newFakeChildren(), newFakePmt(), nil, testClock(), zap.NewNop())

	_, err := svc.Create(context.Background(), nakesUser, ProgramRequest{
		ChildID: ptr(int64(404)), StartDate: ptr("2025-03-01"), DurationDays: ptr(60),
	})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "child_id")
	assert.Equal(t, []string{MsgPastDate}, ve.Fields["start_date"])
	assert.Contains(t, ve.Fields, "duration_days")
}

func TestPmtProgramService_Discontinue(t *testing.T) {
	repo := newFakePmt()
	repo.programs[1] = &domain.PmtProgram{ID: 1, ChildID: 7, Status: domain.ProgramActive}
	repo.programs[2] = &domain.PmtProgram{ID: 2, ChildID: 8, Status: domain.ProgramCompleted}
	svc := NewPmtProgramService(newFakeChildren(), repo, nil, testClock(), zap.NewNop())
	ctx := context.Background()

	p, err := svc.Discontinue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgramDiscontinued, p.Status)
	assert.Equal(t, domain.ProgramDiscontinued, repo.programs[1].Status)

	_, err = svc.Discontinue(ctx, 2)
	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, MsgProgramNotActive, be.Message)

	_, err = svc.Discontinue(ctx, 3)
	assert.True(t, errors.Is(err, ErrNotFound))
}

type fakeReportPmt struct {
	*fakePmt
	rowFilters []domain.PmtReportFilter
}

func (f *fakeReportPmt) ReportRows(_ context.Context, filters domain.PmtReportFilter, _ *repository.Page) ([]*domain.PmtReportRow, int, error) {
	f.rowFilters = append(f.rowFilters, filters)
	return []*domain.PmtReportRow{{LogID: 1, Portion: pmt.PortionHabis}}, 1, nil
}

func TestPmtReportService_StatsIgnorePortionAndSearch(t *testing.T) {
	repo := &fakeReportPmt{fakePmt: newFakePmt()}
	repo.scheduled = 4
	repo.breakdown = pmt.Breakdown{Habis: 2}
	svc := NewPmtReportService(repo, testClock(), zap.NewNop())

	rep, err := svc.Report(context.Background(), ReportQuery{
		DateFrom: "2025-03-01", DateTo: "2025-03-31", ProgramID: ptr(int64(5)),
		Portion: pmt.PortionHabis, Search: "budi",
	}, repository.Page{Page: 1, Size: 15})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Total)
	assert.Equal(t, 50.0, rep.Stats.ComplianceRate)
	require.Len(t, repo.rowFilters, 1)
	assert.Equal(t, "budi", repo.rowFilters[0].Search)
	assert.Equal(t, pmt.PortionHabis, repo.rowFilters[0].Portion)

	require.Len(t, repo.statsCalls, 1)
	assert.Equal(t, int64(5), *repo.statsCalls[0].ProgramID)
	assert.Equal(t, day(2025, 3, 1), *repo.statsCalls[0].From)
	assert.Nil(t, repo.statsCalls[0].ChildID)

	assert.Equal(t, "laporan-pmt-2025-03-10.xlsx", svc.ExportFilename())
}

func TestPmtReportService_RejectsBadFilters(t *testing.T) {
	svc := NewPmtReportService(&fakeReportPmt{fakePmt: newFakePmt()}, testClock(), zap.NewNop())

	_, err := svc.Report(context.Background(), ReportQuery{DateFrom: "2025-03-31", DateTo: "2025-03-01", Portion: "lots"}, repository.Page{})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "date_to")
	assert.Contains(t, ve.Fields, "portion")
}
