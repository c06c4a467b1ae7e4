package repository

import (
	"context"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
)

// PmtRepository stores menus, programs, schedules and consumption logs.
type PmtRepository interface {
	// ListMenus returns active menus; ageMonths keeps menus whose range contains it
	// (or that have no range).
	ListMenus(ctx context.Context, ageMonths *int) ([]*domain.PmtMenu, error)
	GetMenu(ctx context.Context, id int64) (*domain.PmtMenu, error)
	FirstActiveMenu(ctx context.Context) (*domain.PmtMenu, error)

	ListSchedules(ctx context.Context, filters ScheduleFilters) ([]*domain.PmtSchedule, error)
	// GetSchedule loads the schedule with its menu, log and owning parent id.
	GetSchedule(ctx context.Context, id int64) (*domain.PmtSchedule, error)
	CreateSchedule(ctx context.Context, s *domain.PmtSchedule) (int64, error)
	UpdateSchedule(ctx context.Context, s *domain.PmtSchedule) error
	DeleteSchedule(ctx context.Context, id int64) error
	CountPendingSchedules(ctx context.Context, childID int64, date time.Time) (int, error)

	CreateLog(ctx context.Context, l *domain.PmtLog) (int64, error)
	UpdateLog(ctx context.Context, l *domain.PmtLog) error
	GetLogBySchedule(ctx context.Context, scheduleID int64) (*domain.PmtLog, error)

	// CreateProgram inserts the program, drops the child's schedules inside its
	// date range and creates one schedule per date with menuID.
	CreateProgram(ctx context.Context, p *domain.PmtProgram, dates []time.Time, menuID int64) error
	GetProgram(ctx context.Context, id int64) (*domain.PmtProgram, error)
	ActiveProgramForChild(ctx context.Context, childID int64) (*domain.PmtProgram, error)
	ListPrograms(ctx context.Context, filters ProgramFilters, page Page) ([]*domain.PmtProgram, int, error)
	SetProgramStatus(ctx context.Context, id int64, status string) error

	// ScheduleStats counts schedules by scheduled_date and their logs by portion.
	ScheduleStats(ctx context.Context, filters StatsFilters) (scheduled int, breakdown pmt.Breakdown, err error)
	// ReportRows lists logs by logged_at DESC; a nil page returns every row.
	ReportRows(ctx context.Context, filters domain.PmtReportFilter, page *Page) ([]*domain.PmtReportRow, int, error)
}

// ScheduleFilters narrows ListSchedules. Dates are inclusive.
type ScheduleFilters struct {
	ChildID *int64
	From    *time.Time
	To      *time.Time
}

// ProgramFilters narrows ListPrograms.
type ProgramFilters struct {
	Status string
	Search string // child or parent name
}

// StatsFilters narrows ScheduleStats on scheduled_date.
type StatsFilters struct {
	ChildID   *int64
	ProgramID *int64
	From      *time.Time
	To        *time.Time
}
