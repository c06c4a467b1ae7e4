package service

import (
	"context"
	"errors"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/nutrition"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

const pmtNotesMax = 1000

// PmtService handles the feeding schedules and the consumption logs
// recorded against them.
type PmtService interface {
	Menus(ctx context.Context, ageMonths *int) ([]*domain.PmtMenu, error)
	ListSchedules(ctx context.Context, user *domain.User, childID int64, r DateRange) ([]*domain.PmtSchedule, error)
	SchedulesOn(ctx context.Context, date string) ([]*domain.PmtSchedule, error)
	CreateSchedule(ctx context.Context, user *domain.User, childID int64, req ScheduleRequest) (*domain.PmtSchedule, error)
	UpdateSchedule(ctx context.Context, id int64, req ScheduleRequest) (*domain.PmtSchedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
	Progress(ctx context.Context, user *domain.User, childID int64, r DateRange) (*PmtProgress, error)

	CreateLog(ctx context.Context, user *domain.User, scheduleID int64, req LogRequest) (*domain.PmtLog, error)
	UpdateLog(ctx context.Context, user *domain.User, scheduleID int64, req LogRequest) (*domain.PmtLog, error)
	// RecordDistribution is the nakes variant: it creates the log or
	// overwrites the existing one.
	RecordDistribution(ctx context.Context, scheduleID int64, req LogRequest) (*domain.PmtLog, error)
}

// DateRange is an optional inclusive date window from query strings.
type DateRange struct {
	From string
	To   string
}

type ScheduleRequest struct {
	MenuID        *int64  `json:"menu_id"`
	ScheduledDate *string `json:"scheduled_date"`
}

type LogRequest struct {
	Portion  *string `json:"portion"`
	FoodID   *int64  `json:"food_id"`
	PhotoURL *string `json:"photo_url"`
	Notes    *string `json:"notes"`
}

// PmtProgress is a child's compliance over a period.
type PmtProgress struct {
	From string `json:"from"`
	To   string `json:"to"`
	pmt.Stats
}

type pmtService struct {
	children repository.ChildrenRepository
	foods    repository.FoodsRepository
	repo     repository.PmtRepository
	clock    Clock
	logger   *zap.Logger
}

func NewPmtService(children repository.ChildrenRepository, foods repository.FoodsRepository, repo repository.PmtRepository, clock Clock, logger *zap.Logger) PmtService {
	return &pmtService{children: children, foods: foods, repo: repo, clock: clock, logger: logger}
}

func (s *pmtService) Menus(ctx context.Context, ageMonths *int) ([]*domain.PmtMenu, error) {
	if ageMonths != nil && *ageMonths < 0 {
		return nil, Invalid("age_months", "Usia tidak valid.")
	}
	return s.repo.ListMenus(ctx, ageMonths)
}

// monthRange resolves r, defaulting to the current month.
func (s *pmtService) monthRange(r DateRange) (time.Time, time.Time, error) {
	today := s.clock.Today()
	from, to := nutrition.StartOfMonth(today), nutrition.EndOfMonth(today)
	v := &ValidationError{}
	if r.From != "" {
		if d, ok := parseDate(r.From); ok {
			from = d
		} else {
			v.Add("from", "Format tanggal tidak valid.")
		}
	}
	if r.To != "" {
		if d, ok := parseDate(r.To); ok {
			to = d
		} else {
			v.Add("to", "Format tanggal tidak valid.")
		}
	}
	if err := v.OrNil(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, Invalid("to", "Tanggal akhir harus setelah tanggal awal.")
	}
	return from, to, nil
}

func (s *pmtService) ListSchedules(ctx context.Context, user *domain.User, childID int64, r DateRange) ([]*domain.PmtSchedule, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	from, to, err := s.monthRange(r)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSchedules(ctx, repository.ScheduleFilters{ChildID: &childID, From: &from, To: &to})
}

func (s *pmtService) SchedulesOn(ctx context.Context, date string) ([]*domain.PmtSchedule, error) {
	day := s.clock.Today()
	if date != "" {
		d, ok := parseDate(date)
		if !ok {
			return nil, Invalid("date", "Format tanggal tidak valid.")
		}
		day = d
	}
	return s.repo.ListSchedules(ctx, repository.ScheduleFilters{From: &day, To: &day})
}

// scheduleFields validates the menu and date of req onto sc.
func (s *pmtService) scheduleFields(ctx context.Context, sc *domain.PmtSchedule, req ScheduleRequest, create bool) error {
	v := &ValidationError{}
	if req.MenuID != nil {
		menu, err := s.repo.GetMenu(ctx, *req.MenuID)
		if err != nil {
			return err
		}
		if menu == nil {
			v.Add("menu_id", "Menu PMT tidak ditemukan.")
		} else {
			sc.MenuID = menu.ID
			sc.Menu = menu
		}
	} else if create {
		v.Add("menu_id", "Menu PMT wajib dipilih.")
	}
	if req.ScheduledDate != nil {
		d, ok := parseDate(*req.ScheduledDate)
		switch {
		case !ok:
			v.Add("scheduled_date", "Format tanggal tidak valid.")
		case d.Before(s.clock.Today()):
			v.Add("scheduled_date", MsgPastDate)
		default:
			sc.ScheduledDate = d
		}
	} else if create {
		v.Add("scheduled_date", "Tanggal jadwal wajib diisi.")
	}
	return v.OrNil()
}

func (s *pmtService) CreateSchedule(ctx context.Context, user *domain.User, childID int64, req ScheduleRequest) (*domain.PmtSchedule, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	sc := &domain.PmtSchedule{ChildID: childID}
	if err := s.scheduleFields(ctx, sc, req, true); err != nil {
		return nil, err
	}
	if _, err := s.repo.CreateSchedule(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("scheduled_date", "Jadwal PMT untuk tanggal ini sudah ada.")
		}
		return nil, err
	}
	return sc, nil
}

func (s *pmtService) schedule(ctx context.Context, id int64) (*domain.PmtSchedule, error) {
	sc, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, NotFound(MsgPmtScheduleNotFound)
	}
	return sc, nil
}

func (s *pmtService) UpdateSchedule(ctx context.Context, id int64, req ScheduleRequest) (*domain.PmtSchedule, error) {
	sc, err := s.schedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.scheduleFields(ctx, sc, req, false); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSchedule(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Invalid("scheduled_date", "Jadwal PMT untuk tanggal ini sudah ada.")
		}
		return nil, err
	}
	return sc, nil
}

func (s *pmtService) DeleteSchedule(ctx context.Context, id int64) error {
	if _, err := s.schedule(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteSchedule(ctx, id)
}

func (s *pmtService) Progress(ctx context.Context, user *domain.User, childID int64, r DateRange) (*PmtProgress, error) {
	if _, err := authorizedChild(ctx, s.children, user, childID); err != nil {
		return nil, err
	}
	from, to, err := s.monthRange(r)
	if err != nil {
		return nil, err
	}
	scheduled, b, err := s.repo.ScheduleStats(ctx, repository.StatsFilters{ChildID: &childID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	return &PmtProgress{
		From:  from.Format(dateLayout),
		To:    to.Format(dateLayout),
		Stats: pmt.ComputeStats(scheduled, loggedCount(b), b),
	}, nil
}

func loggedCount(b pmt.Breakdown) int { return b.Habis + b.Half + b.Quarter + b.None }

// ownedSchedule loads a schedule the parent may log against.
func (s *pmtService) ownedSchedule(ctx context.Context, user *domain.User, id int64) (*domain.PmtSchedule, error) {
	sc, err := s.schedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsNakes() && sc.OwnerID != user.ID {
		return nil, Forbidden(MsgPmtScheduleForbidden)
	}
	return sc, nil
}

// logFields validates req onto l.
func (s *pmtService) logFields(ctx context.Context, l *domain.PmtLog, req LogRequest, create bool) error {
	v := &ValidationError{}
	if req.Portion != nil {
		if pmt.ValidPortion(*req.Portion) {
			l.Portion = *req.Portion
		} else {
			v.Add("portion", "Porsi harus habis, half, quarter, atau none.")
		}
	} else if create {
		v.Add("portion", "Porsi wajib diisi.")
	}
	if req.FoodID != nil {
		f, err := s.foods.GetFood(ctx, *req.FoodID)
		if err != nil {
			return err
		}
		if f == nil {
			v.Add("food_id", "Makanan tidak ditemukan.")
		} else {
			l.FoodID = &f.ID
		}
	}
	if req.PhotoURL != nil {
		l.PhotoURL = req.PhotoURL
	}
	if req.Notes != nil {
		if chars(*req.Notes) > pmtNotesMax {
			v.Add("notes", "Catatan maksimal 1000 karakter.")
		}
		l.Notes = req.Notes
	}
	return v.OrNil()
}

func (s *pmtService) CreateLog(ctx context.Context, user *domain.User, scheduleID int64, req LogRequest) (*domain.PmtLog, error) {
	sc, err := s.ownedSchedule(ctx, user, scheduleID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetLogBySchedule(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Unprocessable(MsgPmtAlreadyLogged)
	}
	l := &domain.PmtLog{ScheduleID: sc.ID, LoggedAt: s.clock.Now()}
	if err := s.logFields(ctx, l, req, true); err != nil {
		return nil, err
	}
	if _, err := s.repo.CreateLog(ctx, l); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Unprocessable(MsgPmtAlreadyLogged)
		}
		return nil, err
	}
	s.logger.Info("PMT consumption logged",
		zap.Int64("schedule_id", sc.ID),
		zap.Int64("child_id", sc.ChildID),
		zap.String("portion", l.Portion),
	)
	return l, nil
}

func (s *pmtService) UpdateLog(ctx context.Context, user *domain.User, scheduleID int64, req LogRequest) (*domain.PmtLog, error) {
	sc, err := s.ownedSchedule(ctx, user, scheduleID)
	if err != nil {
		return nil, err
	}
	l, err := s.repo.GetLogBySchedule(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, NotFound(MsgPmtLogNotFound)
	}
	if err := s.logFields(ctx, l, req, false); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLog(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *pmtService) RecordDistribution(ctx context.Context, scheduleID int64, req LogRequest) (*domain.PmtLog, error) {
	sc, err := s.schedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	l, err := s.repo.GetLogBySchedule(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	create := l == nil
	if create {
		l = &domain.PmtLog{ScheduleID: sc.ID, LoggedAt: s.clock.Now()}
	}
	if err := s.logFields(ctx, l, req, create); err != nil {
		return nil, err
	}
	if create {
		if _, err := s.repo.CreateLog(ctx, l); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, Unprocessable(MsgPmtAlreadyLogged)
			}
			return nil, err
		}
	} else if err := s.repo.UpdateLog(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
