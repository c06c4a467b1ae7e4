package service

import (
	"context"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

const msgNoActiveMenu = "Belum ada menu PMT aktif."

// PmtProgramService enrolls children in 90 or 120 day feeding programs.
type PmtProgramService interface {
	List(ctx context.Context, filters repository.ProgramFilters, page repository.Page) ([]*ProgramView, int, error)
	Get(ctx context.Context, id int64) (*ProgramDetail, error)
	Create(ctx context.Context, user *domain.User, req ProgramRequest) (*domain.PmtProgram, error)
	Discontinue(ctx context.Context, id int64) (*domain.PmtProgram, error)
}

type ProgramRequest struct {
	ChildID      *int64  `json:"child_id"`
	StartDate    *string `json:"start_date"`
	DurationDays *int    `json:"duration_days"`
	Notes        *string `json:"notes"`
}

// ProgramView is a program with its derived progress.
type ProgramView struct {
	*domain.PmtProgram
	pmt.ProgramProgress
}

// ProgramDetail adds the schedules and their consumption stats.
type ProgramDetail struct {
	ProgramView
	Stats     pmt.Stats             `json:"stats"`
	Schedules []*domain.PmtSchedule `json:"schedules"`
}

type pmtProgramService struct {
	children repository.ChildrenRepository
	repo     repository.PmtRepository
	notifier NotificationService
	clock    Clock
	logger   *zap.Logger
}

func NewPmtProgramService(children repository.ChildrenRepository, repo repository.PmtRepository, notifier NotificationService, clock Clock, logger *zap.Logger) PmtProgramService {
	return &pmtProgramService{children: children, repo: repo, notifier: notifier, clock: clock, logger: logger}
}

func (s *pmtProgramService) view(p *domain.PmtProgram) *ProgramView {
	return &ProgramView{PmtProgram: p, ProgramProgress: pmt.ComputeProgramProgress(p, p.LoggedDays, s.clock.Today())}
}

func (s *pmtProgramService) List(ctx context.Context, filters repository.ProgramFilters, page repository.Page) ([]*ProgramView, int, error) {
	switch filters.Status {
	case "", domain.ProgramActive, domain.ProgramCompleted, domain.ProgramDiscontinued:
	default:
		return nil, 0, Invalid("status", "Status program tidak valid.")
	}
	programs, total, err := s.repo.ListPrograms(ctx, filters, page)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*ProgramView, 0, len(programs))
	for _, p := range programs {
		out = append(out, s.view(p))
	}
	return out, total, nil
}

func (s *pmtProgramService) program(ctx context.Context, id int64) (*domain.PmtProgram, error) {
	p, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NotFound(MsgProgramNotFound)
	}
	return p, nil
}

func (s *pmtProgramService) Get(ctx context.Context, id int64) (*ProgramDetail, error) {
	p, err := s.program(ctx, id)
	if err != nil {
		return nil, err
	}
	scheduled, b, err := s.repo.ScheduleStats(ctx, repository.StatsFilters{ProgramID: &p.ID})
	if err != nil {
		return nil, err
	}
	schedules, err := s.repo.ListSchedules(ctx, repository.ScheduleFilters{ChildID: &p.ChildID, From: &p.StartDate, To: &p.EndDate})
	if err != nil {
		return nil, err
	}
	logged := loggedCount(b)
	p.LoggedDays = logged
	p.TotalDays = scheduled
	return &ProgramDetail{
		ProgramView: *s.view(p),
		Stats:       pmt.ComputeStats(scheduled, logged, b),
		Schedules:   schedules,
	}, nil
}

func (s *pmtProgramService) Create(ctx context.Context, user *domain.User, req ProgramRequest) (*domain.PmtProgram, error) {
	v := &ValidationError{}
	var child *domain.Child
	if req.ChildID == nil {
		v.Add("child_id", "Anak wajib dipilih.")
	} else {
		c, err := s.children.GetChild(ctx, *req.ChildID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			v.Add("child_id", "Data anak tidak ditemukan.")
		}
		child = c
	}

	p := &domain.PmtProgram{Status: domain.ProgramActive, CreatedBy: &user.ID}
	if req.StartDate == nil {
		v.Add("start_date", "Tanggal mulai wajib diisi.")
	} else if d, ok := parseDate(*req.StartDate); !ok {
		v.Add("start_date", "Format tanggal tidak valid.")
	} else if d.Before(s.clock.Today()) {
		v.Add("start_date", MsgPastDate)
	} else {
		p.StartDate = d
	}
	if req.DurationDays == nil || !pmt.ValidDuration(*req.DurationDays) {
		v.Add("duration_days", "Durasi program harus 90 atau 120 hari.")
	} else {
		p.DurationDays = *req.DurationDays
	}
	if req.Notes != nil {
		if chars(*req.Notes) > pmtNotesMax {
			v.Add("notes", "Catatan maksimal 1000 karakter.")
		}
		p.Notes = req.Notes
	}

	if child != nil {
		active, err := s.repo.ActiveProgramForChild(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			v.Add("child_id", MsgActiveProgramExists)
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	menu, err := s.repo.FirstActiveMenu(ctx)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, Unprocessable(msgNoActiveMenu)
	}

	p.ChildID = child.ID
	p.EndDate = pmt.EndDate(p.StartDate, p.DurationDays)
	p.ChildName = child.Name
	if err := s.repo.CreateProgram(ctx, p, pmt.ScheduleDates(p.StartDate, p.EndDate), menu.ID); err != nil {
		return nil, err
	}
	s.logger.Info("PMT program created",
		zap.Int64("program_id", p.ID),
		zap.Int64("child_id", child.ID),
		zap.Int("duration_days", p.DurationDays),
	)

	notifyQuietly(ctx, s.notifier, s.logger, &domain.Notification{
		UserID: child.UserID,
		Type:   NotifyProgramCreated,
		Title:  "Program PMT Baru",
		Body: fmt.Sprintf("%s terdaftar dalam program PMT %d hari mulai %s",
			child.Name, p.DurationDays, p.StartDate.Format("02/01/2006")),
		Data: map[string]any{
			"child_id":   child.ID,
			"program_id": p.ID,
		},
	})
	return p, nil
}

func (s *pmtProgramService) Discontinue(ctx context.Context, id int64) (*domain.PmtProgram, error) {
	p, err := s.program(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.ProgramActive {
		return nil, Unprocessable(MsgProgramNotActive)
	}
	if err := s.repo.SetProgramStatus(ctx, p.ID, domain.ProgramDiscontinued); err != nil {
		return nil, err
	}
	p.Status = domain.ProgramDiscontinued
	s.logger.Info("PMT program discontinued", zap.Int64("program_id", p.ID), zap.Int64("child_id", p.ChildID))
	return p, nil
}
