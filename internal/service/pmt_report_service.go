package service

import (
	"context"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// PmtReportService serves the nakes consumption report and its export rows.
type PmtReportService interface {
	Report(ctx context.Context, q ReportQuery, page repository.Page) (*PmtReport, error)
	ExportRows(ctx context.Context, q ReportQuery) ([]*domain.PmtReportRow, error)
	// ExportFilename is laporan-pmt-YYYY-MM-DD.xlsx for today.
	ExportFilename() string
}

// ReportQuery is the raw report filter from the query string.
type ReportQuery struct {
	DateFrom  string
	DateTo    string
	ProgramID *int64
	Portion   string
	Search    string
}

type PmtReport struct {
	Rows  []*domain.PmtReportRow `json:"data"`
	Total int                    `json:"total"`
	Stats pmt.Stats              `json:"stats"`
}

type pmtReportService struct {
	repo   repository.PmtRepository
	clock  Clock
	logger *zap.Logger
}

func NewPmtReportService(repo repository.PmtRepository, clock Clock, logger *zap.Logger) PmtReportService {
	return &pmtReportService{repo: repo, clock: clock, logger: logger}
}

func (s *pmtReportService) filter(q ReportQuery) (domain.PmtReportFilter, error) {
	f := domain.PmtReportFilter{ProgramID: q.ProgramID, Search: q.Search}
	v := &ValidationError{}
	if q.DateFrom != "" {
		if d, ok := parseDate(q.DateFrom); ok {
			f.DateFrom = &d
		} else {
			v.Add("date_from", "Format tanggal tidak valid.")
		}
	}
	if q.DateTo != "" {
		if d, ok := parseDate(q.DateTo); ok {
			f.DateTo = &d
		} else {
			v.Add("date_to", "Format tanggal tidak valid.")
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		v.Add("date_to", "Tanggal akhir harus setelah tanggal awal.")
	}
	if q.Portion != "" {
		if !pmt.ValidPortion(q.Portion) {
			v.Add("portion", "Porsi tidak valid.")
		}
		f.Portion = q.Portion
	}
	return f, v.OrNil()
}

// Report lists the filtered log rows. The stats cover schedules by
// scheduled date and program only, so the portion and search filters narrow
// the rows but not the compliance figures.
func (s *pmtReportService) Report(ctx context.Context, q ReportQuery, page repository.Page) (*PmtReport, error) {
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.repo.ReportRows(ctx, f, &page)
	if err != nil {
		return nil, err
	}
	scheduled, b, err := s.repo.ScheduleStats(ctx, repository.StatsFilters{
		ProgramID: f.ProgramID,
		From:      f.DateFrom,
		To:        f.DateTo,
	})
	if err != nil {
		return nil, err
	}
	return &PmtReport{Rows: rows, Total: total, Stats: pmt.ComputeStats(scheduled, loggedCount(b), b)}, nil
}

func (s *pmtReportService) ExportRows(ctx context.Context, q ReportQuery) ([]*domain.PmtReportRow, error) {
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.repo.ReportRows(ctx, f, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("PMT report exported", zap.Int("rows", len(rows)))
	return rows, nil
}

func (s *pmtReportService) ExportFilename() string {
	return fmt.Sprintf("laporan-pmt-%s.xlsx", s.clock.Today().Format(dateLayout))
}
