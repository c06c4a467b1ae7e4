package service

import (
	"context"
	"fmt"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardMonths      = 6
	dashboardAtRiskLimit = 5
	dashboardActivities  = 5
)

// Slice is one segment of a dashboard chart.
type Slice struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type MonthlyTrend struct {
	Month      string `json:"month"`
	Children   int    `json:"children"`
	Screenings int    `json:"screenings"`
}

// NakesDashboard is the landing page of the nakes web app.
type NakesDashboard struct {
	Stats                   *repository.DashboardTotals `json:"stats"`
	NutritionalDistribution []Slice                     `json:"nutritional_distribution"`
	ScreeningResults        []Slice                     `json:"screening_results"`
	PmtDistribution         []Slice                     `json:"pmt_distribution"`
	MonthlyTrends           []MonthlyTrend              `json:"monthly_trends"`
	ChildrenAtRisk          []*repository.AtRiskChild   `json:"children_at_risk"`
	RecentActivities        []*repository.Activity      `json:"recent_activities"`
}

type NakesDashboardService interface {
	Dashboard(ctx context.Context) (*NakesDashboard, error)
}

type slot struct{ key, name, color string }

var (
	screeningSlots = []slot{
		{domain.ResultSesuai, "Sesuai", "#10b981"},
		{domain.ResultPantau, "Pantau", "#f59e0b"},
		{domain.ResultPerluRujukan, "Perlu Rujukan", "#ef4444"},
	}
	portionSlots = []slot{
		{pmt.PortionHabis, "Habis", "#10b981"},
		{pmt.PortionHalf, "Setengah", "#3b82f6"},
		{pmt.PortionQuarter, "Seperempat", "#f59e0b"},
		{pmt.PortionNone, "Tidak Dimakan", "#ef4444"},
	}
	nutritionalSlots = []slot{
		{"normal", "Normal", "#10b981"},
		{"underweight", "Gizi Kurang", "#f59e0b"},
		{"stunted", "Stunting", "#ef4444"},
		{"wasted", "Wasting", "#8b5cf6"},
	}
)

func chartSlices(slots []slot, counts map[string]int) []Slice {
	out := make([]Slice, 0, len(slots))
	for _, s := range slots {
		out = append(out, Slice{Key: s.key, Name: s.name, Value: counts[s.key], Color: s.color})
	}
	return out
}

type nakesDashboardService struct {
	repo   repository.DashboardRepository
	clock  Clock
	logger *zap.Logger
}

func NewNakesDashboardService(repo repository.DashboardRepository, clock Clock, logger *zap.Logger) NakesDashboardService {
	return &nakesDashboardService{repo: repo, clock: clock, logger: logger}
}

// Dashboard runs the aggregate queries concurrently; the first failure
// cancels the rest.
func (s *nakesDashboardService) Dashboard(ctx context.Context) (*NakesDashboard, error) {
	var (
		out                              NakesDashboard
		screenings, portions, nutritions map[string]int
		monthly                          []repository.MonthlyCount
	)
	today := s.clock.Today()
	since := today.AddDate(0, -(dashboardMonths - 1), 1-today.Day())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats, err = s.repo.Totals(gctx)
		return err
	})
	g.Go(func() (err error) {
		screenings, err = s.repo.ScreeningDistribution(gctx)
		return err
	})
	g.Go(func() (err error) {
		portions, err = s.repo.PortionDistribution(gctx)
		return err
	})
	g.Go(func() (err error) {
		nutritions, err = s.repo.NutritionalDistribution(gctx)
		return err
	})
	g.Go(func() (err error) {
		monthly, err = s.repo.MonthlyCounts(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		out.ChildrenAtRisk, err = s.repo.ChildrenAtRisk(gctx, dashboardAtRiskLimit)
		return err
	})
	g.Go(func() (err error) {
		out.RecentActivities, err = s.repo.RecentActivities(gctx, dashboardActivities)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build dashboard", zap.Error(err))
		return nil, err
	}

	out.ScreeningResults = chartSlices(screeningSlots, screenings)
	out.PmtDistribution = chartSlices(portionSlots, portions)
	out.NutritionalDistribution = chartSlices(nutritionalSlots, nutritions)

	out.MonthlyTrends = make([]MonthlyTrend, 0, len(monthly))
	for _, m := range monthly {
		out.MonthlyTrends = append(out.MonthlyTrends, MonthlyTrend{
			Month:      m.Month.Format("Jan"),
			Children:   m.Children,
			Screenings: m.Screenings,
		})
	}
	for _, c := range out.ChildrenAtRisk {
		c.AgeMonths = domain.MonthsBetween(c.Birthday, today)
	}
	for _, a := range out.RecentActivities {
		a.Text = activityText(a)
	}
	return &out, nil
}

func activityText(a *repository.Activity) string {
	switch a.Type {
	case "screening":
		return fmt.Sprintf("Skrining ASQ-3 untuk %s", a.ChildName)
	case "pmt":
		return fmt.Sprintf("Konsumsi PMT %s dicatat", a.ChildName)
	}
	return a.ChildName
}
