package service

import (
	"context"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/nutrition"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
	"github.com/jagoanbunda/jagoanbunda-data/internal/repository"

	"go.uber.org/zap"
)

// NutritionService reports a child's intake against the age group's daily
// targets, its trends and the parent dashboard.
type NutritionService interface {
	Summary(ctx context.Context, user *domain.User, childID int64, date string) (*NutritionSummary, error)
	Trends(ctx context.Context, user *domain.User, childID int64) (*nutrition.Trends, error)
	Dashboard(ctx context.Context, user *domain.User, childID int64) (*ParentDashboard, error)
}

// NutritionSummary is one day's totals next to the targets.
type NutritionSummary struct {
	Date      string                 `json:"date"`
	AgeMonths int                    `json:"age_months"`
	AgeGroup  string                 `json:"age_group"`
	Totals    domain.NutritionTotals `json:"totals"`
	Rings     nutrition.Rings        `json:"progress"`
}

// ParentDashboard is the home screen of the parent app.
type ParentDashboard struct {
	Child       DashboardChild        `json:"child"`
	Rings       nutrition.Rings       `json:"progress_rings"`
	WeeklyTrend nutrition.WeeklyTrend `json:"weekly_trend"`
	Reminders   []nutrition.Reminder  `json:"reminders"`
	Tips        []nutrition.Tip       `json:"tips"`
}

type DashboardChild struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AgeMonths int     `json:"age_months"`
	Gender    string  `json:"gender"`
	AvatarURL *string `json:"avatar_url"`
}

type nutritionService struct {
	children      repository.ChildrenRepository
	foodLogs      repository.FoodLogsRepository
	anthropometry repository.AnthropometryRepository
	screenings    repository.ScreeningsRepository
	asq3Ref       repository.Asq3ReferenceRepository
	pmt           repository.PmtRepository
	catalog       *reference.Catalog
	clock         Clock
	logger        *zap.Logger
}

func NewNutritionService(
	children repository.ChildrenRepository,
	foodLogs repository.FoodLogsRepository,
	anthropometry repository.AnthropometryRepository,
	screenings repository.ScreeningsRepository,
	asq3Ref repository.Asq3ReferenceRepository,
	pmt repository.PmtRepository,
	catalog *reference.Catalog,
	clock Clock,
	logger *zap.Logger,
) NutritionService {
	return &nutritionService{
		children:      children,
		foodLogs:      foodLogs,
		anthropometry: anthropometry,
		screenings:    screenings,
		asq3Ref:       asq3Ref,
		pmt:           pmt,
		catalog:       catalog,
		clock:         clock,
		logger:        logger,
	}
}

func (s *nutritionService) Summary(ctx context.Context, user *domain.User, childID int64, date string) (*NutritionSummary, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	day := s.clock.Today()
	if date != "" {
		d, ok := parseDate(date)
		if !ok {
			return nil, Invalid("date", "Format tanggal tidak valid.")
		}
		day = d
	}
	rows, err := s.foodLogs.DailyTotals(ctx, c.ID, day, day)
	if err != nil {
		return nil, err
	}
	totals, _ := nutrition.IndexDays(rows).On(day)
	months := c.AgeInMonths(day)
	group := s.catalog.AgeGroupFor(months)
	return &NutritionSummary{
		Date:      day.Format(dateLayout),
		AgeMonths: months,
		AgeGroup:  group.Label,
		Totals:    totals,
		Rings:     nutrition.ComputeRings(totals, group),
	}, nil
}

func (s *nutritionService) Trends(ctx context.Context, user *domain.User, childID int64) (*nutrition.Trends, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	days, err := s.days(ctx, c.ID, today)
	if err != nil {
		return nil, err
	}
	t := nutrition.ComputeTrends(days, today)
	return &t, nil
}

func (s *nutritionService) days(ctx context.Context, childID int64, today time.Time) (nutrition.Days, error) {
	from, to := nutrition.TrendWindow(today)
	rows, err := s.foodLogs.DailyTotals(ctx, childID, from, to)
	if err != nil {
		return nil, err
	}
	return nutrition.IndexDays(rows), nil
}

func (s *nutritionService) Dashboard(ctx context.Context, user *domain.User, childID int64) (*ParentDashboard, error) {
	c, err := authorizedChild(ctx, s.children, user, childID)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	days, err := s.days(ctx, c.ID, today)
	if err != nil {
		return nil, err
	}
	totals, loggedToday := days.On(today)
	months := c.AgeInMonths(today)
	rings := nutrition.ComputeRings(totals, s.catalog.AgeGroupFor(months))

	facts := nutrition.ReminderFacts{Today: today}
	pending, err := s.pmt.CountPendingSchedules(ctx, c.ID, today)
	if err != nil {
		return nil, err
	}
	facts.PendingPmtToday = pending > 0

	if iv, ok := s.catalog.IntervalForAgeDays(c.AgeInDays(today)); ok {
		facts.IntervalLabel = iv.Label()
		row, err := s.asq3Ref.IntervalForAgeDays(ctx, c.AgeInDays(today))
		if err != nil {
			return nil, err
		}
		if row != nil {
			screened, err := s.screenings.HasScreeningForInterval(ctx, c.ID, row.ID)
			if err != nil {
				return nil, err
			}
			facts.IntervalScreened = screened
		}
	}

	latest, err := s.anthropometry.LatestMeasurement(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	var waz *float64
	if latest != nil {
		d := latest.MeasurementDate
		facts.LastMeasurement = &d
		waz = latest.WeightForAgeZScore
	}

	return &ParentDashboard{
		Child: DashboardChild{
			ID:        c.ID,
			Name:      c.Name,
			AgeMonths: months,
			Gender:    c.Gender,
			AvatarURL: c.AvatarURL,
		},
		Rings:       rings,
		WeeklyTrend: nutrition.ComputeWeeklyTrend(days, today),
		Reminders:   nutrition.Reminders(facts),
		Tips:        nutrition.Tips(rings, loggedToday, waz),
	}, nil
}
