package repository

import (
	"context"
	"time"
)

// DashboardRepository serves the nakes dashboard aggregates. Each method is a
// single independent query.
type DashboardRepository interface {
	Totals(ctx context.Context) (*DashboardTotals, error)
	ScreeningDistribution(ctx context.Context) (map[string]int, error)
	PortionDistribution(ctx context.Context) (map[string]int, error)
	// NutritionalDistribution counts children by the status of their latest measurement.
	NutritionalDistribution(ctx context.Context) (map[string]int, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error)
	ChildrenAtRisk(ctx context.Context, limit int) ([]*AtRiskChild, error)
	RecentActivities(ctx context.Context, limit int) ([]*Activity, error)
}

// DashboardTotals are the headline counters.
type DashboardTotals struct {
	TotalParents      int `json:"total_parents"`
	TotalChildren     int `json:"total_children"`
	ActiveChildren    int `json:"active_children"`
	AtRiskChildren    int `json:"at_risk_children"`
	ActivePmtPrograms int `json:"active_pmt_programs"`
	TotalScreenings   int `json:"total_screenings"`
}

// MonthlyCount is the number of new children and screenings in a month.
type MonthlyCount struct {
	Month      time.Time `json:"-"`
	Children   int       `json:"children"`
	Screenings int       `json:"screenings"`
}

// AtRiskChild is a child whose latest completed screening needs referral.
type AtRiskChild struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Birthday      time.Time `json:"-"`
	ParentName    string    `json:"parent_name"`
	Status        string    `json:"status"`
	LastScreening time.Time `json:"last_screening"`
	AgeMonths     int       `json:"age_months"`
}

// Activity is a recent screening or PMT log.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ChildName string    `json:"-"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
