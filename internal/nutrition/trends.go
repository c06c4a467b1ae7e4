// Package nutrition turns per-day intake totals into the dashboard rings,
// trend series, reminders and tips shown to parents.
package nutrition

import (
	"math"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

const dateLayout = "2006-01-02"

// Trend directions.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// TrendDirection compares the mean of the first two values with the mean of
// the next two. A change beyond 10% of the first mean is up or down.
func TrendDirection(values []float64) string {
	if len(values) < 2 {
		return TrendStable
	}
	first := mean(values[:2])
	second := 0.0
	if len(values) > 2 {
		second = mean(values[2:min(4, len(values))])
	}

	diff := second - first
	threshold := first * 0.1
	switch {
	case diff > threshold:
		return TrendUp
	case diff < -threshold:
		return TrendDown
	}
	return TrendStable
}

// Average is the mean of values rounded to one decimal, 0 when empty.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return round1(mean(values))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(max(1, len(values)))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek is the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// StartOfMonth is the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth is the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// TrendWindow is the date range the daily totals must cover for Trends and
// WeeklyCalories evaluated on today.
func TrendWindow(today time.Time) (from, to time.Time) {
	today = StartOfDay(today)
	from = StartOfMonth(today).AddDate(0, -2, 0)
	if w := StartOfWeek(today).AddDate(0, 0, -21); w.Before(from) {
		from = w
	}
	to = EndOfMonth(today)
	if w := StartOfWeek(today).AddDate(0, 0, 6); w.After(to) {
		to = w
	}
	return from, to
}

// Days indexes daily totals by date.
type Days map[string]domain.NutritionTotals

// IndexDays builds Days from repository rows.
func IndexDays(rows []domain.DailyNutrition) Days {
	d := make(Days, len(rows))
	for _, r := range rows {
		key := r.Date.Format(dateLayout)
		t := d[key]
		t.Calories += r.Calories
		t.Protein += r.Protein
		t.Carbohydrate += r.Carbohydrate
		t.Fat += r.Fat
		d[key] = t
	}
	return d
}

// On returns the totals of one date and whether anything was logged.
func (d Days) On(date time.Time) (domain.NutritionTotals, bool) {
	t, ok := d[date.Format(dateLayout)]
	return t, ok
}

// perDay is the range total divided by the number of days with logs.
func (d Days) perDay(from, to time.Time) domain.NutritionTotals {
	var sum domain.NutritionTotals
	n := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		t, ok := d.On(day)
		if !ok {
			continue
		}
		n++
		sum.Calories += t.Calories
		sum.Protein += t.Protein
		sum.Carbohydrate += t.Carbohydrate
		sum.Fat += t.Fat
	}
	if n == 0 {
		return domain.NutritionTotals{}
	}
	f := float64(n)
	return domain.NutritionTotals{
		Calories:     round1(sum.Calories / f),
		Protein:      round1(sum.Protein / f),
		Carbohydrate: round1(sum.Carbohydrate / f),
		Fat:          round1(sum.Fat / f),
	}
}

// DailyPoint is one day's total.
type DailyPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// WeeklyPoint is one week's average per logged day.
type WeeklyPoint struct {
	WeekStart string  `json:"week_start"`
	WeekEnd   string  `json:"week_end"`
	Average   float64 `json:"average"`
}

// MonthlyPoint is one month's average per logged day.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Year    string  `json:"year"`
	Average float64 `json:"average"`
}

// Series is one nutrient over a period.
type Series[P any] struct {
	Data           []P     `json:"data"`
	Average        float64 `json:"average"`
	TrendDirection string  `json:"trend_direction"`
}

// Nutrients holds a series per macro nutrient.
type Nutrients[P any] struct {
	Calories     Series[P] `json:"calories"`
	Protein      Series[P] `json:"protein"`
	Carbohydrate Series[P] `json:"carbohydrate"`
	Fat          Series[P] `json:"fat"`
}

// Trends is the last 7 days, 4 weeks and 3 months of intake.
type Trends struct {
	Daily   Nutrients[DailyPoint]   `json:"daily"`
	Weekly  Nutrients[WeeklyPoint]  `json:"weekly"`
	Monthly Nutrients[MonthlyPoint] `json:"monthly"`
}

type pick func(domain.NutritionTotals) float64

var (
	pickCalories     pick = func(t domain.NutritionTotals) float64 { return t.Calories }
	pickProtein      pick = func(t domain.NutritionTotals) float64 { return t.Protein }
	pickCarbohydrate pick = func(t domain.NutritionTotals) float64 { return t.Carbohydrate }
	pickFat          pick = func(t domain.NutritionTotals) float64 { return t.Fat }
)

func buildNutrients[P any](totals []domain.NutritionTotals, point func(i int, v float64) P) Nutrients[P] {
	series := func(p pick) Series[P] {
		values := make([]float64, len(totals))
		data := make([]P, len(totals))
		for i, t := range totals {
			values[i] = round1(p(t))
			data[i] = point(i, values[i])
		}
		return Series[P]{Data: data, Average: Average(values), TrendDirection: TrendDirection(values)}
	}
	return Nutrients[P]{
		Calories:     series(pickCalories),
		Protein:      series(pickProtein),
		Carbohydrate: series(pickCarbohydrate),
		Fat:          series(pickFat),
	}
}

// ComputeTrends builds the three trend periods ending on today.
func ComputeTrends(d Days, today time.Time) Trends {
	today = StartOfDay(today)

	dates := make([]time.Time, 7)
	daily := make([]domain.NutritionTotals, 7)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, i-6)
		daily[i], _ = d.On(dates[i])
	}

	weekStarts := make([]time.Time, 4)
	weekly := make([]domain.NutritionTotals, 4)
	for i := range weekStarts {
		weekStarts[i] = StartOfWeek(today).AddDate(0, 0, (i-3)*7)
		weekly[i] = d.perDay(weekStarts[i], weekStarts[i].AddDate(0, 0, 6))
	}

	monthStarts := make([]time.Time, 3)
	monthly := make([]domain.NutritionTotals, 3)
	for i := range monthStarts {
		monthStarts[i] = StartOfMonth(today).AddDate(0, i-2, 0)
		monthly[i] = d.perDay(monthStarts[i], EndOfMonth(monthStarts[i]))
	}

	return Trends{
		Daily: buildNutrients(daily, func(i int, v float64) DailyPoint {
			return DailyPoint{Date: dates[i].Format(dateLayout), Total: v}
		}),
		Weekly: buildNutrients(weekly, func(i int, v float64) WeeklyPoint {
			return WeeklyPoint{
				WeekStart: weekStarts[i].Format(dateLayout),
				WeekEnd:   weekStarts[i].AddDate(0, 0, 6).Format(dateLayout),
				Average:   v,
			}
		}),
		Monthly: buildNutrients(monthly, func(i int, v float64) MonthlyPoint {
			return MonthlyPoint{
				Month:   monthStarts[i].Month().String(),
				Year:    monthStarts[i].Format("2006"),
				Average: v,
			}
		}),
	}
}

// WeekCalories is one week of the dashboard calorie trend.
type WeekCalories struct {
	WeekStart       string  `json:"week_start"`
	WeekEnd         string  `json:"week_end"`
	AverageCalories float64 `json:"average_calories"`
}

// WeeklyTrend is the four-week calorie trend on the parent dashboard.
type WeeklyTrend struct {
	Weeks          []WeekCalories `json:"weeks"`
	TrendDirection string         `json:"trend_direction"`
}

// ComputeWeeklyTrend averages calories per logged day for the last four
// Monday-based weeks, oldest first.
func ComputeWeeklyTrend(d Days, today time.Time) WeeklyTrend {
	out := WeeklyTrend{Weeks: make([]WeekCalories, 0, 4)}
	values := make([]float64, 0, 4)
	for i := 3; i >= 0; i-- {
		start := StartOfWeek(today).AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 6)
		avg := d.perDay(start, end).Calories
		out.Weeks = append(out.Weeks, WeekCalories{
			WeekStart:       start.Format(dateLayout),
			WeekEnd:         end.Format(dateLayout),
			AverageCalories: avg,
		})
		values = append(values, avg)
	}
	out.TrendDirection = TrendDirection(values)
	return out
}
