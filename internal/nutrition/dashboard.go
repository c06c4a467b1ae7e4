package nutrition

import (
	"fmt"
	"math"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"
)

// Ring is today's intake of one nutrient against its daily target.
type Ring struct {
	Current    float64 `json:"current"`
	Target     float64 `json:"target"`
	Percentage int     `json:"percentage"`
	Unit       string  `json:"unit"`
}

// Rings are the five dashboard progress rings.
type Rings struct {
	Calories Ring `json:"calories"`
	Protein  Ring `json:"protein"`
	Carbs    Ring `json:"carbs"`
	Fat      Ring `json:"fat"`
	Fiber    Ring `json:"fiber"`
}

// Percentage is round(current/target*100) capped at 100, 0 without a target.
func Percentage(current, target float64) int {
	if target <= 0 {
		return 0
	}
	return min(100, int(math.Round(current/target*100)))
}

func ring(current, target float64, unit string) Ring {
	return Ring{Current: round1(current), Target: target, Percentage: Percentage(current, target), Unit: unit}
}

// ComputeRings compares today's totals with the age group's targets. Fiber
// is not tracked on food logs, so only its target is reported.
func ComputeRings(t domain.NutritionTotals, g reference.AgeGroup) Rings {
	return Rings{
		Calories: ring(t.Calories, g.Calories, "kcal"),
		Protein:  ring(t.Protein, g.Protein, "g"),
		Carbs:    ring(t.Carbohydrate, g.Carbs, "g"),
		Fat:      ring(t.Fat, g.Fat, "g"),
		Fiber:    Ring{Target: g.Fiber, Unit: "g"},
	}
}

// Reminder priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Reminder is a pending task for the parent.
type Reminder struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ReminderFacts is what the reminder rules look at.
type ReminderFacts struct {
	Today time.Time
	// PendingPmtToday is true when the active program has an unlogged
	// schedule for today.
	PendingPmtToday bool
	// IntervalLabel is the label of the ASQ-3 interval the child is in now,
	// empty when no interval matches.
	IntervalLabel    string
	IntervalScreened bool
	LastMeasurement  *time.Time
}

// MeasurementReminderDays is how long after the last measurement a new one is due.
const MeasurementReminderDays = 30

// Reminders applies the PMT, ASQ-3 and anthropometry rules in that order.
func Reminders(f ReminderFacts) []Reminder {
	out := make([]Reminder, 0, 3)
	if f.PendingPmtToday {
		out = append(out, Reminder{
			Type:        "PMT",
			Title:       "Jadwal PMT Hari Ini",
			Description: "Ada jadwal pemberian makanan tambahan yang belum dicatat",
			Priority:    PriorityHigh,
		})
	}
	if f.IntervalLabel != "" && !f.IntervalScreened {
		out = append(out, Reminder{
			Type:        "ASQ3",
			Title:       "Skrining Perkembangan",
			Description: fmt.Sprintf("Waktunya melakukan skrining ASQ-3 untuk usia %s", f.IntervalLabel),
			Priority:    PriorityMedium,
		})
	}
	switch {
	case f.LastMeasurement == nil:
		out = append(out, Reminder{
			Type:        "ANTHROPOMETRY",
			Title:       "Pengukuran Antropometri",
			Description: "Belum ada data pengukuran. Lakukan pengukuran pertama",
			Priority:    PriorityHigh,
		})
	case daysBetween(*f.LastMeasurement, f.Today) > MeasurementReminderDays:
		out = append(out, Reminder{
			Type:        "ANTHROPOMETRY",
			Title:       "Pengukuran Antropometri",
			Description: "Sudah lebih dari 30 hari sejak pengukuran terakhir",
			Priority:    PriorityMedium,
		})
	}
	return out
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Abs(to.Sub(from).Hours() / 24))
}

// Tip is a rule-based hint.
type Tip struct {
	Icon     string `json:"icon"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Tips applies the logging, calorie, protein and weight rules.
func Tips(r Rings, loggedToday bool, latestWAZ *float64) []Tip {
	out := make([]Tip, 0, 4)
	if !loggedToday {
		out = append(out, Tip{Icon: "📝", Message: "Jangan lupa mencatat makanan anak", Category: "reminder"})
	}
	if loggedToday && r.Calories.Percentage < 50 {
		out = append(out, Tip{Icon: "🍽️", Message: "Anak perlu makan lebih banyak hari ini", Category: "nutrition"})
	}
	if loggedToday && r.Protein.Percentage < 70 {
		out = append(out, Tip{Icon: "🥚", Message: "Tingkatkan asupan protein untuk pertumbuhan optimal", Category: "nutrition"})
	}
	if latestWAZ != nil && *latestWAZ < -2 {
		out = append(out, Tip{Icon: "⚠️", Message: "Perhatikan asupan gizi anak untuk mencegah kekurangan berat badan", Category: "health"})
	}
	return out
}
