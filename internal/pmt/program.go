package pmt

import (
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// Program lengths a nakes may enroll a child for.
const (
	Duration90  = 90
	Duration120 = 120
)

// ValidDuration reports whether days is an allowed program length.
func ValidDuration(days int) bool {
	return days == Duration90 || days == Duration120
}

// EndDate is the last feeding day of a program: start + duration - 1.
func EndDate(start time.Time, durationDays int) time.Time {
	return start.AddDate(0, 0, durationDays-1)
}

// ScheduleDates lists every calendar day from start to end inclusive.
func ScheduleDates(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// ProgramProgress is the derived state shown on program listings.
type ProgramProgress struct {
	ProgressPercent float64 `json:"progress_percentage"`
	DaysRemaining   int     `json:"days_remaining"`
	LoggedDays      int     `json:"logged_days"`
	PendingDays     int     `json:"pending_days"`
}

// ComputeProgramProgress derives progress from the number of logged
// schedules. Days remaining is counted from today and is 0 for programs that
// are no longer active.
func ComputeProgramProgress(p *domain.PmtProgram, loggedDays int, today time.Time) ProgramProgress {
	out := ProgramProgress{
		LoggedDays:  loggedDays,
		PendingDays: p.DurationDays - loggedDays,
	}
	if p.DurationDays > 0 {
		out.ProgressPercent = Round1(float64(loggedDays) / float64(p.DurationDays) * 100)
	}
	if p.Status == domain.ProgramActive {
		out.DaysRemaining = max(0, daysBetween(today, p.EndDate))
	}
	return out
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
