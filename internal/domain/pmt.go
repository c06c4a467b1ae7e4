package domain

import (
	"encoding/json"
	"time"
)

// Program statuses.
const (
	ProgramActive       = "active"
	ProgramCompleted    = "completed"
	ProgramDiscontinued = "discontinued"
)

// PmtMenu is a supplementary feeding menu.
type PmtMenu struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	Calories     *float64  `json:"calories"`
	Protein      *float64  `json:"protein"`
	MinAgeMonths *int      `json:"min_age_months"`
	MaxAgeMonths *int      `json:"max_age_months"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PmtProgram is a child's enrollment of 90 or 120 days.
type PmtProgram struct {
	ID           int64     `json:"id"`
	ChildID      int64     `json:"child_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	Status       string    `json:"status"`
	CreatedBy    *int64    `json:"created_by"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Aggregates filled by listing queries.
	ChildName  string `json:"child_name,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
	LoggedDays int    `json:"-"` // reported through pmt.ProgramProgress
	TotalDays  int    `json:"total_days"`
}

// PmtSchedule is one planned feeding day.
type PmtSchedule struct {
	ID            int64     `json:"id"`
	ProgramID     *int64    `json:"program_id"`
	ChildID       int64     `json:"child_id"`
	MenuID        int64     `json:"menu_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	CreatedAt     time.Time `json:"created_at"`

	Menu *PmtMenu `json:"menu,omitempty"`
	Log  *PmtLog  `json:"log,omitempty"`

	ChildName  string `json:"child_name,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
	OwnerID    int64  `json:"-"`
}

// Portions eaten, as stored on a log.
const (
	PortionHabis   = "habis"
	PortionHalf    = "half"
	PortionQuarter = "quarter"
	PortionNone    = "none"
)

// PortionInfo is the derived view of a portion value.
type PortionInfo struct {
	Value   string `json:"value"`
	Percent int    `json:"percentage"`
	Label   string `json:"label"`
}

var portions = []PortionInfo{
	{Value: PortionHabis, Percent: 100, Label: "Habis (100%)"},
	{Value: PortionHalf, Percent: 50, Label: "Setengah (50%)"},
	{Value: PortionQuarter, Percent: 25, Label: "Seperempat (25%)"},
	{Value: PortionNone, Percent: 0, Label: "Tidak dimakan (0%)"},
}

// AllPortions lists every portion from fully eaten to untouched.
func AllPortions() []PortionInfo {
	out := make([]PortionInfo, len(portions))
	copy(out, portions)
	return out
}

// LookupPortion returns the info for a portion value.
func LookupPortion(portion string) (PortionInfo, bool) {
	for _, p := range portions {
		if p.Value == portion {
			return p, true
		}
	}
	return PortionInfo{}, false
}

// PmtLog is the consumption report for a schedule.
type PmtLog struct {
	ID         int64     `json:"id"`
	ScheduleID int64     `json:"schedule_id"`
	FoodID     *int64    `json:"food_id"`
	Portion    string    `json:"portion"`
	PhotoURL   *string   `json:"photo_url"`
	Notes      *string   `json:"notes"`
	LoggedAt   time.Time `json:"logged_at"`
}

// MarshalJSON adds portion_percentage and portion_label to the stored fields.
func (l PmtLog) MarshalJSON() ([]byte, error) {
	type stored PmtLog
	label := l.Portion
	info, ok := LookupPortion(l.Portion)
	if ok {
		label = info.Label
	}
	return json.Marshal(struct {
		stored
		PortionPercentage int    `json:"portion_percentage"`
		PortionLabel      string `json:"portion_label"`
	}{stored(l), info.Percent, label})
}

// PmtReportRow is a flattened log row for the nakes report and export.
type PmtReportRow struct {
	LogID         int64     `json:"id"`
	ScheduleID    int64     `json:"schedule_id"`
	ProgramID     *int64    `json:"program_id"`
	ChildID       int64     `json:"child_id"`
	ChildName     string    `json:"child_name"`
	ParentName    string    `json:"parent_name"`
	MenuName      string    `json:"menu_name"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Portion       string    `json:"portion"`
	Notes         *string   `json:"notes"`
	LoggedAt      time.Time `json:"logged_at"`
}

// PmtReportFilter narrows the report rows; zero values mean no filter.
type PmtReportFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	ProgramID *int64
	Portion   string
	Search    string
}
