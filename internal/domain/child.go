package domain

import "time"

// Child belongs to exactly one parent user.
type Child struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Name              string    `json:"name"`
	Birthday          time.Time `json:"birthday"`
	Gender            string    `json:"gender"` // male / female / other
	AvatarURL         *string   `json:"avatar_url"`
	BirthWeight       float64   `json:"birth_weight"`
	BirthHeight       float64   `json:"birth_height"`
	HeadCircumference float64   `json:"head_circumference"`
	IsActive          bool      `json:"is_active"`
	Note              *string   `json:"note"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// ParentName is filled by joins on the nakes listings only.
	ParentName string `json:"parent_name,omitempty"`
}

// AgeInDays counts whole days from birthday to on.
func (c *Child) AgeInDays(on time.Time) int {
	b := dateOnly(c.Birthday)
	d := dateOnly(on)
	if d.Before(b) {
		return 0
	}
	return int(d.Sub(b).Hours() / 24)
}

// AgeInMonths counts whole calendar months from birthday to on.
func (c *Child) AgeInMonths(on time.Time) int {
	return MonthsBetween(c.Birthday, on)
}

// MonthsBetween returns the number of complete months from a to b (0 when b < a).
func MonthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Measurement locations.
const (
	LocationPosyandu = "posyandu"
	LocationHome     = "home"
	LocationClinic   = "clinic"
	LocationHospital = "hospital"
	LocationOther    = "other"
)

// AnthropometryMeasurement is one growth measurement with its WHO z-scores.
type AnthropometryMeasurement struct {
	ID                      int64     `json:"id"`
	ChildID                 int64     `json:"child_id"`
	MeasurementDate         time.Time `json:"measurement_date"`
	Weight                  *float64  `json:"weight"`
	Height                  *float64  `json:"height"`
	HeadCircumference       *float64  `json:"head_circumference"`
	IsLying                 bool      `json:"is_lying"`
	MeasurementLocation     string    `json:"measurement_location"`
	WeightForAgeZScore      *float64  `json:"weight_for_age_zscore"`
	HeightForAgeZScore      *float64  `json:"height_for_age_zscore"`
	WeightForHeightZScore   *float64  `json:"weight_for_height_zscore"`
	BMIForAgeZScore         *float64  `json:"bmi_for_age_zscore"`
	HeadCircumferenceZScore *float64  `json:"head_circumference_zscore"`
	NutritionalStatus       *string   `json:"nutritional_status"`
	StuntingStatus          *string   `json:"stunting_status"`
	WastingStatus           *string   `json:"wasting_status"`
	Notes                   *string   `json:"notes"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
