// Package growth computes WHO growth-standard z-scores (LMS method) and the
// nutritional, stunting and wasting classifications derived from them.
package growth

import (
	"math"
	"sort"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
)

// MaxAgeMonths is the oldest age the age-based tables cover.
const MaxAgeMonths = 60

// Weight-for-length tables cover this length range, in cm.
const (
	MinLengthCM = 45
	MaxLengthCM = 120
)

// LMS is one row of a WHO growth table.
type LMS struct {
	L float64
	M float64
	S float64
}

type row struct {
	Key float64
	LMS LMS
}

// table rows are sorted by Key ascending.
type table []row

// lookup returns the LMS for key: the exact row when present, a linear
// interpolation between the neighbouring rows, or the nearest edge row when
// key is outside the table.
func (t table) lookup(key float64) LMS {
	i := sort.Search(len(t), func(i int) bool { return t[i].Key >= key })
	switch {
	case i == len(t):
		return t[len(t)-1].LMS
	case t[i].Key == key || i == 0:
		return t[i].LMS
	}
	lo, hi := t[i-1], t[i]
	ratio := (key - lo.Key) / (hi.Key - lo.Key)
	return LMS{
		L: lo.LMS.L + (hi.LMS.L-lo.LMS.L)*ratio,
		M: lo.LMS.M + (hi.LMS.M-lo.LMS.M)*ratio,
		S: lo.LMS.S + (hi.LMS.S-lo.LMS.S)*ratio,
	}
}

// ZScore applies the LMS formula to x, clamped to ±6 and rounded to two
// decimals.
func ZScore(x float64, p LMS) float64 {
	var z float64
	if math.Abs(p.L) < 0.0001 {
		z = math.Log(x/p.M) / p.S
	} else {
		z = (math.Pow(x/p.M, p.L) - 1) / (p.L * p.S)
	}
	z = math.Max(-6, math.Min(6, z))
	return math.Round(z*100) / 100
}

// Indicator selects a growth table.
type Indicator int

const (
	WeightForAge Indicator = iota
	LengthForAge
	WeightForLength
	BMIForAge
	HeadForAge
)

var tables = map[Indicator][2]table{
	WeightForAge:    {weightForAgeBoys, weightForAgeGirls},
	LengthForAge:    {lengthForAgeBoys, lengthForAgeGirls},
	WeightForLength: {weightForLengthBoys, weightForLengthGirls},
	BMIForAge:       {bmiForAgeBoys, bmiForAgeGirls},
	HeadForAge:      {headForAgeBoys, headForAgeGirls},
}

// Score computes the z-score of value for an indicator. key is the age in
// months, or the length in cm for WeightForLength. Any gender other than
// "male" uses the girls' table.
func Score(ind Indicator, gender string, key, value float64) float64 {
	pair := tables[ind]
	t := pair[1]
	if gender == "male" {
		t = pair[0]
	}
	return ZScore(value, t.lookup(key))
}

// BMI is weight (kg) over height (m) squared.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// Nutritional status from weight-for-age.
const (
	NutritionSeverelyUnderweight = "severely_underweight"
	NutritionUnderweight         = "underweight"
	NutritionNormal              = "normal"
	NutritionRiskOverweight      = "risk_overweight"
)

// Stunting status from length-for-age.
const (
	StuntingSevere = "severely_stunted"
	Stunting       = "stunted"
	StuntingNormal = "normal"
)

// Wasting status from weight-for-length.
const (
	WastingSevere     = "severely_wasted"
	Wasting           = "wasted"
	WastingNormal     = "normal"
	WastingOverweight = "overweight"
)

// NutritionalStatus classifies a weight-for-age z-score.
func NutritionalStatus(z float64) string {
	switch {
	case z < -3:
		return NutritionSeverelyUnderweight
	case z < -2:
		return NutritionUnderweight
	case z <= 2:
		return NutritionNormal
	default:
		return NutritionRiskOverweight
	}
}

// StuntingStatus classifies a length-for-age z-score.
func StuntingStatus(z float64) string {
	switch {
	case z < -3:
		return StuntingSevere
	case z < -2:
		return Stunting
	default:
		return StuntingNormal
	}
}

// WastingStatus classifies a weight-for-length z-score.
func WastingStatus(z float64) string {
	switch {
	case z < -3:
		return WastingSevere
	case z < -2:
		return Wasting
	case z <= 2:
		return WastingNormal
	default:
		return WastingOverweight
	}
}

// Apply fills the z-scores and statuses of m for child c. Age-based scores
// are only computed up to MaxAgeMonths and weight-for-length only inside
// the table's length range. Previously computed values are cleared first.
func Apply(c *domain.Child, m *domain.AnthropometryMeasurement) {
	m.WeightForAgeZScore = nil
	m.HeightForAgeZScore = nil
	m.WeightForHeightZScore = nil
	m.BMIForAgeZScore = nil
	m.HeadCircumferenceZScore = nil
	m.NutritionalStatus = nil
	m.StuntingStatus = nil
	m.WastingStatus = nil

	age := float64(c.AgeInMonths(m.MeasurementDate))
	inAgeRange := age <= MaxAgeMonths
	w, h, hc := m.Weight, m.Height, m.HeadCircumference

	if w != nil && inAgeRange {
		m.WeightForAgeZScore = ptr(Score(WeightForAge, c.Gender, age, *w))
		m.NutritionalStatus = ptr(NutritionalStatus(*m.WeightForAgeZScore))
	}
	if h != nil && inAgeRange {
		m.HeightForAgeZScore = ptr(Score(LengthForAge, c.Gender, age, *h))
		m.StuntingStatus = ptr(StuntingStatus(*m.HeightForAgeZScore))
	}
	if w != nil && h != nil && *h >= MinLengthCM && *h <= MaxLengthCM {
		m.WeightForHeightZScore = ptr(Score(WeightForLength, c.Gender, *h, *w))
		m.WastingStatus = ptr(WastingStatus(*m.WeightForHeightZScore))
	}
	if w != nil && h != nil && *h > 0 && inAgeRange {
		m.BMIForAgeZScore = ptr(Score(BMIForAge, c.Gender, age, BMI(*w, *h)))
	}
	if hc != nil && inAgeRange {
		m.HeadCircumferenceZScore = ptr(Score(HeadForAge, c.Gender, age, *hc))
	}
}

// ChartPoint is one measurement on the growth chart.
type ChartPoint struct {
	Date                    time.Time `json:"date"`
	AgeMonths               int       `json:"age_months"`
	Weight                  *float64  `json:"weight"`
	Height                  *float64  `json:"height"`
	HeadCircumference       *float64  `json:"head_circumference"`
	WeightForAgeZScore      *float64  `json:"weight_for_age_zscore"`
	HeightForAgeZScore      *float64  `json:"height_for_age_zscore"`
	WeightForHeightZScore   *float64  `json:"weight_for_height_zscore"`
	HeadCircumferenceZScore *float64  `json:"head_circumference_zscore"`
}

// Chart orders measurements by date and projects them onto chart points.
func Chart(c *domain.Child, ms []domain.AnthropometryMeasurement) []ChartPoint {
	sorted := make([]domain.AnthropometryMeasurement, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MeasurementDate.Before(sorted[j].MeasurementDate) })

	out := make([]ChartPoint, 0, len(sorted))
	for _, m := range sorted {
		out = append(out, ChartPoint{
			Date:                    m.MeasurementDate,
			AgeMonths:               c.AgeInMonths(m.MeasurementDate),
			Weight:                  m.Weight,
			Height:                  m.Height,
			HeadCircumference:       m.HeadCircumference,
			WeightForAgeZScore:      m.WeightForAgeZScore,
			HeightForAgeZScore:      m.HeightForAgeZScore,
			WeightForHeightZScore:   m.WeightForHeightZScore,
			HeadCircumferenceZScore: m.HeadCircumferenceZScore,
		})
	}
	return out
}

func ptr[T any](v T) *T { return &v }
