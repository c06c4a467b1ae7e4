package growth

import (
	"math"
	"testing"
	"time"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScore(t *testing.T) {
	// the median is always z = 0
	assert.Equal(t, 0.0, ZScore(9.6479, LMS{L: 0.0644, M: 9.6479, S: 0.10925}))

	// L = 1 is a plain normal distribution: x = M(1 + zS)
	p := LMS{L: 1, M: 75.7488, S: 0.03024}
	assert.Equal(t, -2.0, ZScore(p.M*(1-2*p.S), p))

	// L close to zero uses the log form
	q := LMS{L: 0.00005, M: 10, S: 0.1}
	assert.Equal(t, 1.0, ZScore(10*math.Exp(0.1), q))

	// clamped to ±6
	assert.Equal(t, 6.0, ZScore(1000, p))
	assert.Equal(t, -6.0, ZScore(1, p))
}

func TestTableLookup(t *testing.T) {
	exact := weightForLengthBoys.lookup(50)
	assert.Equal(t, LMS{L: 0.1803, M: 3.4372, S: 0.08854}, exact)

	mid := weightForLengthBoys.lookup(47.5)
	assert.InDelta(t, (2.4410+3.4372)/2, mid.M, 1e-9)
	assert.InDelta(t, (0.2581+0.1803)/2, mid.L, 1e-9)

	assert.Equal(t, weightForLengthBoys[len(weightForLengthBoys)-1].LMS, weightForLengthBoys.lookup(130))
	assert.Equal(t, weightForLengthBoys[0].LMS, weightForLengthBoys.lookup(40))

	// between 12 and 18 months
	m15 := weightForAgeGirls.lookup(15)
	assert.InDelta(t, (8.9481+10.1742)/2, m15.M, 1e-9)
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, NutritionSeverelyUnderweight, NutritionalStatus(-3.01))
	assert.Equal(t, NutritionUnderweight, NutritionalStatus(-3))
	assert.Equal(t, NutritionUnderweight, NutritionalStatus(-2.01))
	assert.Equal(t, NutritionNormal, NutritionalStatus(-2))
	assert.Equal(t, NutritionNormal, NutritionalStatus(2))
	assert.Equal(t, NutritionRiskOverweight, NutritionalStatus(2.01))

	assert.Equal(t, StuntingSevere, StuntingStatus(-3.5))
	assert.Equal(t, Stunting, StuntingStatus(-2.5))
	assert.Equal(t, StuntingNormal, StuntingStatus(3))

	assert.Equal(t, WastingSevere, WastingStatus(-4))
	assert.Equal(t, Wasting, WastingStatus(-2.2))
	assert.Equal(t, WastingNormal, WastingStatus(1))
	assert.Equal(t, WastingOverweight, WastingStatus(2.5))
}

func fp(v float64) *float64 { return &v }

func TestApply(t *testing.T) {
	child := &domain.Child{Gender: "male", Birthday: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := &domain.AnthropometryMeasurement{
		MeasurementDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Weight:            fp(9.6479),
		Height:            fp(75.7488),
		HeadCircumference: fp(46.0661),
	}

	Apply(child, m)

	require.NotNil(t, m.WeightForAgeZScore)
	assert.Equal(t, 0.0, *m.WeightForAgeZScore)
	assert.Equal(t, 0.0, *m.HeightForAgeZScore)
	assert.Equal(t, 0.0, *m.HeadCircumferenceZScore)
	assert.NotNil(t, m.WeightForHeightZScore)
	assert.NotNil(t, m.BMIForAgeZScore)
	assert.Equal(t, NutritionNormal, *m.NutritionalStatus)
	assert.Equal(t, StuntingNormal, *m.StuntingStatus)
	assert.NotNil(t, m.WastingStatus)
}

func TestApply_OlderThanTables(t *testing.T) {
	child := &domain.Child{Gender: "female", Birthday: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := &domain.AnthropometryMeasurement{
		MeasurementDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Weight:          fp(20),
		Height:          fp(115),
	}

	Apply(child, m)

	assert.Nil(t, m.WeightForAgeZScore)
	assert.Nil(t, m.HeightForAgeZScore)
	assert.Nil(t, m.BMIForAgeZScore)
	assert.Nil(t, m.NutritionalStatus)
	require.NotNil(t, m.WeightForHeightZScore)
	assert.Equal(t, WastingNormal, *m.WastingStatus)
}

func TestApply_LengthOutOfRange(t *testing.T) {
	child := &domain.Child{Gender: "male", Birthday: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := &domain.AnthropometryMeasurement{
		MeasurementDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Weight:          fp(3.3),
		Height:          fp(44),
	}

	Apply(child, m)

	assert.Nil(t, m.WeightForHeightZScore)
	assert.Nil(t, m.WastingStatus)
	assert.NotNil(t, m.WeightForAgeZScore)
}

func TestChart(t *testing.T) {
	child := &domain.Child{Birthday: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	ms := []domain.AnthropometryMeasurement{
		{MeasurementDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Weight: fp(7)},
		{MeasurementDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Weight: fp(5)},
	}

	points := Chart(child, ms)

	require.Len(t, points, 2)
	assert.Equal(t, 2, points[0].AgeMonths)
	assert.Equal(t, 5.0, *points[0].Weight)
	assert.Equal(t, 5, points[1].AgeMonths)
}
