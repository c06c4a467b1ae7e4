package reference

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Domains, 5)
	assert.Len(t, c.AgeIntervals, 21)
	assert.Equal(t, 30, c.TotalQuestions())
	assert.Equal(t, 60.0, c.MaxScore)

	codes := make([]string, 0, len(c.Domains))
	for _, d := range c.Domains {
		codes = append(codes, d.Code)
	}
	want := []string{"communication", "gross_motor", "fine_motor", "problem_solving", "personal_social"}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("domain order mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_IntervalForAgeDays(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	iv, ok := c.IntervalForAgeDays(350)
	require.True(t, ok)
	assert.Equal(t, 12, iv.AgeMonths)
	assert.Equal(t, "12 Bulan", iv.Label())
	assert.InDelta(t, 15.64, iv.Cutoffs[0], 1e-9)

	iv, ok = c.IntervalForAgeDays(1838)
	require.True(t, ok)
	assert.Equal(t, 60, iv.AgeMonths)

	_, ok = c.IntervalForAgeDays(100)
	assert.False(t, ok)
}

func TestCatalog_MonitoringScore(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 45.08, c.MonitoringScore(30.16), 1e-9)
	assert.InDelta(t, 30.0, c.MonitoringScore(0), 1e-9)
}

func TestCatalog_AgeGroupFor(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	cases := map[int]string{0: "0-6", 5: "0-6", 6: "6-12", 11: "6-12", 12: "1-3", 35: "1-3", 36: "4-6", 72: "4-6"}
	for months, key := range cases {
		assert.Equal(t, key, c.AgeGroupFor(months).Key, "age %d months", months)
	}

	g, ok := c.AgeGroup("1-3")
	require.True(t, ok)
	assert.Equal(t, 1350.0, g.Calories)
}

func TestCatalog_Tokens(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gross_motor", c.DomainTokens()["motorik-kasar"])
	assert.Equal(t, 27, c.AgeTokens()["27-bulan"])

	months, ok := c.ParseAgeToken("42-bulan")
	assert.True(t, ok)
	assert.Equal(t, 42, months)

	_, ok = c.ParseAgeToken("43-bulan")
	assert.False(t, ok)
	_, ok = c.ParseAgeToken("bulan-12")
	assert.False(t, ok)
}
