// Package reference loads the read-only reference tables (ASQ-3 domains, age
// intervals, cutoffs and the AKG nutrition targets) embedded in the binary.
package reference

import (
	"embed"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Domain is a developmental domain as shipped in the reference set.
type Domain struct {
	Code         string `yaml:"code" json:"code"`
	Name         string `yaml:"name" json:"name"`
	Icon         string `yaml:"icon" json:"icon"`
	Color        string `yaml:"color" json:"color"`
	DisplayOrder int    `yaml:"display_order" json:"display_order"`
	ImageToken   string `yaml:"image_token" json:"-"`
}

// AgeInterval is a questionnaire age window plus its per-domain cutoffs,
// ordered like Catalog.Domains.
type AgeInterval struct {
	AgeMonths  int       `yaml:"age_months"`
	MinAgeDays int       `yaml:"min_age_days"`
	MaxAgeDays int       `yaml:"max_age_days"`
	Cutoffs    []float64 `yaml:"cutoffs"`
}

// Label renders the interval the way it is shown to parents, e.g. "12 Bulan".
func (a AgeInterval) Label() string { return fmt.Sprintf("%d Bulan", a.AgeMonths) }

// ImageToken is the filename token for the interval, e.g. "12-bulan".
func (a AgeInterval) ImageToken() string { return fmt.Sprintf("%d-bulan", a.AgeMonths) }

// AgeGroup is an AKG band with daily intake targets.
type AgeGroup struct {
	Key          string  `yaml:"key" json:"key"`
	Label        string  `yaml:"label" json:"label"`
	MaxAgeMonths int     `yaml:"max_age_months" json:"-"`
	Calories     float64 `yaml:"calories" json:"calories"`
	Protein      float64 `yaml:"protein" json:"protein"`
	Carbs        float64 `yaml:"carbs" json:"carbs"`
	Fat          float64 `yaml:"fat" json:"fat"`
	Fiber        float64 `yaml:"fiber" json:"fiber"`
}

// Catalog is the parsed reference set.
type Catalog struct {
	MaxScore           float64       `yaml:"max_score"`
	QuestionsPerDomain int           `yaml:"questions_per_domain"`
	Domains            []Domain      `yaml:"domains"`
	AgeIntervals       []AgeInterval `yaml:"age_intervals"`
	AgeGroups          []AgeGroup    `yaml:"-"`
}

type nutritionFile struct {
	AgeGroups []AgeGroup `yaml:"age_groups"`
}

// Load parses the embedded reference files and validates their shape.
func Load() (*Catalog, error) {
	raw, err := dataFS.ReadFile("data/asq3.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read asq3 reference: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse asq3 reference: %w", err)
	}

	raw, err = dataFS.ReadFile("data/nutrition.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition reference: %w", err)
	}
	var nf nutritionFile
	if err := yaml.Unmarshal(raw, &nf); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition reference: %w", err)
	}
	c.AgeGroups = nf.AgeGroups

	if err := c.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(c.Domains, func(i, j int) bool { return c.Domains[i].DisplayOrder < c.Domains[j].DisplayOrder })
	sort.SliceStable(c.AgeIntervals, func(i, j int) bool { return c.AgeIntervals[i].AgeMonths < c.AgeIntervals[j].AgeMonths })
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Domains) == 0 || len(c.AgeIntervals) == 0 {
		return fmt.Errorf("reference data is empty")
	}
	if c.QuestionsPerDomain <= 0 {
		return fmt.Errorf("questions_per_domain must be positive")
	}
	for _, iv := range c.AgeIntervals {
		if len(iv.Cutoffs) != len(c.Domains) {
			return fmt.Errorf("age interval %d has %d cutoffs, want %d", iv.AgeMonths, len(iv.Cutoffs), len(c.Domains))
		}
		if iv.MinAgeDays > iv.MaxAgeDays {
			return fmt.Errorf("age interval %d has min_age_days > max_age_days", iv.AgeMonths)
		}
	}
	if len(c.AgeGroups) == 0 {
		return fmt.Errorf("nutrition age groups are empty")
	}
	return nil
}

// TotalQuestions is the question count of one screening.
func (c *Catalog) TotalQuestions() int { return c.QuestionsPerDomain * len(c.Domains) }

// MonitoringScore is the midpoint between cutoff and the maximum score,
// rounded to two decimals.
func (c *Catalog) MonitoringScore(cutoff float64) float64 {
	return math.Round((cutoff+c.MaxScore)/2*100) / 100
}

// IntervalForAgeDays returns the interval containing ageDays.
func (c *Catalog) IntervalForAgeDays(ageDays int) (AgeInterval, bool) {
	for _, iv := range c.AgeIntervals {
		if ageDays >= iv.MinAgeDays && ageDays <= iv.MaxAgeDays {
			return iv, true
		}
	}
	return AgeInterval{}, false
}

// AgeGroupFor picks the AKG band for a child's age in months.
func (c *Catalog) AgeGroupFor(ageMonths int) AgeGroup {
	for _, g := range c.AgeGroups {
		if g.MaxAgeMonths > 0 && ageMonths < g.MaxAgeMonths {
			return g
		}
	}
	return c.AgeGroups[len(c.AgeGroups)-1]
}

// AgeGroup looks a band up by key ("0-6", "6-12", "1-3", "4-6").
func (c *Catalog) AgeGroup(key string) (AgeGroup, bool) {
	for _, g := range c.AgeGroups {
		if g.Key == key {
			return g, true
		}
	}
	return AgeGroup{}, false
}

// AgeTokens maps filename age tokens ("12-bulan") to age months.
func (c *Catalog) AgeTokens() map[string]int {
	m := make(map[string]int, len(c.AgeIntervals))
	for _, iv := range c.AgeIntervals {
		m[iv.ImageToken()] = iv.AgeMonths
	}
	return m
}

// DomainTokens maps filename domain tokens ("motorik-kasar") to domain codes.
func (c *Catalog) DomainTokens() map[string]string {
	m := make(map[string]string, len(c.Domains))
	for _, d := range c.Domains {
		m[d.ImageToken] = d.Code
	}
	return m
}

// ParseAgeToken accepts "N-bulan" for any N in the catalog.
func (c *Catalog) ParseAgeToken(token string) (int, bool) {
	n, ok := strings.CutSuffix(token, "-bulan")
	if !ok {
		return 0, false
	}
	months, err := strconv.Atoi(n)
	if err != nil {
		return 0, false
	}
	_, known := c.AgeTokens()[token]
	return months, known
}
