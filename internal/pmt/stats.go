package pmt

import "math"

// Breakdown counts logs per portion.
type Breakdown struct {
	Habis   int `json:"habis"`
	Half    int `json:"half"`
	Quarter int `json:"quarter"`
	None    int `json:"none"`
}

// Add counts one log of the given portion. Unknown portions are ignored.
func (b *Breakdown) Add(portion string, n int) {
	switch portion {
	case PortionHabis:
		b.Habis += n
	case PortionHalf:
		b.Half += n
	case PortionQuarter:
		b.Quarter += n
	case PortionNone:
		b.None += n
	}
}

// Stats summarises a set of schedules and their logs.
type Stats struct {
	TotalScheduled  int       `json:"total_scheduled"`
	TotalLogged     int       `json:"total_logged"`
	Pending         int       `json:"pending"`
	ComplianceRate  float64   `json:"compliance_rate"`
	ConsumptionRate float64   `json:"consumption_rate"`
	Breakdown       Breakdown `json:"consumption_breakdown"`
}

// ComputeStats derives the rates:
//
//	compliance  = logged / scheduled × 100
//	consumption = (habis×100 + half×50 + quarter×25) / (logged×100) × 100
//
// both rounded to one decimal, 0 when the denominator is 0.
func ComputeStats(scheduled, logged int, b Breakdown) Stats {
	s := Stats{
		TotalScheduled: scheduled,
		TotalLogged:    logged,
		Pending:        scheduled - logged,
		Breakdown:      b,
	}
	if scheduled > 0 {
		s.ComplianceRate = Round1(float64(logged) / float64(scheduled) * 100)
	}
	if logged > 0 {
		points := b.Habis*100 + b.Half*50 + b.Quarter*25
		s.ConsumptionRate = Round1(float64(points) / float64(logged*100) * 100)
	}
	return s
}

// StatsFromPortions computes Stats for scheduled schedules whose logs carry
// the given portions (one entry per logged schedule).
func StatsFromPortions(scheduled int, logged []string) Stats {
	var b Breakdown
	for _, p := range logged {
		b.Add(p, 1)
	}
	return ComputeStats(scheduled, len(logged), b)
}

// Round1 rounds half away from zero to one decimal.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
