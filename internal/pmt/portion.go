// Package pmt holds the supplementary feeding arithmetic: the portion
// enumeration, compliance and consumption rates, and program progress.
package pmt

import "github.com/jagoanbunda/jagoanbunda-data/internal/domain"

// Portions eaten, as stored on a log.
const (
	PortionHabis   = domain.PortionHabis
	PortionHalf    = domain.PortionHalf
	PortionQuarter = domain.PortionQuarter
	PortionNone    = domain.PortionNone
)

// PortionInfo is the derived view of a portion value.
type PortionInfo = domain.PortionInfo

// Portions lists every portion from fully eaten to untouched.
func Portions() []PortionInfo {
	return domain.AllPortions()
}

// Lookup returns the info for a portion value.
func Lookup(portion string) (PortionInfo, bool) {
	return domain.LookupPortion(portion)
}

// ValidPortion reports whether portion is one of the four known values.
func ValidPortion(portion string) bool {
	_, ok := Lookup(portion)
	return ok
}

// Percent is the eaten percentage of portion, 0 for unknown values.
func Percent(portion string) int {
	p, _ := Lookup(portion)
	return p.Percent
}

// Label is the display label of portion; unknown values are returned as is.
func Label(portion string) string {
	if p, ok := Lookup(portion); ok {
		return p.Label
	}
	return portion
}
