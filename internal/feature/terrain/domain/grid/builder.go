package grid

import (
	"math"
	"time"
)

// Point is one dated observation fed into the builder, typically a daily close.
type Point struct {
	Time  time.Time
	Value float64
}

// Report summarizes a build for advisory messages.
type Report struct {
	// Written counts observations stored in the grid (duplicates included).
	Written int
	// Dropped counts observations outside the target year or with a non-finite value.
	Dropped int
	// Empty is true when no observation survived, so the grid stayed unfilled
	// and the default range applies.
	Empty bool
}

// Builder reconstructs a dense calendar grid for one year.
type Builder struct {
	year   int
	policy RangePolicy
}

// NewBuilder returns a builder for the given calendar year.
// A year <= 0 disables the year check; callers are then expected to pre-filter.
func NewBuilder(year int, policy RangePolicy) *Builder {
	return &Builder{year: year, policy: policy}
}

// Build writes each point into (month-1, day-1), later points overwriting
// earlier ones for the same date, fills the gaps and resolves the range.
func (b *Builder) Build(points []Point) (*Grid, Range, Report) {
	g := NewCalendar()
	var rep Report

	for _, p := range points {
		if b.year > 0 && p.Time.Year() != b.year {
			rep.Dropped++
			continue
		}
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			rep.Dropped++
			continue
		}
		month := int(p.Time.Month()) - 1
		day := p.Time.Day() - 1
		if !g.Set(month, day, p.Value) {
			rep.Dropped++
			continue
		}
		rep.Written++
	}

	Fill(g)
	rep.Empty = g.Empty()
	return g, b.policy.Resolve(g), rep
}
