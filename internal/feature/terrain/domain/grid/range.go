package grid

import "math"

// DefaultMinSpan is the smallest max-min distance a resolved range may have.
const DefaultMinSpan = 10.0

// DefaultRange is used when a grid holds no observation at all.
var DefaultRange = Range{Min: 0, Max: 1000}

// Range is the value range used to normalize a grid. Max >= Min always holds.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// RangePolicy decides how a grid's observed range becomes a normalization range.
type RangePolicy struct {
	// MinSpan widens ranges narrower than this, symmetrically around their midpoint.
	MinSpan float64
	// Default applies when the grid has no valid cell.
	Default Range
}

// DefaultRangePolicy returns the policy used by the calendar terrain.
func DefaultRangePolicy() RangePolicy {
	return RangePolicy{MinSpan: DefaultMinSpan, Default: DefaultRange}
}

// Scan returns the min and max over valid cells. ok is false when g has none.
func Scan(g *Grid) (r Range, ok bool) {
	r = Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, c := range g.cells {
		if !c.Valid {
			continue
		}
		ok = true
		if c.Value < r.Min {
			r.Min = c.Value
		}
		if c.Value > r.Max {
			r.Max = c.Value
		}
	}
	if !ok {
		return Range{}, false
	}
	return r, true
}

// Resolve returns the normalization range for g.
func (p RangePolicy) Resolve(g *Grid) Range {
	r, ok := Scan(g)
	if !ok {
		r = p.Default
	}
	return p.Widen(r)
}

// Widen expands r symmetrically until its span reaches MinSpan.
func (p RangePolicy) Widen(r Range) Range {
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Span() >= p.MinSpan {
		return r
	}
	mid := (r.Min + r.Max) / 2
	half := p.MinSpan / 2
	return Range{Min: mid - half, Max: mid + half}
}
