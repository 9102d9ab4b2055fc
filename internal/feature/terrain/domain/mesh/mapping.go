package mesh

import "stock_terrain/internal/feature/terrain/domain/grid"

// ValueMapping is the linear policy between domain values (prices) and
// normalized heights. The projector uses Normalize on the way in and the pick
// resolver uses Denormalize on the way back, so both directions always agree.
type ValueMapping struct {
	Base   float64 `json:"base"`
	Spread float64 `json:"spread"`
}

// RangeMapping maps a resolved grid range onto [0,1].
func RangeMapping(r grid.Range) ValueMapping {
	return ValueMapping{Base: r.Min, Spread: r.Span()}
}

// Normalize returns (v-Base)/Spread clamped to [0,1]. A non-positive spread
// maps everything to 0.
func (m ValueMapping) Normalize(v float64) float64 {
	if m.Spread <= 0 {
		return 0
	}
	return clamp01((v - m.Base) / m.Spread)
}

// Denormalize returns Base + n*Spread.
func (m ValueMapping) Denormalize(n float64) float64 {
	return m.Base + n*m.Spread
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
