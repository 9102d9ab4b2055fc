package mesh

import "sort"

// Color is a linear RGB triple with components in [0,1].
type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// ColorStop pins a color to a normalized height.
type ColorStop struct {
	At    float64 `yaml:"at"`
	Color Color   `yaml:"color"`
}

// Ramp maps normalized heights to colors by linear interpolation between stops.
type Ramp []ColorStop

// DefaultRamp runs from deep blue (low) through green and yellow to red (high).
func DefaultRamp() Ramp {
	return Ramp{
		{At: 0, Color: Color{R: 0.10, G: 0.20, B: 0.60}},
		{At: 0.35, Color: Color{R: 0.15, G: 0.65, B: 0.35}},
		{At: 0.70, Color: Color{R: 0.95, G: 0.85, B: 0.25}},
		{At: 1, Color: Color{R: 0.85, G: 0.20, B: 0.15}},
	}
}

// Sorted returns a copy ordered by stop position.
func (r Ramp) Sorted() Ramp {
	out := make(Ramp, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// At returns the color for n. r must be sorted; an empty ramp yields white.
func (r Ramp) At(n float64) Color {
	if len(r) == 0 {
		return Color{R: 1, G: 1, B: 1}
	}
	if n <= r[0].At {
		return r[0].Color
	}
	last := r[len(r)-1]
	if n >= last.At {
		return last.Color
	}
	for i := 1; i < len(r); i++ {
		hi := r[i]
		if n > hi.At {
			continue
		}
		lo := r[i-1]
		span := hi.At - lo.At
		if span <= 0 {
			return hi.Color
		}
		t := (n - lo.At) / span
		return Color{
			R: lo.Color.R + (hi.Color.R-lo.Color.R)*t,
			G: lo.Color.G + (hi.Color.G-lo.Color.G)*t,
			B: lo.Color.B + (hi.Color.B-lo.Color.B)*t,
		}
	}
	return last.Color
}
