// Package noise synthesizes demo terrain height fields from layered coherent noise.
package noise

import (
	"errors"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"stock_terrain/internal/feature/terrain/domain/grid"
)

const (
	// DefaultOctaves is the number of noise layers summed per cell.
	DefaultOctaves = 4
	// DefaultScale maps the unit square of the grid into noise space.
	DefaultScale = 3.0
)

// ErrInvalidSize is returned for resolutions below 2×2.
var ErrInvalidSize = errors.New("noise: size must be at least 2")

// Options configures Synthesize.
type Options struct {
	Size    int     // grid resolution, Size×Size
	Seed    int64   // noise seed
	Octaves int     // defaults to DefaultOctaves
	Scale   float64 // defaults to DefaultScale
}

// Stats carries the raw range observed before normalization.
type Stats struct {
	RawMin float64
	RawMax float64
}

// Source is a coherent 2D noise function. It must be pure: the same input
// always yields the same output.
type Source func(x, y float64) float64

// NewSource returns the simplex noise source for seed.
func NewSource(seed int64) Source {
	n := opensimplex.New(seed)
	return n.Eval2
}

// Fractal sums octaves of src at (x, y). The first octave has amplitude 1 and
// frequency 1; every following octave halves the amplitude and doubles the
// frequency.
func Fractal(src Source, x, y float64, octaves int) float64 {
	var (
		sum       float64
		amplitude = 1.0
		frequency = 1.0
	)
	for o := 0; o < octaves; o++ {
		sum += amplitude * src(frequency*x, frequency*y)
		amplitude *= 0.5
		frequency *= 2
	}
	return sum
}

// Synthesize returns a fully filled Size×Size grid with values in [0,1].
//
// Every raw value is generated first while tracking min and max; cells are
// normalized only in the second pass once the range of the whole field is
// known. A flat field (max == min) normalizes to all zeros.
func Synthesize(opts Options) (*grid.Grid, Stats, error) {
	if opts.Size < 2 {
		return nil, Stats{}, ErrInvalidSize
	}
	if opts.Octaves <= 0 {
		opts.Octaves = DefaultOctaves
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}

	src := NewSource(opts.Seed)
	n := opts.Size
	raw := make([]float64, n*n)
	st := Stats{RawMin: math.Inf(1), RawMax: math.Inf(-1)}

	for row := 0; row < n; row++ {
		ny := float64(row) / float64(n) * opts.Scale
		for col := 0; col < n; col++ {
			nx := float64(col) / float64(n) * opts.Scale
			v := Fractal(src, nx, ny, opts.Octaves)
			raw[row*n+col] = v
			st.RawMin = math.Min(st.RawMin, v)
			st.RawMax = math.Max(st.RawMax, v)
		}
	}

	g, err := grid.New(n, n)
	if err != nil {
		return nil, Stats{}, err
	}
	span := st.RawMax - st.RawMin
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			var h float64
			if span > 0 {
				h = (raw[row*n+col] - st.RawMin) / span
			}
			g.Set(row, col, h)
		}
	}
	return g, st, nil
}
