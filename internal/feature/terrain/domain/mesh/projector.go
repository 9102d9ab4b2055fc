package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"stock_terrain/internal/feature/terrain/domain/grid"
)

// Axes places grid cells in world space. Columns run along X, rows along Z,
// normalized height along Y. The scales let the caller stretch the short
// month axis against the long day axis; nothing about that is fixed here.
type Axes struct {
	ScaleX  float64 `yaml:"scale_x"` // world units per column
	ScaleZ  float64 `yaml:"scale_z"` // world units per row
	OffsetX float64 `yaml:"offset_x"`
	OffsetZ float64 `yaml:"offset_z"`
	Height  float64 `yaml:"height"` // world Y of a normalized height of 1
}

// Validate checks that the axes produce a non-degenerate, upward-facing surface.
func (a Axes) Validate() error {
	if a.ScaleX <= 0 || a.ScaleZ <= 0 || a.Height <= 0 {
		return ErrInvalidAxes
	}
	return nil
}

// Centered returns a copy of a with offsets that center a rows×cols grid on the origin.
func (a Axes) Centered(rows, cols int) Axes {
	a.OffsetX = -float64(cols-1) * a.ScaleX / 2
	a.OffsetZ = -float64(rows-1) * a.ScaleZ / 2
	return a
}

// Inversion is a surface point mapped back into grid and domain terms.
type Inversion struct {
	Row              int
	Col              int
	FracRow          float64
	FracCol          float64
	NormalizedHeight float64
	Value            float64
}

// Projector converts grids into meshes and mesh points back into grid terms.
type Projector struct {
	axes    Axes
	mapping ValueMapping
	ramp    Ramp
}

// NewProjector returns a projector using the given axes and value mapping.
// A nil ramp uses DefaultRamp.
func NewProjector(axes Axes, mapping ValueMapping, ramp Ramp) (*Projector, error) {
	if err := axes.Validate(); err != nil {
		return nil, err
	}
	if len(ramp) == 0 {
		ramp = DefaultRamp()
	}
	return &Projector{axes: axes, mapping: mapping, ramp: ramp.Sorted()}, nil
}

// Axes returns the projector axes.
func (p *Projector) Axes() Axes { return p.axes }

// Mapping returns the projector value mapping.
func (p *Projector) Mapping() ValueMapping { return p.mapping }

// Project builds the mesh for g. Unfilled cells project at height 0.
func (p *Projector) Project(g *grid.Grid) (*Mesh, error) {
	rows, cols := g.Rows(), g.Cols()
	if rows < 2 || cols < 2 {
		return nil, ErrGridTooSmall
	}

	n := rows * cols
	m := &Mesh{
		Rows:      rows,
		Cols:      cols,
		Positions: make([]mgl64.Vec3, n),
		Normals:   make([]mgl64.Vec3, n),
		Heights:   make([]float64, n),
		Colors:    make([]Color, n),
		Triangles: make([][3]int, 0, 2*(rows-1)*(cols-1)),
		Pickable:  !g.Empty(),
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var h float64
			if cell := g.At(r, c); cell.Valid {
				h = p.mapping.Normalize(cell.Value)
			}
			i := r*cols + c
			m.Heights[i] = h
			m.Colors[i] = p.ramp.At(h)
			m.Positions[i] = mgl64.Vec3{
				p.axes.OffsetX + float64(c)*p.axes.ScaleX,
				h * p.axes.Height,
				p.axes.OffsetZ + float64(r)*p.axes.ScaleZ,
			}
		}
	}

	// Each quad (r,c)-(r+1,c+1) splits along the a→e diagonal:
	//   a=(r,c)   b=(r,c+1)
	//   d=(r+1,c) e=(r+1,c+1)
	// Both triangles are wound so (v1-v0)×(v2-v0) points +Y.
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			a := r*cols + c
			b := a + 1
			d := a + cols
			e := d + 1
			m.Triangles = append(m.Triangles, [3]int{a, d, b}, [3]int{b, d, e})
		}
	}

	computeNormals(m)
	m.Bounds = bounds(m.Positions)
	return m, nil
}

// computeNormals averages the unit normals of the faces around each vertex.
func computeNormals(m *Mesh) {
	for _, t := range m.Triangles {
		v0, v1, v2 := m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]]
		fn := v1.Sub(v0).Cross(v2.Sub(v0))
		if l := fn.Len(); l > 0 {
			fn = fn.Mul(1 / l)
		}
		for _, i := range t {
			m.Normals[i] = m.Normals[i].Add(fn)
		}
	}
	up := mgl64.Vec3{0, 1, 0}
	for i, n := range m.Normals {
		if l := n.Len(); l > 0 {
			m.Normals[i] = n.Mul(1 / l)
		} else {
			m.Normals[i] = up
		}
	}
}

func bounds(ps []mgl64.Vec3) AABB {
	b := AABB{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range ps {
		for k := 0; k < 3; k++ {
			b.Min[k] = math.Min(b.Min[k], p[k])
			b.Max[k] = math.Max(b.Max[k], p[k])
		}
	}
	return b
}

// Invert maps a world point on a rows×cols mesh back to grid coordinates and
// a domain value. Recovered coordinates are clamped into the grid, so a point
// on or slightly beyond a boundary edge never indexes out of range.
func (p *Projector) Invert(pt mgl64.Vec3, rows, cols int) Inversion {
	fc := clamp((pt.X()-p.axes.OffsetX)/p.axes.ScaleX, 0, float64(cols-1))
	fr := clamp((pt.Z()-p.axes.OffsetZ)/p.axes.ScaleZ, 0, float64(rows-1))
	h := clamp01(pt.Y() / p.axes.Height)

	return Inversion{
		Row:              int(math.Round(fr)),
		Col:              int(math.Round(fc)),
		FracRow:          fr,
		FracCol:          fc,
		NormalizedHeight: h,
		Value:            p.mapping.Denormalize(h),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
