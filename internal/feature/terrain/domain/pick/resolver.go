package pick

import (
	"github.com/go-gl/mathgl/mgl64"

	"stock_terrain/internal/feature/terrain/domain/mesh"
)

// Result is one resolved interaction. When Hit is false the other fields are
// zero and carry no meaning.
type Result struct {
	Hit              bool
	Row              int
	Col              int
	NormalizedHeight float64
	Value            float64
	Point            mgl64.Vec3
	Distance         float64
}

// Resolver turns rays into grid coordinates and domain values for meshes
// built by one projector.
type Resolver struct {
	projector *mesh.Projector
}

// NewResolver returns a resolver that inverts with p.
func NewResolver(p *mesh.Projector) *Resolver {
	return &Resolver{projector: p}
}

// Resolve intersects r with m and inverts the nearest hit. Meshes that are not
// pickable (built without observations) never hit.
func (rs *Resolver) Resolve(r Ray, m *mesh.Mesh) Result {
	if m == nil || !m.Pickable {
		return Result{}
	}
	h, ok := Intersect(r, m)
	if !ok {
		return Result{}
	}
	inv := rs.projector.Invert(h.Point, m.Rows, m.Cols)
	return Result{
		Hit:              true,
		Row:              inv.Row,
		Col:              inv.Col,
		NormalizedHeight: inv.NormalizedHeight,
		Value:            inv.Value,
		Point:            h.Point,
		Distance:         h.Distance,
	}
}
