// Package pick resolves rays against terrain meshes.
package pick

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"stock_terrain/internal/feature/terrain/domain/mesh"
)

// ErrZeroDirection is returned for rays without a direction.
var ErrZeroDirection = errors.New("pick: ray direction must be non-zero")

// barycentric tolerance so rays through a shared vertex or edge still hit
const edgeEpsilon = 1e-9

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay normalizes dir and returns the ray.
func NewRay(origin, dir mgl64.Vec3) (Ray, error) {
	l := dir.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Ray{}, ErrZeroDirection
	}
	return Ray{Origin: origin, Direction: dir.Mul(1 / l)}, nil
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is the nearest intersection of a ray with a mesh.
type Hit struct {
	Point    mgl64.Vec3
	Distance float64
	Triangle int
}

// Intersect returns the nearest intersection of r with m in front of the origin.
func Intersect(r Ray, m *mesh.Mesh) (Hit, bool) {
	if m == nil || len(m.Triangles) == 0 {
		return Hit{}, false
	}
	if _, ok := intersectAABB(r, m.Bounds); !ok {
		return Hit{}, false
	}

	best := Hit{Distance: math.Inf(1), Triangle: -1}
	for i, t := range m.Triangles {
		d, ok := intersectTriangle(r, m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]])
		if ok && d < best.Distance {
			best = Hit{Distance: d, Triangle: i}
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}

// intersectTriangle is the Möller–Trumbore test. Both faces count as hits.
func intersectTriangle(r Ray, v0, v1, v2 mgl64.Vec3) (float64, bool) {
	const parallel = 1e-12

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < parallel {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(v0)
	u := s.Dot(p) * inv
	if u < -edgeEpsilon || u > 1+edgeEpsilon {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < -edgeEpsilon || u+v > 1+edgeEpsilon {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= edgeEpsilon {
		return 0, false
	}
	return t, true
}

// intersectAABB is the slab test; it returns the entry distance.
func intersectAABB(r Ray, b mesh.AABB) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for k := 0; k < 3; k++ {
		o, d := r.Origin[k], r.Direction[k]
		if math.Abs(d) < 1e-15 {
			if o < b.Min[k]-edgeEpsilon || o > b.Max[k]+edgeEpsilon {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[k] - edgeEpsilon - o) / d
		t2 := (b.Max[k] + edgeEpsilon - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return math.Max(tmin, 0), true
}
