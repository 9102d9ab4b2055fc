// Package mesh turns a dense grid into a height-mapped triangle surface and
// maps points on that surface back to grid coordinates and domain values.
package mesh

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrGridTooSmall is returned for grids with fewer than 2 rows or columns.
	ErrGridTooSmall = errors.New("mesh: grid must be at least 2x2")
	// ErrInvalidAxes is returned when a scale or the height is not positive.
	ErrInvalidAxes = errors.New("mesh: axis scales and height must be positive")
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Mesh is the read-only surface built from one grid.
// Vertex (row, col) lives at index row*Cols+col.
type Mesh struct {
	Rows      int
	Cols      int
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Heights   []float64 // normalized height per vertex
	Colors    []Color
	Triangles [][3]int
	Bounds    AABB
	// Pickable is false for meshes built from a grid without any observation;
	// such meshes still render (flat) but never report a hit.
	Pickable bool
}

// VertexCount returns rows*cols.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns 2*(rows-1)*(cols-1).
func (m *Mesh) TriangleCount() int { return len(m.Triangles) }

// Index returns the vertex index of (row, col).
func (m *Mesh) Index(row, col int) int { return row*m.Cols + col }

// Vertex returns the position of (row, col).
func (m *Mesh) Vertex(row, col int) mgl64.Vec3 { return m.Positions[m.Index(row, col)] }

// SizeBytes estimates the memory held by the mesh buffers.
func (m *Mesh) SizeBytes() int64 {
	const vec3 = 3 * 8
	v := int64(len(m.Positions))
	return v*vec3*2 + v*8 + v*vec3 + int64(len(m.Triangles))*3*8
}
