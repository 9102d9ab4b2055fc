// Package camera converts normalized pointer coordinates into world-space pick rays.
package camera

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"stock_terrain/internal/feature/terrain/domain/pick"
)

var (
	// ErrNDCOutOfRange is returned for device coordinates outside [-1,1].
	ErrNDCOutOfRange = errors.New("camera: normalized device coordinates must be within [-1,1]")
	// ErrInvalidCamera is returned when the frustum parameters are unusable.
	ErrInvalidCamera = errors.New("camera: invalid perspective parameters")
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64 // vertical field of view in degrees
	Aspect   float64 // width / height
	Near     float64
	Far      float64
}

// Default returns a camera above and in front of a terrain centered on the origin.
func Default() Camera {
	return Camera{
		Position: mgl64.Vec3{0, 30, 35},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     50,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}

// Validate reports whether the camera can build a projection.
func (c Camera) Validate() error {
	switch {
	case c.FovY <= 0 || c.FovY >= 180:
		return ErrInvalidCamera
	case c.Aspect <= 0:
		return ErrInvalidCamera
	case c.Near <= 0 || c.Far <= c.Near:
		return ErrInvalidCamera
	case c.Position.Sub(c.Target).Len() == 0:
		return ErrInvalidCamera
	case c.Up.Len() == 0:
		return ErrInvalidCamera
	}
	return nil
}

// Ray returns the world ray through the normalized device point (x, y),
// x to the right and y up, both in [-1,1].
func (c Camera) Ray(x, y float64) (pick.Ray, error) {
	if math.IsNaN(x) || math.IsNaN(y) || x < -1 || x > 1 || y < -1 || y > 1 {
		return pick.Ray{}, ErrNDCOutOfRange
	}
	if err := c.Validate(); err != nil {
		return pick.Ray{}, err
	}

	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Position, c.Target, c.Up)
	inv := proj.Mul4(view).Inv()

	near := unproject(inv, x, y, -1)
	far := unproject(inv, x, y, 1)
	return pick.NewRay(near, far.Sub(near))
}

func unproject(inv mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	v := inv.Mul4x1(mgl64.Vec4{x, y, z, 1})
	return v.Vec3().Mul(1 / v.W())
}
