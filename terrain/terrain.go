// Package terrain provides the height-field abstraction the contact
// resolver queries for elevation and surface normals, together with the
// penetration computation of a collidable point.
package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Terrain supplies per-point elevation and surface normal queries.
type Terrain interface {
	// Height returns the terrain elevation at the horizontal position (x, y).
	Height(x, y float64) float64
	// Normal returns the unit surface normal at (x, y).
	Normal(x, y float64) mgl64.Vec3
}

// Flat is a horizontal plane at a fixed elevation.
type Flat struct {
	Elevation float64
}

// NewFlat returns a flat terrain at the given elevation.
func NewFlat(elevation float64) Flat {
	return Flat{Elevation: elevation}
}

func (f Flat) Height(x, y float64) float64 { return f.Elevation }

func (f Flat) Normal(x, y float64) mgl64.Vec3 { return mgl64.Vec3{0, 0, 1} }

// Penetration computes the penetration data of a collidable point: the
// non-negative depth along the local surface normal, the velocity of the
// point relative to the terrain, and the normal itself. A depth of zero
// means the point is not in contact.
func Penetration(position, velocity mgl64.Vec3, t Terrain) (depth float64, relativeVelocity, normal mgl64.Vec3) {
	normal = t.Normal(position.X(), position.Y())

	gap := mgl64.Vec3{0, 0, t.Height(position.X(), position.Y()) - position.Z()}
	depth = math.Max(0, gap.Dot(normal))

	return depth, velocity, normal
}
