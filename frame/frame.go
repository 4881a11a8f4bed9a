// Package frame defines the velocity representations used by the resolver
// and the conversions of 6D spatial forces between them.
package frame

import "github.com/go-gl/mathgl/mgl64"

// Representation selects the frame convention of 6D quantities.
type Representation int

const (
	// Inertial expresses quantities in the world frame.
	Inertial Representation = iota
	// Body expresses quantities in the frame of the body they refer to.
	Body
	// Mixed expresses quantities in a frame with the body's origin and the
	// world's orientation. The contact regularization and Jacobian math are
	// only valid in this representation.
	Mixed
)

func (r Representation) String() string {
	switch r {
	case Inertial:
		return "inertial"
	case Body:
		return "body"
	case Mixed:
		return "mixed"
	}
	return "unknown"
}

// SpatialForce is a 6D force: a linear force and a moment.
type SpatialForce struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// Add returns the componentwise sum of two spatial forces.
func (f SpatialForce) Add(o SpatialForce) SpatialForce {
	return SpatialForce{
		Linear:  f.Linear.Add(o.Linear),
		Angular: f.Angular.Add(o.Angular),
	}
}

// IsZero reports whether both components are exactly zero.
func (f SpatialForce) IsZero() bool {
	return f.Linear == (mgl64.Vec3{}) && f.Angular == (mgl64.Vec3{})
}

// ForceToInertial re-expresses a spatial force sampled in the given
// representation of a frame into the inertial frame. worldTransform is the
// homogeneous transform of the frame the force is attached to.
func ForceToInertial(f SpatialForce, worldTransform mgl64.Mat4, rep Representation) SpatialForce {
	switch rep {
	case Body:
		rot := worldTransform.Mat3()
		pos := worldTransform.Col(3).Vec3()
		lin := rot.Mul3x1(f.Linear)
		return SpatialForce{
			Linear:  lin,
			Angular: rot.Mul3x1(f.Angular).Add(pos.Cross(lin)),
		}
	case Mixed:
		// World-aligned orientation: only the moment arm changes.
		pos := worldTransform.Col(3).Vec3()
		return SpatialForce{
			Linear:  f.Linear,
			Angular: f.Angular.Add(pos.Cross(f.Linear)),
		}
	}
	return f
}
