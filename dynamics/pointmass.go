package dynamics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talus-dyn/talus/frame"
)

// PointMass is the smallest possible Engine: a single free-floating solid
// sphere with one collidable point at its origin and no joints. It is the
// reference implementation used by the examples and the end-to-end tests;
// its orientation is the identity, so the body, mixed and inertial
// representations of its quantities coincide.
type PointMass struct {
	Mass     float64
	Radius   float64
	Gravity  mgl64.Vec3
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	rep frame.Representation
}

// NewPointMass returns a point mass with the given mass and radius under
// standard gravity.
func NewPointMass(mass, radius float64) *PointMass {
	return &PointMass{
		Mass:    mass,
		Radius:  radius,
		Gravity: mgl64.Vec3{0, 0, -9.81},
	}
}

func (pm *PointMass) Representation() frame.Representation { return pm.rep }

func (pm *PointMass) SetRepresentation(r frame.Representation) { pm.rep = r }

func (pm *PointMass) CollidablePointKinematics() (positions, velocities []mgl64.Vec3) {
	return []mgl64.Vec3{pm.Position}, []mgl64.Vec3{pm.Velocity}
}

func (pm *PointMass) ContactTransforms() []mgl64.Mat4 {
	return []mgl64.Mat4{mgl64.Translate3D(pm.Position.X(), pm.Position.Y(), pm.Position.Z())}
}

func (pm *PointMass) ContactJacobians() []*mat.Dense {
	j := mat.NewDense(3, 6, nil)
	for i := 0; i < 3; i++ {
		j.Set(i, i, 1)
	}
	return []*mat.Dense{j}
}

func (pm *PointMass) ContactJacobianDerivatives() []*mat.Dense {
	return []*mat.Dense{mat.NewDense(3, 6, nil)}
}

func (pm *PointMass) MassMatrix() *mat.Dense {
	m := mat.NewDense(6, 6, nil)
	inertia := pm.rotationalInertia()
	for i := 0; i < 3; i++ {
		m.Set(i, i, pm.Mass)
		m.Set(i+3, i+3, inertia)
	}
	return m
}

func (pm *PointMass) GeneralizedVelocity() *mat.VecDense {
	nu := mat.NewVecDense(6, nil)
	for i := 0; i < 3; i++ {
		nu.SetVec(i, pm.Velocity[i])
	}
	return nu
}

func (pm *PointMass) FreeAcceleration(linkForces []frame.SpatialForce, jointForces []float64) *mat.VecDense {
	a := mat.NewVecDense(6, nil)
	inertia := pm.rotationalInertia()
	for i := 0; i < 3; i++ {
		a.SetVec(i, pm.Gravity[i])
		if len(linkForces) > 0 {
			a.SetVec(i, a.AtVec(i)+linkForces[0].Linear[i]/pm.Mass)
			a.SetVec(i+3, linkForces[0].Angular[i]/inertia)
		}
	}
	return a
}

func (pm *PointMass) EnabledPointIndices() []int { return []int{0} }

func (pm *PointMass) ParentLink(point int) int { return 0 }

func (pm *PointMass) LinkSpatialInertia(link int) *mat.SymDense {
	m := mat.NewSymDense(6, nil)
	inertia := pm.rotationalInertia()
	for i := 0; i < 3; i++ {
		m.SetSym(i, i, inertia)
		m.SetSym(i+3, i+3, pm.Mass)
	}
	return m
}

func (pm *PointMass) Links() int { return 1 }

func (pm *PointMass) Joints() int { return 0 }

func (pm *PointMass) Points() int { return 1 }

// rotationalInertia is the solid-sphere moment 2/5·m·r².
func (pm *PointMass) rotationalInertia() float64 {
	return 0.4 * pm.Mass * pm.Radius * pm.Radius
}
