// Package dynamics assembles the step-local contact problem: the Delassus
// effective-mass operator, the regularization diagonal and the free and
// reference accelerations over the active contact set. The rigid-body
// algebra itself is consumed from an external Engine.
package dynamics

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/talus-dyn/talus/frame"
)

// Engine is the narrow surface the resolver consumes from a rigid-body
// kinematics/dynamics implementation. Every quantity refers to the engine's
// current state, expressed in its current velocity representation; the
// resolver switches the engine to frame.Mixed before assembling a problem.
//
// Per-point slices are indexed over the enabled collidable points, in the
// order of EnabledPointIndices.
type Engine interface {
	// Representation returns the current velocity representation.
	Representation() frame.Representation
	// SetRepresentation switches the velocity representation of all
	// subsequently returned quantities.
	SetRepresentation(frame.Representation)

	// CollidablePointKinematics returns the world position and linear
	// velocity of each enabled collidable point.
	CollidablePointKinematics() (positions, velocities []mgl64.Vec3)
	// ContactTransforms returns the world homogeneous transform of the
	// implicit frame attached to each enabled collidable point.
	ContactTransforms() []mgl64.Mat4
	// ContactJacobians returns, per enabled point, the 3×(6+dof) linear
	// velocity Jacobian.
	ContactJacobians() []*mat.Dense
	// ContactJacobianDerivatives returns the time derivative of each
	// contact Jacobian.
	ContactJacobianDerivatives() []*mat.Dense

	// MassMatrix returns the (6+dof)×(6+dof) free-floating mass matrix.
	MassMatrix() *mat.Dense
	// GeneralizedVelocity returns the (6+dof) generalized velocity.
	GeneralizedVelocity() *mat.VecDense
	// FreeAcceleration returns the generalized acceleration the mechanism
	// would have with no contact forces, under the given external link
	// forces and joint forces.
	FreeAcceleration(linkForces []frame.SpatialForce, jointForces []float64) *mat.VecDense

	// EnabledPointIndices returns the indices of the enabled collidable
	// points within the model's full point set. Static topology.
	EnabledPointIndices() []int
	// ParentLink returns the link a model point index is rigidly attached to.
	ParentLink(point int) int
	// LinkSpatialInertia returns the 6×6 spatial inertia of a link, with
	// the 3×3 rotational-inertia block in the top-left corner.
	LinkSpatialInertia(link int) *mat.SymDense

	// Links, Joints and Points return the static counts of links, joint
	// degrees of freedom and enabled collidable points.
	Links() int
	Joints() int
	Points() int
}
