// Package talus resolves contact forces for rigid-body mechanisms standing
// on a terrain. Once per simulation step, the Resolver maps the mechanism's
// kinematic state to the 3D forces at every candidate contact point that are
// consistent with a relaxed, regularized non-penetration and friction
// condition, and returns them as per-link 6D spatial forces in the inertial
// frame.
package talus

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/talus-dyn/talus/contact"
	"github.com/talus-dyn/talus/dynamics"
	"github.com/talus-dyn/talus/frame"
	"github.com/talus-dyn/talus/solver"
	"github.com/talus-dyn/talus/terrain"
)

// Diagnostics carries solver telemetry for a step: the iteration count and
// the final gradient norm. Non-convergence within the iteration budget is a
// silent-degradation policy; callers needing strict guarantees inspect these
// values.
type Diagnostics map[string]float64

// Resolver computes contact forces once per simulation step. Parameters and
// options are validated at construction and treated as read-only afterwards;
// a Resolver holds no per-step state and may be reused across any number of
// sequential steps.
type Resolver struct {
	Params  contact.Parameters
	Options solver.Options
	Terrain terrain.Terrain

	// Workers bounds the fan-out of the per-point computations. The
	// optimization itself is strictly sequential.
	Workers int
}

// NewResolver validates the configuration and returns a resolver over the
// given terrain. A nil terrain defaults to a flat plane at zero elevation.
func NewResolver(params contact.Parameters, terr terrain.Terrain, opts solver.Options) (*Resolver, error) {
	if !params.Valid() {
		return nil, fmt.Errorf("talus: invalid contact parameters: %+v", params)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if terr == nil {
		terr = terrain.NewFlat(0)
	}

	return &Resolver{
		Params:  params,
		Options: opts,
		Terrain: terr,
		Workers: 1,
	}, nil
}

// ComputeContactForces resolves the contact forces for the engine's current
// state. linkForces is an optional per-link 6D external force, interpreted
// by the engine in the mixed representation, and jointForces an optional
// per-joint force; nil means zero. The returned slice holds one
// inertial-frame spatial force per link, exactly zero for links with no
// active contact.
//
// The engine is switched to the mixed representation internally and restored
// to the caller's representation on return.
func (r *Resolver) ComputeContactForces(eng dynamics.Engine, linkForces []frame.SpatialForce, jointForces []float64) ([]frame.SpatialForce, Diagnostics, error) {
	if linkForces == nil {
		linkForces = make([]frame.SpatialForce, eng.Links())
	}
	if len(linkForces) != eng.Links() {
		return nil, nil, fmt.Errorf("talus: got %d link forces for %d links", len(linkForces), eng.Links())
	}
	if jointForces == nil {
		jointForces = make([]float64, eng.Joints())
	}
	if len(jointForces) != eng.Joints() {
		return nil, nil, fmt.Errorf("talus: got %d joint forces for %d joints", len(jointForces), eng.Joints())
	}

	// The regularization and Jacobian math are only valid in the mixed
	// representation; restore the caller's choice on exit.
	previous := eng.Representation()
	eng.SetRepresentation(frame.Mixed)
	defer eng.SetRepresentation(previous)

	forces := make([]frame.SpatialForce, eng.Links())
	if eng.Points() == 0 {
		return forces, Diagnostics{"iterations": 0, "gradient_norm": 0}, nil
	}

	workers := max(1, r.Workers)
	problem, err := dynamics.Assemble(eng, r.Params, r.Terrain, linkForces, jointForces, workers)
	if err != nil {
		return nil, nil, err
	}

	n := len(problem.Points)

	// Quadratic data of the relaxed problem.
	var a mat.Dense
	a.Add(problem.G, problem.R)
	b := mat.NewVecDense(3*n, nil)
	b.SubVec(problem.AFree, problem.ARef)

	// Seed the unknown forces with a compliant point contact law, far
	// closer to the fixed point than zero.
	x0 := make([]float64, 3*n)
	for i, p := range problem.Points {
		seed := contact.SeedForce(p.Depth, -p.Velocity.Dot(p.Normal), p.Normal,
			contact.SeedStiffness, contact.SeedDamping)
		copy(x0[3*i:3*i+3], seed[:])
	}

	result := solver.Minimize(solver.NewLeastSquares(&a, b), x0, r.Options)

	// The raw solution is a pure linear force per point in the mixed
	// representation; lift to 6D and re-express in the inertial frame.
	for i, p := range problem.Points {
		linear := mgl64.Vec3{result.X[3*i], result.X[3*i+1], result.X[3*i+2]}
		worldForce := frame.ForceToInertial(frame.SpatialForce{Linear: linear}, p.Transform, frame.Mixed)
		forces[p.ParentLink] = forces[p.ParentLink].Add(worldForce)
	}

	diagnostics := Diagnostics{
		"iterations":    float64(result.Iterations),
		"gradient_norm": result.GradientNorm,
	}

	return forces, diagnostics, nil
}
