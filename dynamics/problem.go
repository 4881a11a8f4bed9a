package dynamics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/talus-dyn/talus/contact"
	"github.com/talus-dyn/talus/frame"
	"github.com/talus-dyn/talus/terrain"
)

// epsImpedance guards the regularization denominator as the impedance
// approaches 1.
const epsImpedance = 1e-12

// Point is one collidable point of the current step.
type Point struct {
	ParentLink int
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	// Depth is the penetration along the surface normal, zero when the
	// point is not in contact.
	Depth  float64
	Normal mgl64.Vec3
	Active bool
	// Transform is the world transform of the implicit contact frame.
	Transform mgl64.Mat4
}

// Problem is the step-local quadratic-program data over the enabled
// collidable points. It is built fresh every step from the current state
// and discarded after the step's forces are produced; it must never be
// cached across steps.
type Problem struct {
	// G is the 3n×3n Delassus operator J·M⁺·Jᵀ, symmetric PSD.
	G *mat.Dense
	// R is the regularization diagonal coupling friction to impedance.
	R *mat.DiagDense
	// AFree is the free (no contact force) linear acceleration of the
	// points; ARef the reference acceleration of the regularizer.
	AFree *mat.VecDense
	ARef  *mat.VecDense
	// K and D are the per-point runtime stiffness and damping.
	K []float64
	D []float64

	Points []Point
}

// Assemble builds the contact problem for the engine's current state. The
// caller is responsible for having switched the engine to the mixed
// representation. Inactive points contribute exactly zero rows to every
// term. workers bounds the fan-out of the per-point computations, which are
// independent of each other.
func Assemble(eng Engine, params contact.Parameters, terr terrain.Terrain, linkForces []frame.SpatialForce, jointForces []float64, workers int) (*Problem, error) {
	n := eng.Points()
	nv := 6 + eng.Joints()
	if n == 0 {
		return &Problem{Points: nil}, nil
	}

	positions, velocities := eng.CollidablePointKinematics()
	if len(positions) != n || len(velocities) != n {
		return nil, fmt.Errorf("dynamics: engine returned %d positions and %d velocities for %d points",
			len(positions), len(velocities), n)
	}
	transforms := eng.ContactTransforms()
	jacobians := eng.ContactJacobians()
	jacobianDots := eng.ContactJacobianDerivatives()
	indices := eng.EnabledPointIndices()

	parents := make([]int, n)
	for i := 0; i < n; i++ {
		parents[i] = eng.ParentLink(indices[i])
	}

	// Penetration data, independently per point.
	points := make([]Point, n)
	parallelFor(workers, n, func(i int) {
		depth, vel, normal := terrain.Penetration(positions[i], velocities[i], terr)
		points[i] = Point{
			ParentLink: parents[i],
			Position:   positions[i],
			Velocity:   vel,
			Depth:      depth,
			Normal:     normal,
			Active:     depth > 0,
			Transform:  transforms[i],
		}
	})

	// Stack the Jacobians, masking the rows of points not in contact.
	J := mat.NewDense(3*n, nv, nil)
	Jdot := mat.NewDense(3*n, nv, nil)
	row := make([]float64, nv)
	for i, p := range points {
		if !p.Active {
			continue
		}
		for k := 0; k < 3; k++ {
			mat.Row(row, k, jacobians[i])
			J.SetRow(3*i+k, row)
			mat.Row(row, k, jacobianDots[i])
			Jdot.SetRow(3*i+k, row)
		}
	}

	// Delassus operator. The mass matrix is pseudo-inverted so singular
	// configurations degrade in precision instead of failing.
	massInv, err := pseudoInverse(eng.MassMatrix())
	if err != nil {
		return nil, err
	}
	var jm, g mat.Dense
	jm.Mul(J, massInv)
	g.Mul(&jm, J.T())

	// Free linear acceleration of the points.
	nuDotFree := eng.FreeAcceleration(linkForces, jointForces)
	nu := eng.GeneralizedVelocity()
	aFree := mat.NewVecDense(3*n, nil)
	var drift mat.VecDense
	aFree.MulVec(J, nuDotFree)
	drift.MulVec(Jdot, nu)
	aFree.AddVec(aFree, &drift)

	// Inverse rotational-inertia blocks of the parent links, once per link.
	inertiaInv := make(map[int]mgl64.Mat3, eng.Links())
	for _, link := range parents {
		if _, ok := inertiaInv[link]; ok {
			continue
		}
		inertiaInv[link] = rotationalBlock(eng.LinkSpatialInertia(link)).Inv()
	}

	// Regularization diagonal and reference acceleration, independently
	// per point.
	rDiag := make([]float64, 3*n)
	aRef := mat.NewVecDense(3*n, nil)
	stiffness := make([]float64, n)
	damping := make([]float64, n)
	mu := params.Mu
	parallelFor(workers, n, func(i int) {
		p := points[i]
		if !p.Active {
			return
		}

		imp := params.Regularize(p.Normal.Mul(-p.Depth), p.Velocity)
		stiffness[i] = imp.K
		damping[i] = imp.D

		inv := inertiaInv[p.ParentLink]
		for k := 0; k < 3; k++ {
			aRef.SetVec(3*i+k, imp.ARef[k])

			// Row vector times the inverse inertia block: stiff contacts
			// (high impedance) get weak regularization and vice versa.
			var r float64
			for j := 0; j < 3; j++ {
				w := 2 * mu * mu * (1 - imp.Xi[j]) / (imp.Xi[j] + epsImpedance) * (1 + mu*mu)
				r += w * inv.At(j, k)
			}
			rDiag[3*i+k] = r
		}
	})

	return &Problem{
		G:      &g,
		R:      mat.NewDiagDense(3*n, rDiag),
		AFree:  aFree,
		ARef:   aRef,
		K:      stiffness,
		D:      damping,
		Points: points,
	}, nil
}

// rotationalBlock extracts the top-left 3×3 of a spatial inertia.
func rotationalBlock(m *mat.SymDense) mgl64.Mat3 {
	var b mgl64.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			b.Set(r, c, m.At(r, c))
		}
	}
	return b
}

// pseudoInverse computes the Moore-Penrose inverse through a thin SVD,
// dropping singular values below a scale-relative threshold.
func pseudoInverse(a *mat.Dense) (*mat.Dense, error) {
	r, c := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("dynamics: SVD of %dx%d mass matrix failed to converge", r, c)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	tol := 1e-15 * float64(max(r, c)) * values[0]
	for i, s := range values {
		if s > tol {
			values[i] = 1 / s
		} else {
			values[i] = 0
		}
	}

	var vs, pinv mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(values), values))
	pinv.Mul(&vs, u.T())

	return &pinv, nil
}
