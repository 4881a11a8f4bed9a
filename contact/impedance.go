package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Default gains of the Hunt/Crossley seed force.
const (
	SeedStiffness = 1e6
	SeedDamping   = 2e3
)

// Impedance holds the per-point regularizer outputs, expressed in the
// constraint frame of the point.
type Impedance struct {
	// Xi is the elementwise impedance, each component in [DMin, DMax].
	Xi mgl64.Vec3
	// ARef is the reference acceleration the solver tries to achieve at the
	// contact: a critically-damped spring pulling the point back to zero
	// penetration.
	ARef mgl64.Vec3
	// K and D are the runtime stiffness and damping.
	K float64
	D float64
}

// Regularize maps the constraint-frame position and velocity of a single
// collidable point to its impedance, reference acceleration and runtime
// spring parameters. A point with a zero position vector is not in contact
// and yields the zero Impedance, regardless of velocity.
func (p Parameters) Regularize(pos, vel mgl64.Vec3) Impedance {
	if pos.Dot(pos) == 0 {
		return Impedance{}
	}

	k := 1 / sq(p.DMax*p.TimeConstant*p.DampingCoefficient)
	d := 2 / (p.DMax * p.TimeConstant)

	// Negative user-supplied overrides switch to Baumgarte-style gains.
	if p.Stiffness < 0 {
		k = -p.Stiffness / sq(p.DMax)
	}
	if p.Damping < 0 {
		d = -p.Damping / p.DMax
	}

	imp := Impedance{K: k, D: d}
	for i := 0; i < 3; i++ {
		xi := p.Impedance(pos[i])
		imp.Xi[i] = xi
		imp.ARef[i] = -(d*vel[i] + k*xi*pos[i])
	}

	return imp
}

// Impedance evaluates the scalar impedance curve at the signed penetration
// pos: two power-law branches meeting at Midpoint, rising monotonically from
// DMin at zero penetration to DMax at Width, saturated to DMax beyond it.
func (p Parameters) Impedance(pos float64) float64 {
	x := math.Abs(pos) / p.Width
	if x > 1 {
		return p.DMax
	}

	// math.Pow(0, 0) == 1 covers the Power == 0 convention.
	var y float64
	if x < p.Midpoint {
		y = math.Pow(p.Midpoint, 1-p.Power) * math.Pow(x, p.Power)
	} else {
		y = 1 - math.Pow(1-p.Midpoint, 1-p.Power)*math.Pow(1-x, p.Power)
	}

	return clamp(p.DMin+y*(p.DMax-p.DMin), p.DMin, p.DMax)
}

// SeedForce returns a non-iterative compliant contact force in the
// Hunt/Crossley style: a linear spring-damper along the surface normal, with
// no tangential term. It is far closer to the solver's fixed point than zero
// and is used to initialize the optimization.
func SeedForce(depth, closingVelocity float64, normal mgl64.Vec3, k, d float64) mgl64.Vec3 {
	if depth <= 0 {
		return mgl64.Vec3{}
	}

	mag := k*depth + d*closingVelocity
	if mag < 0 {
		mag = 0
	}

	return normal.Mul(mag)
}

func sq(v float64) float64 { return v * v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
