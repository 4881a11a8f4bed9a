// Package contact implements the relaxed-rigid contact model: validated
// model parameters, the impedance regularizer mapping penetration and
// closing velocity to a contact stiffness, damping and reference
// acceleration, and the compliant seed force used to warm-start the solver.
package contact

// Parameters configure the relaxed-rigid contact model. The zero value is
// not usable; start from DefaultParameters and override fields as needed.
type Parameters struct {
	// TimeConstant is the rise time of the contact spring (s).
	TimeConstant float64
	// DampingCoefficient is the adimensional damping ratio of the contact
	// spring. 1.0 yields critical damping.
	DampingCoefficient float64
	// DMin and DMax bound the impedance, both in [0, 1].
	DMin float64
	DMax float64
	// Width is the penetration depth (m) at which the impedance saturates
	// to DMax. Must be strictly positive.
	Width float64
	// Midpoint is the normalized penetration at which the two power-law
	// branches of the impedance curve meet.
	Midpoint float64
	// Power is the exponent of the impedance curve branches.
	Power float64
	// Stiffness and Damping are normally derived at runtime from
	// TimeConstant and DampingCoefficient. A negative value is a sentinel:
	// its magnitude is used directly, giving a classical Baumgarte-style
	// stabilization instead of the impedance-derived one.
	Stiffness float64
	Damping   float64
	// Mu is the friction coefficient coupling the regularization strength
	// to the impedance.
	Mu float64
}

// DefaultParameters returns the fully-specified default configuration.
func DefaultParameters() Parameters {
	return Parameters{
		TimeConstant:       0.01,
		DampingCoefficient: 1.0,
		DMin:               0.9,
		DMax:               0.95,
		Width:              1e-4,
		Midpoint:           0.1,
		Power:              1.0,
		Stiffness:          0.0,
		Damping:            0.0,
		Mu:                 0.5,
	}
}

// Valid reports whether every parameter is within its documented bounds.
// Callers must reject invalid parameters before simulation starts; the hot
// path never re-validates.
func (p Parameters) Valid() bool {
	return p.TimeConstant >= 0 &&
		p.DampingCoefficient > 0 &&
		p.DMin >= 0 && p.DMax <= 1 && p.DMin <= p.DMax &&
		p.Width > 0 &&
		p.Midpoint >= 0 &&
		p.Power >= 0 &&
		p.Mu >= 0
}
