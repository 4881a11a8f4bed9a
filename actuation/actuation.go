// Package actuation computes the resultant torques acting on the joints of
// a mechanism: the commanded references corrected by joint friction,
// position-limit springs and a torque/speed curve. Unlike the contact
// resolver, everything here is elementwise and non-iterative.
package actuation

import (
	"fmt"
	"math"
)

// JointParameters hold the per-joint actuation data. All slices share the
// same length, one entry per joint degree of freedom.
type JointParameters struct {
	PositionLimitMin []float64
	PositionLimitMax []float64
	// LimitSpring and LimitDamper are the stiffness and damping of the
	// position-limit enforcement.
	LimitSpring []float64
	LimitDamper []float64
	// FrictionStatic and FrictionViscous are the Coulomb and viscous joint
	// friction coefficients.
	FrictionStatic  []float64
	FrictionViscous []float64
}

// TorqueSpeedCurve is a piecewise-linear torque limit: full torque up to
// ThresholdSpeed, linear falloff to zero at MaxSpeed.
type TorqueSpeedCurve struct {
	MaxTorque      float64
	ThresholdSpeed float64
	MaxSpeed       float64
}

// DefaultTorqueSpeedCurve returns the default actuator curve.
func DefaultTorqueSpeedCurve() TorqueSpeedCurve {
	return TorqueSpeedCurve{
		MaxTorque:      3000,
		ThresholdSpeed: 30,
		MaxSpeed:       100,
	}
}

// Limit returns the torque magnitude available at the given joint velocity.
func (c TorqueSpeedCurve) Limit(velocity float64) float64 {
	speed := math.Abs(velocity)
	switch {
	case speed <= c.ThresholdSpeed:
		return c.MaxTorque
	case speed <= c.MaxSpeed:
		return c.MaxTorque * (1 - (speed-c.ThresholdSpeed)/(c.MaxSpeed-c.ThresholdSpeed))
	default:
		return 0
	}
}

// ResultantTorques combines the commanded joint force references with the
// friction and position-limit torques and clips the result by the
// torque/speed curve. references may be nil, meaning zero commands.
func ResultantTorques(params JointParameters, curve TorqueSpeedCurve, positions, velocities, references []float64) ([]float64, error) {
	dofs := len(positions)
	if len(velocities) != dofs {
		return nil, fmt.Errorf("actuation: got %d velocities for %d joints", len(velocities), dofs)
	}
	if references == nil {
		references = make([]float64, dofs)
	}
	if len(references) != dofs {
		return nil, fmt.Errorf("actuation: got %d references for %d joints", len(references), dofs)
	}

	torques := make([]float64, dofs)
	for i := 0; i < dofs; i++ {
		q, qd := positions[i], velocities[i]

		// Position-limit spring, damped while the limit is violated.
		lower := math.Min(0, q-params.PositionLimitMin[i])
		upper := math.Max(0, q-params.PositionLimitMax[i])
		limit := -params.LimitSpring[i] * (lower + upper)
		if lower != 0 || upper != 0 {
			limit -= params.LimitDamper[i] * qd
		}

		// Static plus viscous joint friction.
		friction := -(params.FrictionStatic[i]*sign(qd) + params.FrictionViscous[i]*qd)

		total := references[i] + friction + limit

		// Clip by the available actuator torque at this speed.
		bound := curve.Limit(qd)
		torques[i] = math.Max(-bound, math.Min(bound, total))
	}

	return torques, nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
