package main

import (
	"fmt"

	"github.com/talus-dyn/talus"
	"github.com/talus-dyn/talus/contact"
	"github.com/talus-dyn/talus/dynamics"
	"github.com/talus-dyn/talus/solver"
	"github.com/talus-dyn/talus/terrain"
)

// Drops a 1 kg sphere from half a meter onto flat ground and integrates the
// resolved contact forces with semi-implicit Euler. The outer loop owns the
// integration; the resolver only produces forces.
func main() {
	params := contact.DefaultParameters()
	params.Width = 1e-3

	resolver, err := talus.NewResolver(params, terrain.NewFlat(0), solver.DefaultOptions())
	if err != nil {
		panic(err)
	}

	body := dynamics.NewPointMass(1.0, 0.05)
	body.Position[2] = 0.5

	const dt = 1e-3
	for step := 0; step < 2000; step++ {
		forces, diagnostics, err := resolver.ComputeContactForces(body, nil, nil)
		if err != nil {
			panic(err)
		}

		// Semi-implicit Euler on the linear state.
		acceleration := body.Gravity.Add(forces[0].Linear.Mul(1 / body.Mass))
		body.Velocity = body.Velocity.Add(acceleration.Mul(dt))
		body.Position = body.Position.Add(body.Velocity.Mul(dt))

		if step%200 == 0 {
			fmt.Printf("t=%.3fs  z=%+.5f m  vz=%+.4f m/s  fz=%8.3f N  iters=%.0f\n",
				float64(step)*dt, body.Position.Z(), body.Velocity.Z(),
				forces[0].Linear.Z(), diagnostics["iterations"])
		}
	}

	fmt.Printf("settled at z=%.6f m (impedance width %.0e m)\n", body.Position.Z(), params.Width)
}
