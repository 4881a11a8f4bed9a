package contact

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestImpedanceCurveEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		power float64
	}{
		{name: "linear ramps", power: 1.0},
		{name: "quadratic branches", power: 2.0},
		{name: "zero power", power: 0.0},
		{name: "fractional power", power: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			p.Power = tt.power

			// At zero power the branches degenerate to constants; only the
			// endpoints of genuine ramps are pinned.
			if tt.power > 0 {
				if got := p.Impedance(0); math.Abs(got-p.DMin) > 1e-12 {
					t.Errorf("Impedance(0) = %v, want d_min %v", got, p.DMin)
				}
				if got := p.Impedance(p.Width); math.Abs(got-p.DMax) > 1e-12 {
					t.Errorf("Impedance(width) = %v, want d_max %v", got, p.DMax)
				}
			}
			if got := p.Impedance(2 * p.Width); got != p.DMax {
				t.Errorf("Impedance(2*width) = %v, want saturated d_max %v", got, p.DMax)
			}
		})
	}
}

func TestImpedanceCurveMonotone(t *testing.T) {
	for _, power := range []float64{0.5, 1.0, 2.0, 3.0} {
		p := DefaultParameters()
		p.Power = power

		previous := p.Impedance(0)
		for i := 1; i <= 1000; i++ {
			pos := p.Width * float64(i) / 1000
			xi := p.Impedance(pos)
			if xi < previous-1e-12 {
				t.Fatalf("power %v: curve decreased at |pos|=%v: %v -> %v", power, pos, previous, xi)
			}
			if xi < p.DMin || xi > p.DMax {
				t.Fatalf("power %v: impedance %v outside [%v, %v]", power, xi, p.DMin, p.DMax)
			}
			previous = xi
		}
	}
}

func TestImpedanceSignIndependent(t *testing.T) {
	p := DefaultParameters()
	if got, want := p.Impedance(-p.Width/3), p.Impedance(p.Width/3); got != want {
		t.Errorf("Impedance must depend on |pos|: %v != %v", got, want)
	}
}

func TestRegularizeInactivePointIsZero(t *testing.T) {
	p := DefaultParameters()

	// Any velocity: a point with zero constraint position is not in contact.
	imp := p.Regularize(mgl64.Vec3{}, mgl64.Vec3{1.5, -2, 40})

	if imp != (Impedance{}) {
		t.Errorf("inactive point must yield the zero Impedance, got %+v", imp)
	}
}

func TestRegularizeDerivedGains(t *testing.T) {
	p := DefaultParameters()
	pos := mgl64.Vec3{0, 0, -p.Width}

	imp := p.Regularize(pos, mgl64.Vec3{})

	wantK := 1 / math.Pow(p.DMax*p.TimeConstant*p.DampingCoefficient, 2)
	wantD := 2 / (p.DMax * p.TimeConstant)
	if math.Abs(imp.K-wantK) > 1e-9*wantK {
		t.Errorf("K = %v, want %v", imp.K, wantK)
	}
	if math.Abs(imp.D-wantD) > 1e-9*wantD {
		t.Errorf("D = %v, want %v", imp.D, wantD)
	}

	// Saturated penetration: xi = d_max, a_ref = -K*xi*pos along z.
	wantARef := -wantK * p.DMax * pos.Z()
	if math.Abs(imp.ARef.Z()-wantARef) > 1e-9*math.Abs(wantARef) {
		t.Errorf("a_ref z = %v, want %v", imp.ARef.Z(), wantARef)
	}
	if imp.ARef.X() != 0 || imp.ARef.Y() != 0 {
		t.Errorf("a_ref tangential components must be zero, got %v", imp.ARef)
	}
}

func TestRegularizeDampingActsOnVelocity(t *testing.T) {
	p := DefaultParameters()
	pos := mgl64.Vec3{0, 0, -p.Width / 2}
	vel := mgl64.Vec3{0, 0, -1}

	still := p.Regularize(pos, mgl64.Vec3{})
	moving := p.Regularize(pos, vel)

	want := still.ARef.Z() - still.D*vel.Z()
	if math.Abs(moving.ARef.Z()-want) > 1e-9*math.Abs(want) {
		t.Errorf("a_ref z with velocity = %v, want %v", moving.ARef.Z(), want)
	}
}

func TestRegularizeBaumgarteSentinel(t *testing.T) {
	p := DefaultParameters()
	p.Stiffness = -1e4
	p.Damping = -2e2

	imp := p.Regularize(mgl64.Vec3{0, 0, -p.Width}, mgl64.Vec3{})

	wantK := 1e4 / (p.DMax * p.DMax)
	wantD := 2e2 / p.DMax
	if math.Abs(imp.K-wantK) > 1e-9*wantK {
		t.Errorf("sentinel K = %v, want %v", imp.K, wantK)
	}
	if math.Abs(imp.D-wantD) > 1e-9*wantD {
		t.Errorf("sentinel D = %v, want %v", imp.D, wantD)
	}
}

func TestSeedForce(t *testing.T) {
	normal := mgl64.Vec3{0, 0, 1}

	tests := []struct {
		name            string
		depth           float64
		closingVelocity float64
		want            mgl64.Vec3
	}{
		{
			name:  "no penetration yields zero regardless of velocity",
			depth: 0, closingVelocity: 10,
			want: mgl64.Vec3{},
		},
		{
			name:  "separated point yields zero",
			depth: -0.1, closingVelocity: 5,
			want: mgl64.Vec3{},
		},
		{
			name:  "static penetration",
			depth: 1e-3, closingVelocity: 0,
			want: mgl64.Vec3{0, 0, SeedStiffness * 1e-3},
		},
		{
			name:  "approaching point adds damping",
			depth: 1e-3, closingVelocity: 0.1,
			want: mgl64.Vec3{0, 0, SeedStiffness*1e-3 + SeedDamping*0.1},
		},
		{
			name:  "fast separation clamps to zero, never attracts",
			depth: 1e-3, closingVelocity: -10,
			want: mgl64.Vec3{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeedForce(tt.depth, tt.closingVelocity, normal, SeedStiffness, SeedDamping)
			if !got.ApproxEqualThreshold(tt.want, 1e-12) {
				t.Errorf("SeedForce() = %v, want %v", got, tt.want)
			}
		})
	}
}
