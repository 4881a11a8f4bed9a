package terrain

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFlatPenetration(t *testing.T) {
	flat := NewFlat(0)

	tests := []struct {
		name      string
		position  mgl64.Vec3
		wantDepth float64
	}{
		{
			name:      "point below the surface penetrates",
			position:  mgl64.Vec3{0.5, -2, -0.01},
			wantDepth: 0.01,
		},
		{
			name:      "point on the surface does not",
			position:  mgl64.Vec3{0, 0, 0},
			wantDepth: 0,
		},
		{
			name:      "point above the surface does not",
			position:  mgl64.Vec3{0, 0, 1.5},
			wantDepth: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			velocity := mgl64.Vec3{1, 2, 3}
			depth, rel, normal := Penetration(tt.position, velocity, flat)

			if math.Abs(depth-tt.wantDepth) > 1e-12 {
				t.Errorf("depth = %v, want %v", depth, tt.wantDepth)
			}
			if rel != velocity {
				t.Errorf("relative velocity = %v, want %v", rel, velocity)
			}
			if normal != (mgl64.Vec3{0, 0, 1}) {
				t.Errorf("normal = %v, want +z", normal)
			}
		})
	}
}

func TestFlatElevation(t *testing.T) {
	raised := NewFlat(2)
	depth, _, _ := Penetration(mgl64.Vec3{0, 0, 1.9}, mgl64.Vec3{}, raised)
	if math.Abs(depth-0.1) > 1e-12 {
		t.Errorf("depth = %v, want 0.1", depth)
	}
}

func TestHeightFieldBilinear(t *testing.T) {
	// A plane z = x embedded in the grid: interpolation must be exact.
	hf := NewHeightField([][]float64{
		{0, 1, 2},
		{0, 1, 2},
		{0, 1, 2},
	}, 0, 0, 1)

	for _, x := range []float64{0, 0.25, 0.5, 1.5, 2} {
		if got := hf.Height(x, 1); math.Abs(got-x) > 1e-12 {
			t.Errorf("Height(%v, 1) = %v, want %v", x, got, x)
		}
	}

	// Outside the grid the border clamps.
	if got := hf.Height(10, 10); math.Abs(got-2) > 1e-12 {
		t.Errorf("clamped height = %v, want 2", got)
	}
}

func TestHeightFieldNormal(t *testing.T) {
	// Slope dz/dx = 1 gives the normal (-1, 0, 1)/sqrt(2).
	hf := NewHeightField([][]float64{
		{0, 1, 2},
		{0, 1, 2},
		{0, 1, 2},
	}, 0, 0, 1)

	got := hf.Normal(1, 1)
	want := mgl64.Vec3{-1, 0, 1}.Normalize()
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Normal = %v, want %v", got, want)
	}

	if math.Abs(got.Len()-1) > 1e-12 {
		t.Errorf("normal must be unit length, got %v", got.Len())
	}
}
