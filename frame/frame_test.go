package frame

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestForceToInertialMixed(t *testing.T) {
	// A pure linear force applied at a point away from the origin picks up
	// the moment arm p × f; the linear part is unchanged because the mixed
	// frame is world-aligned.
	transform := mgl64.Translate3D(1, 2, 3)
	f := SpatialForce{Linear: mgl64.Vec3{0, 0, 10}}

	got := ForceToInertial(f, transform, Mixed)

	if !got.Linear.ApproxEqualThreshold(f.Linear, 1e-12) {
		t.Errorf("linear part changed: %v", got.Linear)
	}
	wantMoment := mgl64.Vec3{1, 2, 3}.Cross(f.Linear)
	if !got.Angular.ApproxEqualThreshold(wantMoment, 1e-12) {
		t.Errorf("moment = %v, want %v", got.Angular, wantMoment)
	}
}

func TestForceToInertialInertialIsIdentity(t *testing.T) {
	f := SpatialForce{Linear: mgl64.Vec3{1, 2, 3}, Angular: mgl64.Vec3{4, 5, 6}}
	if got := ForceToInertial(f, mgl64.Translate3D(7, 8, 9), Inertial); got != f {
		t.Errorf("inertial conversion must be the identity, got %+v", got)
	}
}

func TestForceToInertialBody(t *testing.T) {
	// Body frame rotated 90 degrees about z at position (1, 0, 0): a body
	// x-force points along world y and has moment arm z.
	transform := mgl64.Translate3D(1, 0, 0).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))
	f := SpatialForce{Linear: mgl64.Vec3{1, 0, 0}}

	got := ForceToInertial(f, transform, Body)

	wantLinear := mgl64.Vec3{0, 1, 0}
	if !got.Linear.ApproxEqualThreshold(wantLinear, 1e-12) {
		t.Errorf("linear = %v, want %v", got.Linear, wantLinear)
	}
	wantMoment := mgl64.Vec3{1, 0, 0}.Cross(wantLinear)
	if !got.Angular.ApproxEqualThreshold(wantMoment, 1e-12) {
		t.Errorf("moment = %v, want %v", got.Angular, wantMoment)
	}
}

func TestSpatialForceAdd(t *testing.T) {
	a := SpatialForce{Linear: mgl64.Vec3{1, 0, 0}, Angular: mgl64.Vec3{0, 1, 0}}
	b := SpatialForce{Linear: mgl64.Vec3{0, 2, 0}, Angular: mgl64.Vec3{0, 0, 3}}

	got := a.Add(b)

	want := SpatialForce{Linear: mgl64.Vec3{1, 2, 0}, Angular: mgl64.Vec3{0, 1, 3}}
	if got != want {
		t.Errorf("Add() = %+v, want %+v", got, want)
	}

	if !(SpatialForce{}).IsZero() {
		t.Error("zero value must report IsZero")
	}
	if got.IsZero() {
		t.Error("nonzero force must not report IsZero")
	}
}
