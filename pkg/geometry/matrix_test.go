package geometry

import (
	"math"
	"testing"
)

func vectorsClose(a, b Vector3) bool {
	return a.Distance(b) < 1e-9
}

func TestMatrix4MulPoint(t *testing.T) {
	m := Translation4(1, 2, 3)
	result := m.MulPoint(NewVector3(1, 1, 1))

	expected := NewVector3(2, 3, 4)
	if !vectorsClose(result, expected) {
		t.Errorf("MulPoint failed: expected %v, got %v", expected, result)
	}

	dir := m.MulDirection(NewVector3(1, 1, 1))
	if !vectorsClose(dir, NewVector3(1, 1, 1)) {
		t.Errorf("MulDirection should ignore translation, got %v", dir)
	}
}

func TestMatrix4RotationY(t *testing.T) {
	m := RotationY4(math.Pi / 2)
	result := m.MulPoint(NewVector3(1, 0, 0))

	expected := NewVector3(0, 0, -1)
	if !vectorsClose(result, expected) {
		t.Errorf("RotationY4 failed: expected %v, got %v", expected, result)
	}
}

func TestMatrix4RigidInverse(t *testing.T) {
	m := Translation4(1, -2, 5).Mul(RotationY4(0.7)).Mul(RotationX4(-0.3))
	p := NewVector3(0.4, 1.5, -2)

	roundTrip := m.RigidInverse().MulPoint(m.MulPoint(p))
	if !vectorsClose(roundTrip, p) {
		t.Errorf("RigidInverse failed: expected %v, got %v", p, roundTrip)
	}

	identity := m.Mul(m.RigidInverse())
	for i := range identity {
		if math.Abs(identity[i]-Identity4()[i]) > 1e-9 {
			t.Fatalf("m * inverse(m) is not identity: %v", identity)
		}
	}
}

func TestMatrix3MulVector(t *testing.T) {
	k := Intrinsics(500, 400, 320, 240)
	result := k.MulVector(NewVector3(1, 2, 1))

	expected := NewVector3(820, 1040, 1)
	if !vectorsClose(result, expected) {
		t.Errorf("MulVector failed: expected %v, got %v", expected, result)
	}
	if k.At(0, 2) != 320 || k.At(1, 1) != 400 {
		t.Errorf("At failed: cx=%v fy=%v", k.At(0, 2), k.At(1, 1))
	}
}
