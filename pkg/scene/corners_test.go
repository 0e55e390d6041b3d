package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Two walls meeting at x=0, z=-0.5 with centers ~0.71m apart
func cornerWalls() (Plane, Plane) {
	a := NewVerticalPlane("wall-a", geometry.NewVector3(0, 1, 0), geometry.NewVector3(1, 0, 0), 1, 2)
	b := NewVerticalPlane("wall-b", geometry.NewVector3(0.5, 1, -0.5), geometry.NewVector3(0, 0, 1), 1, 2)
	return a, b
}

func TestDetectCornersPerpendicularWalls(t *testing.T) {
	a := NewVerticalPlane("a", geometry.NewVector3(0, 1, 0), geometry.NewVector3(1, 0, 0), 2, 2)
	b := NewVerticalPlane("b", geometry.NewVector3(0.3, 1, -0.4), geometry.NewVector3(0, 0, 1), 2, 2)

	corners := DetectCorners([]Plane{a, b}, DefaultDetectorConfig())
	if len(corners) != 1 {
		t.Fatalf("expected 1 corner, got %d", len(corners))
	}

	if math.Abs(corners[0].AngleDegrees-90) > 1e-9 {
		t.Errorf("Angle failed: expected 90, got %v", corners[0].AngleDegrees)
	}
	if corners[0].PlaneIDA != "a" || corners[0].PlaneIDB != "b" {
		t.Errorf("Plane ids failed: got %s, %s", corners[0].PlaneIDA, corners[0].PlaneIDB)
	}
}

func TestDetectCornersPosition(t *testing.T) {
	a, b := cornerWalls()

	corners := DetectCorners([]Plane{a, b}, DefaultDetectorConfig())
	if len(corners) != 1 {
		t.Fatalf("expected 1 corner, got %d", len(corners))
	}

	expected := geometry.NewVector3(0, 2, -0.5)
	if corners[0].Position.Distance(expected) > 1e-9 {
		t.Errorf("Position failed: expected %v, got %v", expected, corners[0].Position)
	}
}

func TestDetectCornersRejectsDistantWalls(t *testing.T) {
	a := NewVerticalPlane("a", geometry.NewVector3(0, 1, 0), geometry.NewVector3(1, 0, 0), 2, 2)
	b := NewVerticalPlane("b", geometry.NewVector3(3, 1, -2), geometry.NewVector3(0, 0, 1), 2, 2)

	if corners := DetectCorners([]Plane{a, b}, DefaultDetectorConfig()); len(corners) != 0 {
		t.Errorf("distant walls should not form a corner, got %d", len(corners))
	}

	cfg := DefaultDetectorConfig()
	cfg.MaxCenterDistance = 5
	if corners := DetectCorners([]Plane{a, b}, cfg); len(corners) != 1 {
		t.Errorf("raising the distance limit should accept the pair, got %d", len(corners))
	}
}

func TestDetectCornersRejectsParallelWalls(t *testing.T) {
	a := NewVerticalPlane("a", geometry.NewVector3(0, 1, 0), geometry.NewVector3(0, 0, 1), 2, 2)
	b := NewVerticalPlane("b", geometry.NewVector3(0.2, 1, 0.3), geometry.NewVector3(0, 0, -1), 2, 2)

	if corners := DetectCorners([]Plane{a, b}, DefaultDetectorConfig()); len(corners) != 0 {
		t.Errorf("opposite walls should not form a corner, got %d", len(corners))
	}
}

func TestDetectCornersIgnoresHorizontalPlanes(t *testing.T) {
	a, _ := cornerWalls()
	floor := Plane{
		ID:             "floor",
		Alignment:      AlignmentHorizontal,
		Classification: ClassificationFloor,
		Transform:      geometry.Identity4(),
		ExtentX:        3,
		ExtentZ:        3,
	}
	floor.Transform[13] = 0.5

	if corners := DetectCorners([]Plane{a, floor}, DefaultDetectorConfig()); len(corners) != 0 {
		t.Errorf("floor should never take part in a corner, got %d", len(corners))
	}
}

func TestDetectCornersInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cfg := DefaultDetectorConfig()
	cfg.MaxCenterDistance = 3

	planes := make([]Plane, 0, 12)
	for i := 0; i < 12; i++ {
		angle := rng.Float64() * 2 * math.Pi
		normal := geometry.NewVector3(math.Cos(angle), 0, math.Sin(angle))
		center := geometry.NewVector3(rng.Float64()*2, 1, rng.Float64()*2)
		id := string(rune('a' + i))
		planes = append(planes, NewVerticalPlane(id, center, normal, 1+rng.Float64(), 2))
	}
	// duplicate id must never pair with itself
	planes = append(planes, planes[0])

	for _, c := range DetectCorners(planes, cfg) {
		if c.AngleDegrees < 60 || c.AngleDegrees > 120 {
			t.Errorf("corner %s has angle %v outside [60,120]", c.ID, c.AngleDegrees)
		}
		if c.PlaneIDA == c.PlaneIDB {
			t.Errorf("corner %s pairs plane %s with itself", c.ID, c.PlaneIDA)
		}
	}
}

func TestCornerIDStable(t *testing.T) {
	if CornerID("a", "b") != CornerID("a", "b") {
		t.Error("CornerID should be deterministic")
	}
	if CornerID("a", "b") == CornerID("b", "a") {
		t.Error("CornerID should depend on pair order")
	}
}
