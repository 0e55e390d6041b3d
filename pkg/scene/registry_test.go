package scene

import (
	"testing"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

func TestPlaneRegistryLifecycle(t *testing.T) {
	a, b := cornerWalls()
	r := NewPlaneRegistry()

	r.Apply(PlaneEvent{Kind: PlaneAdded, Plane: a})
	r.Apply(PlaneEvent{Kind: PlaneAdded, Plane: b})
	if r.Len() != 2 {
		t.Fatalf("expected 2 planes, got %d", r.Len())
	}

	grown := a
	grown.ExtentX = 3
	if !r.Apply(PlaneEvent{Kind: PlaneUpdated, Plane: grown}) {
		t.Error("update should report a change")
	}
	planes := r.Planes()
	if planes[0].ID != "wall-a" || planes[0].ExtentX != 3 {
		t.Errorf("update should keep insertion order and replace data, got %+v", planes[0])
	}

	if !r.Apply(PlaneEvent{Kind: PlaneRemoved, Plane: Plane{ID: "wall-a"}}) {
		t.Error("remove should report a change")
	}
	if _, ok := r.Get("wall-a"); ok {
		t.Error("removed plane should be gone")
	}
	if r.Apply(PlaneEvent{Kind: PlaneRemoved, Plane: Plane{ID: "missing"}}) {
		t.Error("removing an unknown plane should be a no-op")
	}
	if r.Len() != 1 || r.Planes()[0].ID != "wall-b" {
		t.Errorf("expected only wall-b left, got %+v", r.Planes())
	}
}

func TestTrackerRecomputesCorners(t *testing.T) {
	a, b := cornerWalls()
	tracker := NewTracker(DefaultDetectorConfig(), DefaultSnapConfig())

	tracker.HandleEvent(PlaneEvent{Kind: PlaneAdded, Plane: a})
	if len(tracker.Corners()) != 0 {
		t.Fatalf("a single wall can not form a corner")
	}

	tracker.HandleEvent(PlaneEvent{Kind: PlaneAdded, Plane: b})
	if len(tracker.Corners()) != 1 {
		t.Fatalf("expected 1 corner after second wall, got %d", len(tracker.Corners()))
	}

	tracker.HandleEvent(PlaneEvent{Kind: PlaneRemoved, Plane: Plane{ID: b.ID}})
	if len(tracker.Corners()) != 0 {
		t.Errorf("corner should disappear with its wall, got %d", len(tracker.Corners()))
	}
}

func TestTrackerMeasurementSnaps(t *testing.T) {
	a, b := cornerWalls()
	tracker := NewTracker(DefaultDetectorConfig(), DefaultSnapConfig())
	tracker.HandleEvent(PlaneEvent{Kind: PlaneAdded, Plane: a})
	tracker.HandleEvent(PlaneEvent{Kind: PlaneAdded, Plane: b})

	m := tracker.AddMeasurement(geometry.NewVector3(0.01, 1.98, -0.5), geometry.NewVector3(0.01, 0.02, -0.5))
	if m.A.Distance(geometry.NewVector3(0, 2, -0.5)) > 1e-9 {
		t.Errorf("first endpoint should snap to the corner, got %v", m.A)
	}
	if m.DistanceMeters < 1.9 || m.DistanceMeters > 2.1 {
		t.Errorf("DistanceMeters failed: expected ~2, got %v", m.DistanceMeters)
	}
	if len(tracker.Measurements()) != 1 {
		t.Errorf("expected 1 recorded measurement, got %d", len(tracker.Measurements()))
	}
}

func TestTrackerFrameAtCorner(t *testing.T) {
	a, b := cornerWalls()
	tracker := NewTracker(DefaultDetectorConfig(), DefaultSnapConfig())
	tracker.HandleEvent(PlaneEvent{Kind: PlaneAdded, Plane: a})
	tracker.HandleEvent(PlaneEvent{Kind: PlaneAdded, Plane: b})

	f := tracker.PlaceFrame(RaycastHit{Point: geometry.NewVector3(0.01, 1.99, -0.5), PlaneID: "wall-b"}, 0.5, 0.4, "#ff0000", "")
	if !f.AtCorner {
		t.Error("frame placed next to a corner should be a corner frame")
	}
	if f.Normal.Distance(geometry.NewVector3(0, 0, 1)) > 1e-9 {
		t.Errorf("frame should take the wall normal, got %v", f.Normal)
	}
}
