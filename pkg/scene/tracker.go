package scene

import (
	"github.com/google/uuid"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Measurement is a two-point distance taken during the live scan
type Measurement struct {
	ID             string
	A              geometry.Vector3
	B              geometry.Vector3
	DistanceMeters float64
}

// Frame is a picture frame placed on a surface during the live scan
type Frame struct {
	ID            string
	PlaneID       string
	Center        geometry.Vector3
	Normal        geometry.Vector3
	WidthMeters   float64
	HeightMeters  float64
	Color         string
	Label         string
	ImageFilename string
	AtCorner      bool
}

// Tracker is the on-device scan state: it keeps the plane registry in sync
// with session events, recomputes corners after every change and records
// the user's measurements and frames with snapping applied.
type Tracker struct {
	NewID func() string

	registry     *PlaneRegistry
	detector     DetectorConfig
	snap         SnapConfig
	corners      []Corner
	measurements []Measurement
	frames       []Frame
}

// NewTracker creates a tracker with an empty plane registry
func NewTracker(detector DetectorConfig, snap SnapConfig) *Tracker {
	return &Tracker{
		NewID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
		registry:     NewPlaneRegistry(),
		detector:     detector,
		snap:         snap,
		corners:      make([]Corner, 0),
		measurements: make([]Measurement, 0),
		frames:       make([]Frame, 0),
	}
}

// HandleEvent applies a plane event and re-runs corner detection when the
// plane set changed. It reports whether anything changed.
func (t *Tracker) HandleEvent(event PlaneEvent) bool {
	if !t.registry.Apply(event) {
		return false
	}
	t.corners = DetectCorners(t.registry.Planes(), t.detector)
	return true
}

// Planes returns the known planes in insertion order
func (t *Tracker) Planes() []Plane {
	return t.registry.Planes()
}

// Corners returns the corners from the latest detection pass
func (t *Tracker) Corners() []Corner {
	out := make([]Corner, len(t.corners))
	copy(out, t.corners)
	return out
}

// Measurements returns the recorded measurements
func (t *Tracker) Measurements() []Measurement {
	out := make([]Measurement, len(t.measurements))
	copy(out, t.measurements)
	return out
}

// Frames returns the recorded frames
func (t *Tracker) Frames() []Frame {
	out := make([]Frame, len(t.frames))
	copy(out, t.frames)
	return out
}

// Snap snaps a free point against the current corners and walls
func (t *Tracker) Snap(point geometry.Vector3) SnapResult {
	return Snap(point, t.corners, t.registry.VerticalPlanes(), t.snap)
}

// AddMeasurement snaps both endpoints and records the measurement
func (t *Tracker) AddMeasurement(a, b geometry.Vector3) Measurement {
	sa := t.Snap(a).Point
	sb := t.Snap(b).Point
	m := Measurement{
		ID:             t.NewID(),
		A:              sa,
		B:              sb,
		DistanceMeters: sa.Distance(sb),
	}
	t.measurements = append(t.measurements, m)
	return m
}

// PlaceFrame records a frame centered on a raycast hit. The frame takes
// the normal of the hit plane; a hit snapped to a corner marks the frame
// as a corner frame.
func (t *Tracker) PlaceFrame(hit RaycastHit, widthMeters, heightMeters float64, color, label string) Frame {
	snapped := t.Snap(hit.Point)

	normal := geometry.NewVector3(0, 0, 1)
	if plane, ok := t.registry.Get(hit.PlaneID); ok {
		normal = plane.Normal()
	}

	f := Frame{
		ID:           t.NewID(),
		PlaneID:      hit.PlaneID,
		Center:       snapped.Point,
		Normal:       normal,
		WidthMeters:  widthMeters,
		HeightMeters: heightMeters,
		Color:        color,
		Label:        label,
		AtCorner:     snapped.Target.Kind == SnapCorner,
	}
	t.frames = append(t.frames, f)
	return f
}

// Reset clears planes, corners and recorded gestures
func (t *Tracker) Reset() {
	t.registry = NewPlaneRegistry()
	t.corners = make([]Corner, 0)
	t.measurements = make([]Measurement, 0)
	t.frames = make([]Frame, 0)
}
