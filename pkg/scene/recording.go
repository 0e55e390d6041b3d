package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// MeasureGesture is a recorded two-tap measurement in view coordinates
type MeasureGesture struct {
	From geometry.Vector2 `json:"from"`
	To   geometry.Vector2 `json:"to"`
}

// FrameGesture is a recorded frame placement in view coordinates
type FrameGesture struct {
	At           geometry.Vector2 `json:"at"`
	WidthMeters  float64          `json:"widthMeters"`
	HeightMeters float64          `json:"heightMeters"`
	Color        string           `json:"color"`
	Label        string           `json:"label,omitempty"`
}

// Recording is a captured scan session stored as JSON. It stands in for the
// live sensor session when capturing offline or replaying a scan.
type Recording struct {
	Camera       *CameraFrame     `json:"camera,omitempty"`
	LiDAR        bool             `json:"lidar"`
	Planes       []Plane          `json:"planes"`
	Measurements []MeasureGesture `json:"measurements,omitempty"`
	Frames       []FrameGesture   `json:"frames,omitempty"`
}

// LoadRecording reads a recording file
func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse recording %s: %w", path, err)
	}
	return &rec, nil
}

// CurrentFrame implements Session
func (r *Recording) CurrentFrame() (CameraFrame, bool) {
	if r.Camera == nil {
		return CameraFrame{}, false
	}
	return *r.Camera, true
}

// LiDARAvailable implements Session
func (r *Recording) LiDARAvailable() bool {
	return r.LiDAR
}

// Raycast implements Session by intersecting the camera ray with the
// recorded planes
func (r *Recording) Raycast(viewPoint geometry.Vector2) (RaycastHit, bool) {
	frame, ok := r.CurrentFrame()
	if !ok {
		return RaycastHit{}, false
	}
	origin, dir, ok := frame.Ray(viewPoint)
	if !ok {
		return RaycastHit{}, false
	}
	return RaycastPlanes(origin, dir, r.Planes)
}

// Events returns one add event per recorded plane
func (r *Recording) Events() []PlaneEvent {
	return DiffPlanes(nil, r.Planes)
}

// ReplayStats counts what a replay applied
type ReplayStats struct {
	Planes       int
	Measurements int
	Frames       int
	Missed       int
}

// Replay feeds the recording into a tracker: plane events first, then the
// recorded gestures resolved through Raycast. Gestures whose raycast misses
// every plane are counted in Missed and skipped.
func (r *Recording) Replay(t *Tracker) ReplayStats {
	var stats ReplayStats
	for _, event := range r.Events() {
		if t.HandleEvent(event) {
			stats.Planes++
		}
	}

	for _, gesture := range r.Measurements {
		from, okFrom := r.Raycast(gesture.From)
		to, okTo := r.Raycast(gesture.To)
		if !okFrom || !okTo {
			stats.Missed++
			continue
		}
		t.AddMeasurement(from.Point, to.Point)
		stats.Measurements++
	}

	for _, gesture := range r.Frames {
		hit, ok := r.Raycast(gesture.At)
		if !ok {
			stats.Missed++
			continue
		}
		t.PlaceFrame(hit, gesture.WidthMeters, gesture.HeightMeters, gesture.Color, gesture.Label)
		stats.Frames++
	}
	return stats
}

// DiffPlanes returns the events that turn prev into next: removals first,
// then adds and updates in next's order.
func DiffPlanes(prev, next []Plane) []PlaneEvent {
	events := make([]PlaneEvent, 0)

	nextByID := make(map[string]Plane, len(next))
	for _, p := range next {
		nextByID[p.ID] = p
	}
	prevByID := make(map[string]Plane, len(prev))
	for _, p := range prev {
		prevByID[p.ID] = p
		if _, ok := nextByID[p.ID]; !ok {
			events = append(events, PlaneEvent{Kind: PlaneRemoved, Plane: p})
		}
	}

	for _, p := range next {
		old, existed := prevByID[p.ID]
		switch {
		case !existed:
			events = append(events, PlaneEvent{Kind: PlaneAdded, Plane: p})
		case old != p:
			events = append(events, PlaneEvent{Kind: PlaneUpdated, Plane: p})
		}
	}
	return events
}
