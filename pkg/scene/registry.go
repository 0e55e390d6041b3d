package scene

// EventKind distinguishes plane lifecycle events from the sensor session
type EventKind int

const (
	PlaneAdded EventKind = iota
	PlaneUpdated
	PlaneRemoved
)

func (k EventKind) String() string {
	switch k {
	case PlaneAdded:
		return "added"
	case PlaneUpdated:
		return "updated"
	case PlaneRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// PlaneEvent is a single plane change reported by the session.
// Removal events only need Plane.ID.
type PlaneEvent struct {
	Kind  EventKind
	Plane Plane
}

// PlaneRegistry is the keyed store of currently known planes.
// Iteration order is the order in which planes were first added.
type PlaneRegistry struct {
	planes map[string]Plane
	order  []string
}

// NewPlaneRegistry creates an empty registry
func NewPlaneRegistry() *PlaneRegistry {
	return &PlaneRegistry{
		planes: make(map[string]Plane),
		order:  make([]string, 0),
	}
}

// Apply updates the registry from a session event and reports whether
// the plane set changed. Updates for unknown planes are treated as adds,
// removals of unknown planes are ignored.
func (r *PlaneRegistry) Apply(event PlaneEvent) bool {
	id := event.Plane.ID
	if id == "" {
		return false
	}

	switch event.Kind {
	case PlaneAdded, PlaneUpdated:
		if _, exists := r.planes[id]; !exists {
			r.order = append(r.order, id)
		}
		r.planes[id] = event.Plane
		return true
	case PlaneRemoved:
		if _, exists := r.planes[id]; !exists {
			return false
		}
		delete(r.planes, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		return true
	}
	return false
}

// Get returns the plane with the given id
func (r *PlaneRegistry) Get(id string) (Plane, bool) {
	p, ok := r.planes[id]
	return p, ok
}

// Len returns the number of known planes
func (r *PlaneRegistry) Len() int {
	return len(r.order)
}

// Planes returns a copy of all planes in insertion order
func (r *PlaneRegistry) Planes() []Plane {
	out := make([]Plane, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.planes[id])
	}
	return out
}

// VerticalPlanes returns the wall-like planes in insertion order
func (r *PlaneRegistry) VerticalPlanes() []Plane {
	return FilterVertical(r.Planes())
}

// FilterVertical keeps only vertical planes, preserving order
func FilterVertical(planes []Plane) []Plane {
	out := make([]Plane, 0, len(planes))
	for _, p := range planes {
		if p.IsVertical() {
			out = append(out, p)
		}
	}
	return out
}
