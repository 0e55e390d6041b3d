package scene

import (
	"math"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// SnapKind identifies what a point was snapped to
type SnapKind int

const (
	SnapNone SnapKind = iota
	SnapCorner
	SnapPlaneVertex
	SnapPlaneEdge
)

func (k SnapKind) String() string {
	switch k {
	case SnapCorner:
		return "corner"
	case SnapPlaneVertex:
		return "vertex"
	case SnapPlaneEdge:
		return "edge"
	default:
		return "none"
	}
}

// SnapConfig holds the snapping radii in meters
type SnapConfig struct {
	CornerRadius float64
	EdgeRadius   float64
}

// DefaultSnapConfig returns the standard snapping radii
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{
		CornerRadius: 0.10,
		EdgeRadius:   0.05,
	}
}

// SnapTarget describes the feature a point snapped to, for visual feedback
type SnapTarget struct {
	Kind     SnapKind
	CornerID string
	PlaneID  string
	Distance float64
}

// SnapResult is the adjusted point plus what it snapped to
type SnapResult struct {
	Point  geometry.Vector3
	Target SnapTarget
}

// Snapped reports whether the point was moved onto a feature
func (r SnapResult) Snapped() bool {
	return r.Target.Kind != SnapNone
}

// Snap moves point onto the nearest corner within CornerRadius, otherwise onto
// the nearest vertical plane vertex or boundary point within EdgeRadius.
// Corners always win over edges. Without a match the point is returned as is.
func Snap(point geometry.Vector3, corners []Corner, planes []Plane, cfg SnapConfig) SnapResult {
	if result, ok := snapToCorner(point, corners, cfg.CornerRadius); ok {
		return result
	}
	if result, ok := snapToEdge(point, planes, cfg.EdgeRadius); ok {
		return result
	}
	return SnapResult{Point: point}
}

func snapToCorner(point geometry.Vector3, corners []Corner, radius float64) (SnapResult, bool) {
	best := math.MaxFloat64
	var nearest *Corner
	for i := range corners {
		d := point.Distance(corners[i].Position)
		if d < best {
			best = d
			nearest = &corners[i]
		}
	}
	if nearest == nil || best > radius {
		return SnapResult{}, false
	}
	return SnapResult{
		Point: nearest.Position,
		Target: SnapTarget{
			Kind:     SnapCorner,
			CornerID: nearest.ID,
			Distance: best,
		},
	}, true
}

func snapToEdge(point geometry.Vector3, planes []Plane, radius float64) (SnapResult, bool) {
	best := math.MaxFloat64
	var result SnapResult

	for _, plane := range planes {
		if !plane.IsVertical() {
			continue
		}
		quad := plane.Corners()

		for _, vertex := range quad {
			if d := point.Distance(vertex); d < best {
				best = d
				result = SnapResult{
					Point:  vertex,
					Target: SnapTarget{Kind: SnapPlaneVertex, PlaneID: plane.ID, Distance: d},
				}
			}
		}

		for i := range quad {
			candidate := geometry.ClosestPointOnSegment3D(point, quad[i], quad[(i+1)%4])
			if d := point.Distance(candidate); d < best {
				best = d
				result = SnapResult{
					Point:  candidate,
					Target: SnapTarget{Kind: SnapPlaneEdge, PlaneID: plane.ID, Distance: d},
				}
			}
		}
	}

	if best > radius {
		return SnapResult{}, false
	}
	return result, true
}
