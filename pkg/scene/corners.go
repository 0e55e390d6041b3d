package scene

import (
	"math"

	"github.com/google/uuid"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Corner is the inferred intersection of two near-perpendicular walls
type Corner struct {
	ID           string
	Position     geometry.Vector3
	AngleDegrees float64
	PlaneIDA     string
	PlaneIDB     string
}

// DetectorConfig bounds which plane pairs may form a corner
type DetectorConfig struct {
	MinAngleDegrees   float64
	MaxAngleDegrees   float64
	MaxCenterDistance float64 // meters; keeps distant walls with a matching angle apart
}

// DefaultDetectorConfig returns the standard corner acceptance window
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinAngleDegrees:   60,
		MaxAngleDegrees:   120,
		MaxCenterDistance: 0.8,
	}
}

// DetectCorners infers wall corners from every unordered pair of vertical
// planes. The result replaces any previous corner list; callers re-run it
// after each plane add, update or remove. Iteration follows input order.
//
// The position is the midpoint of the closest pair among the two planes'
// 4x4 corner points. This is biased when the walls are not axis-aligned
// with each other; kept as is pending review.
func DetectCorners(planes []Plane, cfg DetectorConfig) []Corner {
	vertical := FilterVertical(planes)
	corners := make([]Corner, 0)

	for i := 0; i < len(vertical); i++ {
		for j := i + 1; j < len(vertical); j++ {
			a, b := vertical[i], vertical[j]
			if a.ID == b.ID {
				continue
			}

			angle := AngleBetweenNormals(a.Normal(), b.Normal())
			if angle < cfg.MinAngleDegrees || angle > cfg.MaxAngleDegrees {
				continue
			}
			if a.Center().Distance(b.Center()) >= cfg.MaxCenterDistance {
				continue
			}

			corners = append(corners, Corner{
				ID:           CornerID(a.ID, b.ID),
				Position:     closestCornerMidpoint(a, b),
				AngleDegrees: angle,
				PlaneIDA:     a.ID,
				PlaneIDB:     b.ID,
			})
		}
	}

	return corners
}

// AngleBetweenNormals returns the angle in degrees between two directions
func AngleBetweenNormals(n1, n2 geometry.Vector3) float64 {
	dot := geometry.Clamp(n1.Normalize().Dot(n2.Normalize()), -1, 1)
	return math.Acos(dot) * 180 / math.Pi
}

// CornerID derives a stable id from the plane pair so re-detection keeps ids
func CornerID(planeA, planeB string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(planeA+"/"+planeB)).String()
}

func closestCornerMidpoint(a, b Plane) geometry.Vector3 {
	cornersA := a.Corners()
	cornersB := b.Corners()

	best := math.MaxFloat64
	var midpoint geometry.Vector3
	for _, ca := range cornersA {
		for _, cb := range cornersB {
			d := ca.Distance(cb)
			if d < best {
				best = d
				midpoint = ca.Midpoint(cb)
			}
		}
	}
	return midpoint
}
