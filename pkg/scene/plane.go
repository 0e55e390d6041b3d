// Package scene holds the live-scan model: planes reported by the sensor
// session, the corners inferred from them, and point snapping.
package scene

import "github.com/philipparndt/roomsnap/pkg/geometry"

// Alignment is the orientation class reported for a plane
type Alignment string

const (
	AlignmentHorizontal Alignment = "horizontal"
	AlignmentVertical   Alignment = "vertical"
)

// Classification is the semantic label reported for a plane
type Classification string

const (
	ClassificationWall    Classification = "wall"
	ClassificationFloor   Classification = "floor"
	ClassificationCeiling Classification = "ceiling"
	ClassificationDoor    Classification = "door"
	ClassificationWindow  Classification = "window"
	ClassificationUnknown Classification = "unknown"
)

// Plane is a flat surface patch in world space. Its local frame has x along
// the width, z along the height and y as the surface normal.
type Plane struct {
	ID             string           `json:"id"`
	Alignment      Alignment        `json:"alignment"`
	Classification Classification   `json:"classification"`
	Transform      geometry.Matrix4 `json:"transform"`
	ExtentX        float64          `json:"extentX"`
	ExtentZ        float64          `json:"extentZ"`
}

// IsVertical reports whether the plane is wall-like
func (p Plane) IsVertical() bool {
	return p.Alignment == AlignmentVertical
}

// Width returns the extent along local x in meters, never negative
func (p Plane) Width() float64 {
	if p.ExtentX < 0 {
		return 0
	}
	return p.ExtentX
}

// Height returns the extent along local z in meters, never negative
func (p Plane) Height() float64 {
	if p.ExtentZ < 0 {
		return 0
	}
	return p.ExtentZ
}

// Center returns the world position of the plane center
func (p Plane) Center() geometry.Vector3 {
	return p.Transform.Position()
}

// Normal returns the unit surface normal (local y axis). A degenerate
// transform falls back to +Z so downstream angle math stays finite.
func (p Plane) Normal() geometry.Vector3 {
	return p.Transform.Column(1).NormalizeOr(geometry.NewVector3(0, 0, 1))
}

// Corners returns the four world-space corners ordered TL, TR, BR, BL
func (p Plane) Corners() [4]geometry.Vector3 {
	hx, hz := p.Width()/2, p.Height()/2
	local := [4]geometry.Vector3{
		{X: -hx, Y: 0, Z: -hz},
		{X: hx, Y: 0, Z: -hz},
		{X: hx, Y: 0, Z: hz},
		{X: -hx, Y: 0, Z: hz},
	}
	var out [4]geometry.Vector3
	for i, l := range local {
		out[i] = p.Transform.MulPoint(l)
	}
	return out
}

// Contains reports whether a world point lies on the plane rectangle,
// within tolerance meters off the surface.
func (p Plane) Contains(point geometry.Vector3, tolerance float64) bool {
	local := p.Transform.RigidInverse().MulPoint(point)
	if local.Y > tolerance || local.Y < -tolerance {
		return false
	}
	return local.X >= -p.Width()/2-tolerance && local.X <= p.Width()/2+tolerance &&
		local.Z >= -p.Height()/2-tolerance && local.Z <= p.Height()/2+tolerance
}

// NewVerticalPlane builds a wall plane centered at center whose normal
// points along normal, with x horizontal and z pointing down.
func NewVerticalPlane(id string, center, normal geometry.Vector3, width, height float64) Plane {
	n := geometry.NewVector3(normal.X, 0, normal.Z).NormalizeOr(geometry.NewVector3(0, 0, 1))
	down := geometry.NewVector3(0, -1, 0)
	x := n.Cross(down).Normalize()
	return Plane{
		ID:             id,
		Alignment:      AlignmentVertical,
		Classification: ClassificationWall,
		Transform:      geometry.FromBasis(x, n, down, center),
		ExtentX:        width,
		ExtentZ:        height,
	}
}
