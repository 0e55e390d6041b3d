package scene

import "github.com/philipparndt/roomsnap/pkg/geometry"

// CameraFrame is the camera state the session exposes on demand
type CameraFrame struct {
	Intrinsics  geometry.Matrix3 `json:"intrinsics"`
	Transform   geometry.Matrix4 `json:"transform"`
	ImageWidth  int              `json:"imageWidth"`
	ImageHeight int              `json:"imageHeight"`
}

// RaycastHit is a world point found under a view-space location
type RaycastHit struct {
	Point   geometry.Vector3
	PlaneID string
}

// Session is the sensor collaborator. Plane events are pushed into a
// Tracker by whoever owns the session; the core only pulls camera state
// and raycasts.
type Session interface {
	// CurrentFrame returns the latest camera frame, false when no view is active
	CurrentFrame() (CameraFrame, bool)
	// Raycast maps a normalized view point to the first surface behind it
	Raycast(viewPoint geometry.Vector2) (RaycastHit, bool)
	// LiDARAvailable reports whether depth hardware backs the session
	LiDARAvailable() bool
}

// Ray returns the world-space ray through a normalized view point.
// It fails when the intrinsics have no focal length or the image is empty.
func (f CameraFrame) Ray(viewPoint geometry.Vector2) (geometry.Vector3, geometry.Vector3, bool) {
	fx, fy := f.Intrinsics.At(0, 0), f.Intrinsics.At(1, 1)
	if fx == 0 || fy == 0 || f.ImageWidth <= 0 || f.ImageHeight <= 0 {
		return geometry.Vector3{}, geometry.Vector3{}, false
	}
	cx, cy := f.Intrinsics.At(0, 2), f.Intrinsics.At(1, 2)

	u := viewPoint.X * float64(f.ImageWidth)
	v := viewPoint.Y * float64(f.ImageHeight)
	camDir := geometry.NewVector3((u-cx)/fx, -(v-cy)/fy, -1)

	dir := f.Transform.MulDirection(camDir).Normalize()
	if dir == (geometry.Vector3{}) {
		return geometry.Vector3{}, geometry.Vector3{}, false
	}
	return f.Transform.Position(), dir, true
}

// RaycastPlanes intersects a ray with plane rectangles; the nearest hit wins
func RaycastPlanes(origin, dir geometry.Vector3, planes []Plane) (RaycastHit, bool) {
	const surfaceTolerance = 0.01

	bestT := -1.0
	var hit RaycastHit
	for _, plane := range planes {
		n := plane.Normal()
		denom := dir.Dot(n)
		if denom > -geometry.Epsilon && denom < geometry.Epsilon {
			continue
		}
		t := plane.Center().Sub(origin).Dot(n) / denom
		if t <= 0 {
			continue
		}
		point := origin.Add(dir.Mul(t))
		if !plane.Contains(point, surfaceTolerance) {
			continue
		}
		if bestT < 0 || t < bestT {
			bestT = t
			hit = RaycastHit{Point: point, PlaneID: plane.ID}
		}
	}
	return hit, bestT >= 0
}
