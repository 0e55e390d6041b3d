package capture

import (
	"fmt"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
	"github.com/philipparndt/roomsnap/pkg/scene"
)

// minDepth keeps the perspective divide finite for points at or behind the camera
const minDepth = 0.01

// Camera is a pinhole camera: intrinsics, world transform and image size
type Camera struct {
	Intrinsics geometry.Matrix3
	Transform  geometry.Matrix4
	Width      float64
	Height     float64

	view geometry.Matrix4
}

// NewCamera creates a camera from a session frame
func NewCamera(frame scene.CameraFrame) *Camera {
	return &Camera{
		Intrinsics: frame.Intrinsics,
		Transform:  frame.Transform,
		Width:      float64(frame.ImageWidth),
		Height:     float64(frame.ImageHeight),
		view:       frame.Transform.RigidInverse(),
	}
}

// Validate reports a camera that cannot project anything
func (c *Camera) Validate() error {
	fx, fy := c.Intrinsics.At(0, 0), c.Intrinsics.At(1, 1)
	if fx == 0 || fy == 0 {
		return fmt.Errorf("%w: zero focal length (fx=%v, fy=%v)", document.ErrDegenerateGeometry, fx, fy)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: empty image %vx%v", document.ErrDegenerateGeometry, c.Width, c.Height)
	}
	if !c.Transform.Position().IsFinite() {
		return fmt.Errorf("%w: camera position is not finite", document.ErrDegenerateGeometry)
	}
	return nil
}

// Project projects a world point to normalized image coordinates. The
// result is always finite; visible is false when the point lies behind the
// camera or the camera is degenerate.
func (c *Camera) Project(point geometry.Vector3) (geometry.Vector2, bool) {
	fx, fy := c.Intrinsics.At(0, 0), c.Intrinsics.At(1, 1)
	if fx == 0 || fy == 0 || c.Width <= 0 || c.Height <= 0 || !point.IsFinite() {
		return geometry.Vector2{}, false
	}

	// Camera space looks down -z with +y up; image v grows downwards
	local := c.view.MulPoint(point)
	depth := -local.Z
	visible := true
	if depth <= minDepth {
		depth = minDepth
		visible = false
	}

	pixel := c.Intrinsics.MulVector(geometry.NewVector3(local.X/depth, -local.Y/depth, 1))
	projected := geometry.NewVector2(pixel.X/c.Width, pixel.Y/c.Height)
	if !projected.IsFinite() {
		return geometry.Vector2{}, false
	}
	return projected, visible
}

// ProjectQuad projects a planar quad. A vertex behind the camera is first
// moved to where its edge towards a visible neighbor crosses the near
// plane, so the quad keeps the visible part of the surface. visible is
// false when the whole quad lies behind the camera.
func (c *Camera) ProjectQuad(corners [4]geometry.Vector3) (document.Quad, bool) {
	var depth [4]float64
	front := 0
	for i, p := range corners {
		depth[i] = -c.view.MulPoint(p).Z
		if depth[i] > minDepth {
			front++
		}
	}

	clipped := corners
	if front > 0 {
		for i := range corners {
			if depth[i] > minDepth {
				continue
			}
			n := (i + 1) % 4
			if prev := (i + 3) % 4; depth[prev] > depth[n] {
				n = prev
			}
			if depth[n] <= minDepth {
				// Only the opposite vertex is visible; the diagonal lies in the plane too
				n = (i + 2) % 4
			}
			t := (depth[n] - minDepth) / (depth[n] - depth[i])
			clipped[i] = corners[n].Add(corners[i].Sub(corners[n]).Mul(t))
		}
	}

	var quad document.Quad
	for i, p := range clipped {
		quad[i], _ = c.Project(p)
	}
	return quad, front > 0
}

// ProjectClamped projects a point and clamps it into the image
func (c *Camera) ProjectClamped(point geometry.Vector3) geometry.Vector2 {
	p, _ := c.Project(point)
	return p.Clamp01()
}

// Info returns the camera block stored in a document
func (c *Camera) Info() *document.CameraInfo {
	return &document.CameraInfo{
		Intrinsics:  c.Intrinsics,
		Transform:   c.Transform,
		ImageWidth:  int(c.Width),
		ImageHeight: int(c.Height),
	}
}
