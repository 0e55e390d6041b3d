// Package capture freezes the live scan into an annotation document by
// projecting the 3D scene through the capture camera.
package capture

import (
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
	"github.com/philipparndt/roomsnap/pkg/scene"
)

// Scene is everything the live scan knows at the moment of capture
type Scene struct {
	CapturedAt   time.Time
	Camera       scene.CameraFrame
	Planes       []scene.Plane
	Corners      []scene.Corner
	Measurements []scene.Measurement
	Frames       []scene.Frame
	LiDAR        bool
}

// Projector builds documents from captured scenes
type Projector struct {
	NewID func() string
}

// NewProjector creates a projector issuing v7 UUIDs
func NewProjector() *Projector {
	return &Projector{
		NewID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
}

// Project converts a scene into a document. Plane quads are clipped at the
// near plane and corners keep their raw projection (possibly off-image);
// editable entities are clamped
// into the image. A degenerate camera yields an all-zero projection rather
// than an error; call Camera.Validate first to reject it.
func (p *Projector) Project(s Scene) document.Document {
	cam := NewCamera(s.Camera)
	d := document.New(s.CapturedAt)
	d.Camera = cam.Info()

	for _, plane := range s.Planes {
		record := planeRecord(cam, plane)
		d.Planes = append(d.Planes, record)
		if plane.IsVertical() {
			d.WallDimensions = append(d.WallDimensions, document.WallDimension{
				ID:               p.NewID(),
				PlaneID:          plane.ID,
				WidthMeters:      record.WidthMeters,
				HeightMeters:     record.HeightMeters,
				AreaSquareMeters: record.WidthMeters * record.HeightMeters,
				Vertices2D:       append(document.PointList(nil), record.ProjectedVertices.Points()...),
			})
		}
	}

	for _, c := range s.Corners {
		pos, _ := cam.Project(c.Position)
		d.Corners = append(d.Corners, document.CornerRecord{
			ID:           c.ID,
			Position3D:   c.Position.Array(),
			Position2D:   pos,
			AngleDegrees: c.AngleDegrees,
			PlaneIDA:     c.PlaneIDA,
			PlaneIDB:     c.PlaneIDB,
		})
	}

	for _, m := range s.Measurements {
		d.Measurements = append(d.Measurements, document.Measurement{
			ID:             m.ID,
			DistanceMeters: m.DistanceMeters,
			PointA:         cam.ProjectClamped(m.A),
			PointB:         cam.ProjectClamped(m.B),
			IsFromAR:       true,
		})
	}

	for _, f := range s.Frames {
		quad := frameQuad(cam, f)
		if f.AtCorner {
			// A frame folded over a corner is not planar; keep its bounding box
			d.Frames = append(d.Frames, cornerFrame(f, quad))
			continue
		}
		d.PerspectiveFrames = append(d.PerspectiveFrames, document.PerspectiveFrame{
			ID:            f.ID,
			PlaneID:       f.PlaneID,
			Center2D:      cam.ProjectClamped(f.Center),
			Corners2D:     quad,
			WidthMeters:   f.WidthMeters,
			HeightMeters:  f.HeightMeters,
			ImageFilename: f.ImageFilename,
			Label:         f.Label,
			Color:         f.Color,
		})
	}

	meta := &document.LidarMetadata{
		IsLiDARAvailable: s.LiDAR,
		PlaneCount:       len(s.Planes),
		PlaneDimensions:  make([]document.PlaneDimension, 0, len(s.Planes)),
	}
	for _, plane := range s.Planes {
		meta.PlaneDimensions = append(meta.PlaneDimensions, document.PlaneDimension{
			Width:  plane.Width(),
			Height: plane.Height(),
		})
	}
	d.LidarMetadata = meta
	return d
}

func planeRecord(cam *Camera, plane scene.Plane) document.PlaneRecord {
	quad, _ := cam.ProjectQuad(plane.Corners())
	return document.PlaneRecord{
		ID:                plane.ID,
		Alignment:         string(plane.Alignment),
		Classification:    string(plane.Classification),
		Transform:         plane.Transform,
		ExtentX:           plane.ExtentX,
		ExtentZ:           plane.ExtentZ,
		Center3D:          plane.Center().Array(),
		Normal:            plane.Normal().Array(),
		ProjectedVertices: quad,
		WidthMeters:       plane.Width(),
		HeightMeters:      plane.Height(),
	}
}

// FrameBasis returns the right and up axes of a frame lying on a surface
// with the given normal. A normal parallel to world up (a frame on the
// floor or ceiling) uses -z as its up axis instead.
func FrameBasis(normal geometry.Vector3) (geometry.Vector3, geometry.Vector3) {
	n := normal.NormalizeOr(geometry.NewVector3(0, 0, 1))
	up := geometry.NewVector3(0, 1, 0)
	right := up.Cross(n)
	if right.Length() < 1e-6 {
		up = geometry.NewVector3(0, 0, -1)
		right = up.Cross(n)
	}
	right = right.Normalize()
	return right, n.Cross(right).Normalize()
}

// frameQuad projects the frame rectangle spanned by its own basis, so the
// quad carries the wall's perspective instead of being axis-aligned
func frameQuad(cam *Camera, f scene.Frame) document.Quad {
	right, up := FrameBasis(f.Normal)
	hw := right.Mul(f.WidthMeters / 2)
	hh := up.Mul(f.HeightMeters / 2)
	corners := [4]geometry.Vector3{
		f.Center.Sub(hw).Add(hh),
		f.Center.Add(hw).Add(hh),
		f.Center.Add(hw).Sub(hh),
		f.Center.Sub(hw).Sub(hh),
	}
	var quad document.Quad
	for i, c := range corners {
		quad[i] = cam.ProjectClamped(c)
	}
	return quad
}

func cornerFrame(f scene.Frame, quad document.Quad) document.Frame {
	lo, hi := geometry.Bounds2D(quad.Points())
	w, h := f.WidthMeters, f.HeightMeters
	return document.Frame{
		ID:            f.ID,
		TopLeft:       lo,
		Width:         hi.X - lo.X,
		Height:        hi.Y - lo.Y,
		Label:         f.Label,
		Color:         f.Color,
		WidthMeters:   &w,
		HeightMeters:  &h,
		ImageFilename: f.ImageFilename,
		IsCornerFrame: true,
	}
}
