package document

import (
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// maxFitSteps bounds how often a perspective frame is halved to fit its plane
const maxFitSteps = 16

// PlaceFrame adds a frame at the tapped point. When the tap falls inside a
// plane's projected quad the new frame is a PerspectiveFrame following the
// plane's projected axes; otherwise it is an axis-aligned Frame of the
// default size centered on the tap. The new item is returned selected.
//
// A perspective frame is shrunk until its corners lie inside the plane's
// visible quad, so planes reaching far off-image or behind the camera do
// not produce frames covering the whole image.
func PlaceFrame(d *Document, tap geometry.Vector2, id string, cfg EditConfig) Selection {
	tap = tap.Clamp01()
	for _, plane := range d.Planes {
		if !plane.ProjectedVertices.Contains(tap) {
			continue
		}
		pf, ok := perspectiveFrameOnPlane(plane, tap, id, cfg)
		if !ok {
			continue
		}
		d.PerspectiveFrames = append(d.PerspectiveFrames, pf)
		return Selection{Kind: SelectionPerspectiveFrame, ID: id}
	}

	d.Frames = append(d.Frames, axisAlignedFrame(d, tap, id, cfg))
	return Selection{Kind: SelectionFrame, ID: id}
}

func perspectiveFrameOnPlane(plane PlaneRecord, tap geometry.Vector2, id string, cfg EditConfig) (PerspectiveFrame, bool) {
	q := plane.ProjectedVertices
	h := q[1].Sub(q[0])
	v := q[3].Sub(q[0])
	fraction := cfg.PerspectiveFrameFraction

	halfH := h.NormalizeOr(geometry.NewVector2(1, 0)).Mul(fraction * h.Length() / 2)
	halfV := v.NormalizeOr(geometry.NewVector2(0, 1)).Mul(fraction * v.Length() / 2)

	corners := frameCorners(tap, halfH, halfV)
	for step := 0; !quadInside(corners, q); step++ {
		if step == maxFitSteps {
			return PerspectiveFrame{}, false
		}
		fraction /= 2
		halfH = halfH.Mul(0.5)
		halfV = halfV.Mul(0.5)
		corners = frameCorners(tap, halfH, halfV)
	}

	return PerspectiveFrame{
		ID:           id,
		PlaneID:      plane.ID,
		Center2D:     tap,
		Corners2D:    corners,
		WidthMeters:  fraction * plane.WidthMeters,
		HeightMeters: fraction * plane.HeightMeters,
		Color:        cfg.FrameColor,
	}, true
}

// frameCorners builds the clamped TL, TR, BR, BL corners around center
func frameCorners(center, halfH, halfV geometry.Vector2) Quad {
	return Quad{
		center.Sub(halfH).Sub(halfV).Clamp01(),
		center.Add(halfH).Sub(halfV).Clamp01(),
		center.Add(halfH).Add(halfV).Clamp01(),
		center.Sub(halfH).Add(halfV).Clamp01(),
	}
}

func quadInside(inner, outer Quad) bool {
	for _, p := range inner {
		if !outer.Contains(p) {
			return false
		}
	}
	return true
}

func axisAlignedFrame(d *Document, tap geometry.Vector2, id string, cfg EditConfig) Frame {
	size := geometry.Clamp(cfg.DefaultFrameSize, cfg.MinFrameSize, cfg.MaxFrameSize)
	f := Frame{
		ID: id,
		TopLeft: geometry.NewVector2(
			geometry.Clamp(tap.X-size/2, 0, 1-size),
			geometry.Clamp(tap.Y-size/2, 0, 1-size),
		),
		Width:  size,
		Height: size,
		Color:  cfg.FrameColor,
	}

	// Real-world size is only recorded when the capture gives a scale
	estimator := DistanceEstimator{FallbackMetersPerPixel: cfg.FallbackMetersPerPixel}
	if mpp, source := estimator.Scale(d); source != ScaleFallback {
		w, h := d.ImageSize()
		widthMeters := size * w * mpp
		heightMeters := size * h * mpp
		f.WidthMeters = &widthMeters
		f.HeightMeters = &heightMeters
	}
	return f
}
