package document

import (
	"math"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Drag moves the selected item by delta (normalized units). Results are
// clamped into the image and frame sizes into the configured bounds. The
// update is all-or-nothing: d is only written once the new value is known.
// It reports whether the document changed.
func Drag(d *Document, sel Selection, delta geometry.Vector2, cfg EditConfig) bool {
	if !delta.IsFinite() {
		return false
	}
	switch sel.Kind {
	case SelectionMeasurementEndpointA, SelectionMeasurementEndpointB:
		return dragEndpoint(d, sel, delta, cfg)
	case SelectionMeasurement:
		i := measurementIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		m := d.Measurements[i]
		step := boundedDelta([]geometry.Vector2{m.PointA, m.PointB}, delta)
		m.PointA = m.PointA.Add(step)
		m.PointB = m.PointB.Add(step)
		return replaceMeasurement(d, i, m)
	case SelectionFrame:
		i := frameIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		f := d.Frames[i]
		f.TopLeft = geometry.NewVector2(
			geometry.Clamp(f.TopLeft.X+delta.X, 0, math.Max(0, 1-f.Width)),
			geometry.Clamp(f.TopLeft.Y+delta.Y, 0, math.Max(0, 1-f.Height)),
		)
		return replaceFrame(d, i, f)
	case SelectionFrameResizeHandle:
		i := frameIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		f := d.Frames[i]
		f.TopLeft.X, f.Width = resizeSpan(f.TopLeft.X, f.Width+delta.X, cfg)
		f.TopLeft.Y, f.Height = resizeSpan(f.TopLeft.Y, f.Height+delta.Y, cfg)
		return replaceFrame(d, i, f)
	case SelectionPerspectiveFrame:
		i := perspectiveFrameIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		pf := d.PerspectiveFrames[i]
		step := boundedDelta(append(pf.Corners2D.Points(), pf.Center2D), delta)
		pf.Center2D = pf.Center2D.Add(step)
		pf.Corners2D = pf.Corners2D.Translate(step)
		if pf == d.PerspectiveFrames[i] {
			return false
		}
		d.PerspectiveFrames[i] = pf
		return true
	case SelectionTextAnnotation:
		i := textIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		t := d.TextAnnotations[i]
		moved := t.Position.Add(delta).Clamp01()
		if moved == t.Position {
			return false
		}
		t.Position = moved
		d.TextAnnotations[i] = t
		return true
	default:
		return false
	}
}

func dragEndpoint(d *Document, sel Selection, delta geometry.Vector2, cfg EditConfig) bool {
	i := measurementIndex(d, sel.ID)
	if i < 0 {
		return false
	}
	m := d.Measurements[i]
	if sel.Kind == SelectionMeasurementEndpointA {
		m.PointA = m.PointA.Add(delta).Clamp01()
	} else {
		m.PointB = m.PointB.Add(delta).Clamp01()
	}
	if !m.IsFromAR {
		estimator := DistanceEstimator{FallbackMetersPerPixel: cfg.FallbackMetersPerPixel}
		m.DistanceMeters = estimator.Estimate(d, m.PointA, m.PointB)
	}
	return replaceMeasurement(d, i, m)
}

// resizeSpan clamps a size into [MinFrameSize, MaxFrameSize] and keeps
// origin+size inside [0,1], pulling the origin back when the size alone
// cannot fit.
func resizeSpan(origin, size float64, cfg EditConfig) (float64, float64) {
	size = geometry.Clamp(size, cfg.MinFrameSize, cfg.MaxFrameSize)
	if origin+size > 1 {
		size = math.Max(cfg.MinFrameSize, 1-origin)
		if origin+size > 1 {
			origin = math.Max(0, 1-size)
		}
	}
	return origin, size
}

// boundedDelta shrinks delta so that no point leaves [0,1]. Points that
// already lie outside may still move back towards the image.
func boundedDelta(points []geometry.Vector2, delta geometry.Vector2) geometry.Vector2 {
	lo, hi := geometry.Bounds2D(points)
	return geometry.NewVector2(
		geometry.Clamp(delta.X, math.Min(0, -lo.X), math.Max(0, 1-hi.X)),
		geometry.Clamp(delta.Y, math.Min(0, -lo.Y), math.Max(0, 1-hi.Y)),
	)
}

func replaceMeasurement(d *Document, i int, m Measurement) bool {
	if m == d.Measurements[i] {
		return false
	}
	d.Measurements[i] = m
	return true
}

func replaceFrame(d *Document, i int, f Frame) bool {
	old := d.Frames[i]
	if f.TopLeft == old.TopLeft && f.Width == old.Width && f.Height == old.Height {
		return false
	}
	d.Frames[i] = f
	return true
}

func measurementIndex(d *Document, id string) int {
	for i, m := range d.Measurements {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func frameIndex(d *Document, id string) int {
	for i, f := range d.Frames {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func perspectiveFrameIndex(d *Document, id string) int {
	for i, pf := range d.PerspectiveFrames {
		if pf.ID == id {
			return i
		}
	}
	return -1
}

func textIndex(d *Document, id string) int {
	for i, t := range d.TextAnnotations {
		if t.ID == id {
			return i
		}
	}
	return -1
}
