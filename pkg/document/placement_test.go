package document

import (
	"math"
	"testing"
	"time"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

func wallDocument() Document {
	d := New(time.Now())
	d.Planes = append(d.Planes, PlaneRecord{
		ID:                "wall",
		Alignment:         "vertical",
		ProjectedVertices: Quad{{X: 0.2, Y: 0.2}, {X: 0.8, Y: 0.2}, {X: 0.8, Y: 0.8}, {X: 0.2, Y: 0.8}},
		WidthMeters:       4,
		HeightMeters:      2.4,
	})
	return d
}

func TestPlaceFrameOnPlane(t *testing.T) {
	d := wallDocument()
	cfg := DefaultEditConfig()

	sel := PlaceFrame(&d, geometry.NewVector2(0.5, 0.5), "pf", cfg)
	if sel != (Selection{Kind: SelectionPerspectiveFrame, ID: "pf"}) {
		t.Fatalf("PlaceFrame failed: expected perspective frame, got %v", sel)
	}
	if len(d.Frames) != 0 || len(d.PerspectiveFrames) != 1 {
		t.Fatalf("PlaceFrame failed: expected 1 perspective frame, got %d frames and %d perspective frames",
			len(d.Frames), len(d.PerspectiveFrames))
	}

	pf := d.PerspectiveFrames[0]
	for i, c := range pf.Corners2D {
		if !d.Planes[0].ProjectedVertices.Contains(c) {
			t.Errorf("PlaceFrame failed: corner %d %v outside the plane quad", i, c)
		}
	}
	if math.Abs(pf.Corners2D[0].X-0.425) > 1e-9 || math.Abs(pf.Corners2D[2].Y-0.575) > 1e-9 {
		t.Errorf("PlaceFrame failed: unexpected corners %v", pf.Corners2D)
	}
	if pf.PlaneID != "wall" || math.Abs(pf.WidthMeters-1) > 1e-9 || math.Abs(pf.HeightMeters-0.6) > 1e-9 {
		t.Errorf("PlaceFrame failed: unexpected frame %+v", pf)
	}
}

func TestPlaceFrameFollowsSkewedPlane(t *testing.T) {
	d := New(time.Now())
	d.Planes = append(d.Planes, PlaneRecord{
		ID:                "skewed",
		ProjectedVertices: Quad{{X: 0.2, Y: 0.2}, {X: 0.8, Y: 0.4}, {X: 0.8, Y: 0.9}, {X: 0.2, Y: 0.7}},
	})
	PlaceFrame(&d, geometry.NewVector2(0.5, 0.55), "pf", DefaultEditConfig())
	pf := d.PerspectiveFrames[0]

	// Top edge parallel to the plane's top edge
	top := pf.Corners2D[1].Sub(pf.Corners2D[0])
	if math.Abs(top.Y/top.X-0.2/0.6) > 1e-9 {
		t.Errorf("PlaceFrame failed: expected top edge slope 1/3, got %v", top.Y/top.X)
	}
}

func TestPlaceFrameFallback(t *testing.T) {
	d := wallDocument()
	cfg := DefaultEditConfig()

	sel := PlaceFrame(&d, geometry.NewVector2(0.05, 0.9), "f", cfg)
	if sel != (Selection{Kind: SelectionFrame, ID: "f"}) {
		t.Fatalf("PlaceFrame failed: expected frame, got %v", sel)
	}
	f := d.Frames[0]
	if f.TopLeft.X != 0 || math.Abs(f.TopLeft.Y-0.8) > 1e-9 {
		t.Errorf("PlaceFrame failed: expected clamped topLeft (0, 0.8), got %v", f.TopLeft)
	}
	if f.Width != cfg.DefaultFrameSize || f.Height != cfg.DefaultFrameSize {
		t.Errorf("PlaceFrame failed: expected default size, got %vx%v", f.Width, f.Height)
	}
	if f.WidthMeters != nil {
		t.Errorf("PlaceFrame failed: expected no meters without a scale, got %v", *f.WidthMeters)
	}
}

func TestPlaceFrameFallbackWithScale(t *testing.T) {
	d := scaledDocument()
	PlaceFrame(&d, geometry.NewVector2(0.5, 0.5), "f", DefaultEditConfig())
	f := d.Frames[0]
	if f.WidthMeters == nil || math.Abs(*f.WidthMeters-1.0) > 1e-9 {
		t.Errorf("PlaceFrame failed: expected width 1 m, got %v", f.WidthMeters)
	}
	if f.HeightMeters == nil || math.Abs(*f.HeightMeters-1.5) > 1e-9 {
		t.Errorf("PlaceFrame failed: expected height 1.5 m, got %v", f.HeightMeters)
	}
}

func TestPlaceFrameOnPartiallyVisiblePlane(t *testing.T) {
	// Side wall whose far edge is clipped at the camera's near plane
	d := New(time.Now())
	d.Planes = append(d.Planes, PlaneRecord{
		ID:                "side",
		ProjectedVertices: Quad{{X: -99.5, Y: -119.5}, {X: 0.167, Y: 0.1}, {X: 0.167, Y: 0.9}, {X: -99.5, Y: 120.5}},
		WidthMeters:       4,
		HeightMeters:      2,
	})
	d.Measurements = append(d.Measurements, Measurement{
		ID:     "m",
		PointA: geometry.NewVector2(0.3, 0.5),
		PointB: geometry.NewVector2(0.9, 0.5),
	})
	cfg := DefaultEditConfig()

	sel := PlaceFrame(&d, geometry.NewVector2(0.1, 0.5), "pf", cfg)
	if sel.Kind != SelectionPerspectiveFrame {
		t.Fatalf("PlaceFrame failed: expected perspective frame, got %v", sel)
	}
	pf := d.PerspectiveFrames[0]
	for i, c := range pf.Corners2D {
		if !d.Planes[0].ProjectedVertices.Contains(c) {
			t.Errorf("PlaceFrame failed: corner %d %v outside the plane quad", i, c)
		}
	}
	lo, hi := geometry.Bounds2D(pf.Corners2D.Points())
	if hi.X-lo.X > 0.2 || hi.Y-lo.Y > 0.5 {
		t.Errorf("PlaceFrame failed: expected a small frame, got bounds %v %v", lo, hi)
	}
	if pf.WidthMeters >= cfg.PerspectiveFrameFraction*4 {
		t.Errorf("PlaceFrame failed: expected width to shrink with the frame, got %v", pf.WidthMeters)
	}

	// Items beside the frame stay selectable
	if got := HitTest(&d, geometry.NewVector2(0.6, 0.5), cfg); got != (Selection{Kind: SelectionMeasurement, ID: "m"}) {
		t.Errorf("HitTest failed: expected measurement line, got %v", got)
	}
}

func TestPlaceFrameFallsBackWhenPlaneTooThin(t *testing.T) {
	// Tap hugs the top edge of a sliver, no frame fits around it
	d := New(time.Now())
	d.Planes = append(d.Planes, PlaneRecord{
		ID:                "sliver",
		ProjectedVertices: Quad{{X: 0.2, Y: 0.5}, {X: 0.8, Y: 0.5}, {X: 0.8, Y: 0.5 + 1e-9}, {X: 0.2, Y: 0.5 + 1e-9}},
	})
	sel := PlaceFrame(&d, geometry.NewVector2(0.5, 0.5+1e-15), "f", DefaultEditConfig())
	if sel.Kind != SelectionFrame || len(d.PerspectiveFrames) != 0 {
		t.Errorf("PlaceFrame failed: expected an axis-aligned frame, got %v", sel)
	}
}
