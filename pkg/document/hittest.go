package document

import (
	"math"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// HitTest resolves a pointer location to at most one item. Tiers are tried
// in a fixed order and the first tier with a hit wins:
//
//  1. measurement endpoints
//  2. text annotations
//  3. frame resize handles
//  4. frame rectangles
//  5. perspective frame quads
//  6. measurement lines
//
// Small handles come first so they stay reachable on top of larger shapes.
// Within a point tier the nearest item wins; within a containment tier the
// most recently added (topmost) item wins.
func HitTest(d *Document, p geometry.Vector2, cfg EditConfig) Selection {
	if sel := hitEndpoint(d, p, cfg.EndpointHitRadius); !sel.IsNone() {
		return sel
	}
	if sel := hitText(d, p, cfg.TextHitRadius); !sel.IsNone() {
		return sel
	}
	if sel := hitResizeHandle(d, p, cfg.HandleHitRadius); !sel.IsNone() {
		return sel
	}
	for i := len(d.Frames) - 1; i >= 0; i-- {
		if d.Frames[i].Contains(p) {
			return Selection{Kind: SelectionFrame, ID: d.Frames[i].ID}
		}
	}
	for i := len(d.PerspectiveFrames) - 1; i >= 0; i-- {
		if d.PerspectiveFrames[i].Corners2D.Contains(p) {
			return Selection{Kind: SelectionPerspectiveFrame, ID: d.PerspectiveFrames[i].ID}
		}
	}
	return hitLine(d, p, cfg.LineHitRadius)
}

func hitEndpoint(d *Document, p geometry.Vector2, radius float64) Selection {
	best := math.MaxFloat64
	sel := NoSelection
	for _, m := range d.Measurements {
		if dist := p.Distance(m.PointA); dist <= radius && dist < best {
			best = dist
			sel = Selection{Kind: SelectionMeasurementEndpointA, ID: m.ID}
		}
		if dist := p.Distance(m.PointB); dist <= radius && dist < best {
			best = dist
			sel = Selection{Kind: SelectionMeasurementEndpointB, ID: m.ID}
		}
	}
	return sel
}

func hitText(d *Document, p geometry.Vector2, radius float64) Selection {
	best := math.MaxFloat64
	sel := NoSelection
	for _, t := range d.TextAnnotations {
		if dist := p.Distance(t.Position); dist <= radius && dist < best {
			best = dist
			sel = Selection{Kind: SelectionTextAnnotation, ID: t.ID}
		}
	}
	return sel
}

func hitResizeHandle(d *Document, p geometry.Vector2, radius float64) Selection {
	best := math.MaxFloat64
	sel := NoSelection
	for _, f := range d.Frames {
		if dist := p.Distance(f.BottomRight()); dist <= radius && dist < best {
			best = dist
			sel = Selection{Kind: SelectionFrameResizeHandle, ID: f.ID}
		}
	}
	return sel
}

func hitLine(d *Document, p geometry.Vector2, radius float64) Selection {
	best := math.MaxFloat64
	sel := NoSelection
	for _, m := range d.Measurements {
		if dist := geometry.DistanceToSegment(p, m.PointA, m.PointB); dist <= radius && dist < best {
			best = dist
			sel = Selection{Kind: SelectionMeasurement, ID: m.ID}
		}
	}
	return sel
}
