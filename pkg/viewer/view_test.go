package viewer

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

func rectClose(a, b viewRect) bool {
	const eps = 1e-6
	return math.Abs(a.x-b.x) < eps && math.Abs(a.y-b.y) < eps &&
		math.Abs(a.w-b.w) < eps && math.Abs(a.h-b.h) < eps
}

func TestFitRectLetterbox(t *testing.T) {
	r := fitRect(1920, 1440, 800, 800)
	if want := (viewRect{x: 0, y: 100, w: 800, h: 600}); !rectClose(r, want) {
		t.Errorf("fitRect failed: expected %+v, got %+v", want, r)
	}

	r = fitRect(1000, 1000, 400, 200)
	if want := (viewRect{x: 100, y: 0, w: 200, h: 200}); !rectClose(r, want) {
		t.Errorf("fitRect failed: expected %+v, got %+v", want, r)
	}

	if r := fitRect(0, 100, 400, 200); r != (viewRect{}) {
		t.Errorf("fitRect failed: expected empty rect, got %+v", r)
	}
}

func TestViewRectRoundTrip(t *testing.T) {
	r := fitRect(1920, 1440, 800, 800)
	p := geometry.NewVector2(0.25, 0.75)

	pos := r.toScreen(p)
	if math.Abs(float64(pos.X)-200) > 1e-3 || math.Abs(float64(pos.Y)-550) > 1e-3 {
		t.Errorf("toScreen failed: expected (200,550), got %v", pos)
	}

	back := r.toNormalized(pos)
	if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
		t.Errorf("toNormalized failed: expected %v, got %v", p, back)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in, fallback string
		want         color.Color
	}{
		{"#FFCC00", "", color.NRGBA{R: 0xff, G: 0xcc, A: 0xff}},
		{"00ff0080", "", color.NRGBA{G: 0xff, A: 0x80}},
		{"red", "#0000FF", color.NRGBA{B: 0xff, A: 0xff}},
		{"", "nope", color.White},
	}

	for _, tt := range tests {
		if got := ParseHexColor(tt.in, tt.fallback); got != tt.want {
			t.Errorf("ParseHexColor(%q, %q) failed: expected %v, got %v", tt.in, tt.fallback, tt.want, got)
		}
	}
}

func TestSelectionExists(t *testing.T) {
	d := document.New(time.Time{})
	d.Frames = append(d.Frames, document.Frame{ID: "f"})
	d.TextAnnotations = append(d.TextAnnotations, document.TextAnnotation{ID: "t"})

	tests := []struct {
		sel  document.Selection
		want bool
	}{
		{document.NoSelection, true},
		{document.Selection{Kind: document.SelectionFrameResizeHandle, ID: "f"}, true},
		{document.Selection{Kind: document.SelectionTextAnnotation, ID: "t"}, true},
		{document.Selection{Kind: document.SelectionTextAnnotation, ID: "f"}, false},
		{document.Selection{Kind: document.SelectionMeasurement, ID: "m"}, false},
	}

	for _, tt := range tests {
		if got := selectionExists(&d, tt.sel); got != tt.want {
			t.Errorf("selectionExists(%v) failed: expected %v, got %v", tt.sel, tt.want, got)
		}
	}
}
