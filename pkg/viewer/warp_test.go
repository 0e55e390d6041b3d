package viewer

import (
	"image"
	"image/color"
	"testing"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestWarpToQuadCoversQuad(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	quad := document.Quad{
		geometry.NewVector2(2, 2),
		geometry.NewVector2(8, 2),
		geometry.NewVector2(8, 8),
		geometry.NewVector2(2, 8),
	}

	out := WarpToQuad(solidImage(10, 10, red), quad, 10, 10)

	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("WarpToQuad failed: expected 10x10 output, got %v", out.Bounds())
	}
	if got := out.RGBAAt(5, 5); got != red {
		t.Errorf("WarpToQuad failed: expected %v inside the quad, got %v", red, got)
	}
	for _, p := range []image.Point{{0, 0}, {9, 9}, {0, 5}} {
		if got := out.RGBAAt(p.X, p.Y); got.A != 0 {
			t.Errorf("WarpToQuad failed: expected transparent pixel at %v, got %v", p, got)
		}
	}
}

func TestWarpToQuadMapsCorners(t *testing.T) {
	// Left half red, right half blue
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				src.SetRGBA(x, y, red)
			} else {
				src.SetRGBA(x, y, blue)
			}
		}
	}

	// Mirrored quad: the source's left edge lands on the right
	quad := document.Quad{
		geometry.NewVector2(40, 0),
		geometry.NewVector2(0, 0),
		geometry.NewVector2(0, 40),
		geometry.NewVector2(40, 40),
	}
	out := WarpToQuad(src, quad, 40, 40)

	if got := out.RGBAAt(35, 20); got != red {
		t.Errorf("WarpToQuad failed: expected red on the right, got %v", got)
	}
	if got := out.RGBAAt(5, 20); got != blue {
		t.Errorf("WarpToQuad failed: expected blue on the left, got %v", got)
	}
}

func TestWarpToQuadEmptySource(t *testing.T) {
	quad := document.Quad{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	out := WarpToQuad(image.NewRGBA(image.Rectangle{}), quad, 4, 4)
	if got := out.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("WarpToQuad failed: expected transparent output, got %v", got)
	}
}

func TestFillTriangle(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 10, 10))
	fillTriangle(mask, geometry.NewVector2(0, 0), geometry.NewVector2(9, 0), geometry.NewVector2(0, 9))

	if mask.AlphaAt(1, 1).A != 0xff {
		t.Errorf("fillTriangle failed: expected (1,1) covered")
	}
	if mask.AlphaAt(8, 8).A != 0 {
		t.Errorf("fillTriangle failed: expected (8,8) uncovered")
	}
}

func TestPixelQuad(t *testing.T) {
	q := document.Quad{{X: 0.5, Y: 0.5}, {X: 1, Y: 0.5}, {X: 1, Y: 1}, {X: 0.5, Y: 1}}
	out := pixelQuad(q, 200, 100)
	if out[0] != geometry.NewVector2(100, 50) || out[2] != geometry.NewVector2(200, 100) {
		t.Errorf("pixelQuad failed: got %v", out)
	}
}
