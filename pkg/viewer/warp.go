package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// WarpToQuad renders src into a transparent width×height image so that its
// corners land on quad (pixel coordinates, TL TR BR BL). The quad is split
// along TL-BR and each half gets its own affine map, which is exact for
// parallelograms and a close approximation for mild perspective.
func WarpToQuad(src image.Image, quad document.Quad, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	sr := src.Bounds()
	if sr.Empty() || dst.Bounds().Empty() {
		return dst
	}

	sw, sh := float64(sr.Dx()), float64(sr.Dy())
	tl, tr, br, bl := quad[0], quad[1], quad[2], quad[3]

	upper := sourceToQuad(tl, tr.Sub(tl).Mul(1/sw), br.Sub(tr).Mul(1/sh), sr.Min)
	lower := sourceToQuad(tl, br.Sub(bl).Mul(1/sw), bl.Sub(tl).Mul(1/sh), sr.Min)

	warpTriangle(dst, src, upper, tl, tr, br)
	warpTriangle(dst, src, lower, tl, br, bl)
	return dst
}

// sourceToQuad builds the affine map taking the source's min corner to origin
// with the given per-pixel column vectors
func sourceToQuad(origin, col0, col1 geometry.Vector2, srcMin image.Point) f64.Aff3 {
	mx, my := float64(srcMin.X), float64(srcMin.Y)
	return f64.Aff3{
		col0.X, col1.X, origin.X - col0.X*mx - col1.X*my,
		col0.Y, col1.Y, origin.Y - col0.Y*mx - col1.Y*my,
	}
}

func warpTriangle(dst *image.RGBA, src image.Image, s2d f64.Aff3, a, b, c geometry.Vector2) {
	mask := image.NewAlpha(dst.Bounds())
	fillTriangle(mask, a, b, c)
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Src, &draw.Options{DstMask: mask})
}

// fillTriangle marks the pixels covered by a triangle as opaque in mask
// using a scanline fill
func fillTriangle(mask *image.Alpha, a, b, c geometry.Vector2) {
	v := [3]geometry.Vector2{a, b, c}

	// Sort vertices by Y coordinate (top to bottom)
	if v[0].Y > v[1].Y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].Y > v[2].Y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].Y > v[1].Y {
		v[0], v[1] = v[1], v[0]
	}

	bounds := mask.Bounds()
	edges := [3][2]geometry.Vector2{{v[0], v[1]}, {v[1], v[2]}, {v[0], v[2]}}

	yStart := int(math.Max(float64(bounds.Min.Y), math.Floor(v[0].Y)))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), math.Ceil(v[2].Y)))
	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)
		xs := make([]float64, 0, 3)
		for _, e := range edges {
			p, q := e[0], e[1]
			if p.Y == q.Y || fy < p.Y || fy > q.Y {
				continue
			}
			t := (fy - p.Y) / (q.Y - p.Y)
			xs = append(xs, p.X+t*(q.X-p.X))
		}
		if len(xs) < 2 {
			continue
		}

		xStart, xEnd := xs[0], xs[0]
		for _, x := range xs[1:] {
			xStart = math.Min(xStart, x)
			xEnd = math.Max(xEnd, x)
		}
		xStart = math.Max(float64(bounds.Min.X), math.Floor(xStart))
		xEnd = math.Min(float64(bounds.Max.X-1), math.Ceil(xEnd))
		for x := int(xStart); x <= int(xEnd); x++ {
			mask.SetAlpha(x, y, color.Alpha{A: 0xff})
		}
	}
}

// pixelQuad converts a normalized quad to pixel coordinates of a w×h image
func pixelQuad(q document.Quad, w, h float64) document.Quad {
	var out document.Quad
	for i, p := range q {
		out[i] = p.Scale(w, h)
	}
	return out
}
