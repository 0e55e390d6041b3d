package document

import "github.com/philipparndt/roomsnap/pkg/geometry"

// minPixelDistance excludes near-degenerate AR measurements from the scale
const minPixelDistance = 1.0

// minReferencePixels is the shortest AR measurement usable as a lone reference
const minReferencePixels = minPixelDistance / 2

// ScaleSource says where a meters-per-pixel value came from
type ScaleSource int

const (
	ScaleFromDocument ScaleSource = iota
	ScaleFromARReference
	ScaleFallback
)

func (s ScaleSource) String() string {
	switch s {
	case ScaleFromDocument:
		return "document"
	case ScaleFromARReference:
		return "ar-reference"
	default:
		return "fallback"
	}
}

// MetersPerPixel averages distanceMeters/pixelDistance over all AR
// measurements whose pixel length exceeds one pixel. It reports false when
// no AR measurement qualifies.
func (d *Document) MetersPerPixel() (float64, bool) {
	var sum float64
	var count int
	for _, m := range d.Measurements {
		if !m.IsFromAR {
			continue
		}
		px := d.PixelDistance(m.PointA, m.PointB)
		if px <= minPixelDistance {
			continue
		}
		sum += m.DistanceMeters / px
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// DistanceEstimator turns pixel lengths into meters for offsite measurements
type DistanceEstimator struct {
	FallbackMetersPerPixel float64
}

// Scale picks the best available meters-per-pixel: the document scale,
// then the first AR measurement longer than half a pixel, then the fixed
// fallback.
func (e DistanceEstimator) Scale(d *Document) (float64, ScaleSource) {
	if mpp, ok := d.MetersPerPixel(); ok {
		return mpp, ScaleFromDocument
	}
	for _, m := range d.Measurements {
		if !m.IsFromAR {
			continue
		}
		px := d.PixelDistance(m.PointA, m.PointB)
		if px > minReferencePixels {
			return m.DistanceMeters / px, ScaleFromARReference
		}
	}
	return e.FallbackMetersPerPixel, ScaleFallback
}

// Estimate returns the real-world length of segment ab
func (e DistanceEstimator) Estimate(d *Document, a, b geometry.Vector2) float64 {
	mpp, _ := e.Scale(d)
	return d.PixelDistance(a, b) * mpp
}
