package document

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// scaledDocument has a 1000x1500 camera and one AR measurement of 2 m
// spanning 400 px horizontally
func scaledDocument() Document {
	d := New(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	d.Camera = &CameraInfo{
		Intrinsics:  geometry.Intrinsics(800, 800, 500, 750),
		Transform:   geometry.Identity4(),
		ImageWidth:  1000,
		ImageHeight: 1500,
	}
	d.Measurements = append(d.Measurements, Measurement{
		ID:             "ar",
		DistanceMeters: 2.0,
		PointA:         geometry.NewVector2(0.1, 0.1),
		PointB:         geometry.NewVector2(0.5, 0.1),
		IsFromAR:       true,
	})
	return d
}

func TestPixelDistanceUsesImageSize(t *testing.T) {
	d := scaledDocument()
	got := d.PixelDistance(geometry.NewVector2(0, 0), geometry.NewVector2(0, 0.1))
	if math.Abs(got-150) > 1e-9 {
		t.Errorf("PixelDistance failed: expected 150, got %v", got)
	}

	d.Camera = nil
	got = d.PixelDistance(geometry.NewVector2(0, 0), geometry.NewVector2(0.5, 0))
	if math.Abs(got-960) > 1e-9 {
		t.Errorf("PixelDistance without camera failed: expected 960, got %v", got)
	}
}

func TestMetersPerPixel(t *testing.T) {
	d := scaledDocument()
	mpp, ok := d.MetersPerPixel()
	if !ok {
		t.Fatal("MetersPerPixel failed: expected a scale")
	}
	if math.Abs(mpp-0.005) > 1e-12 {
		t.Errorf("MetersPerPixel failed: expected 0.005, got %v", mpp)
	}

	estimator := DistanceEstimator{FallbackMetersPerPixel: 0.002}
	got := estimator.Estimate(&d, geometry.NewVector2(0.2, 0.5), geometry.NewVector2(0.3, 0.5))
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Estimate failed: expected 0.5, got %v", got)
	}
}

func TestMetersPerPixelSkipsTinyMeasurements(t *testing.T) {
	d := scaledDocument()
	d.Measurements = append(d.Measurements, Measurement{
		ID:             "tiny",
		DistanceMeters: 1,
		PointA:         geometry.NewVector2(0.5, 0.5),
		PointB:         geometry.NewVector2(0.5005, 0.5),
		IsFromAR:       true,
	})
	mpp, _ := d.MetersPerPixel()
	if math.Abs(mpp-0.005) > 1e-12 {
		t.Errorf("MetersPerPixel failed: expected tiny measurement skipped, got %v", mpp)
	}
}

func TestDistanceEstimatorSources(t *testing.T) {
	estimator := DistanceEstimator{FallbackMetersPerPixel: 0.002}

	d := New(time.Now())
	mpp, source := estimator.Scale(&d)
	if source != ScaleFallback || mpp != 0.002 {
		t.Errorf("Scale failed: expected fallback 0.002, got %v from %v", mpp, source)
	}

	// Only AR measurement is under a pixel: document scale undefined, reference ratio used
	d.Camera = &CameraInfo{ImageWidth: 1000, ImageHeight: 1000}
	d.Measurements = append(d.Measurements, Measurement{
		ID:             "short",
		DistanceMeters: 0.0016,
		PointA:         geometry.NewVector2(0.5, 0.5),
		PointB:         geometry.NewVector2(0.5008, 0.5),
		IsFromAR:       true,
	})
	mpp, source = estimator.Scale(&d)
	if source != ScaleFromARReference {
		t.Errorf("Scale failed: expected ar-reference, got %v", source)
	}
	if math.Abs(mpp-0.002) > 1e-9 {
		t.Errorf("Scale failed: expected 0.002, got %v", mpp)
	}

	d = scaledDocument()
	if _, source = estimator.Scale(&d); source != ScaleFromDocument {
		t.Errorf("Scale failed: expected document, got %v", source)
	}
}

func TestDistanceEstimatorIgnoresSubPixelReference(t *testing.T) {
	estimator := DistanceEstimator{FallbackMetersPerPixel: 0.002}
	d := New(time.Now())
	d.Camera = &CameraInfo{ImageWidth: 1000, ImageHeight: 1000}
	d.Measurements = append(d.Measurements, Measurement{
		ID:             "ar",
		DistanceMeters: 2,
		PointA:         geometry.NewVector2(0.5, 0.5),
		PointB:         geometry.NewVector2(0.5004, 0.5),
		IsFromAR:       true,
	})

	mpp, source := estimator.Scale(&d)
	if source != ScaleFallback || mpp != 0.002 {
		t.Errorf("Scale failed: expected fallback 0.002, got %v from %v", mpp, source)
	}
	got := estimator.Estimate(&d, geometry.NewVector2(0, 0), geometry.NewVector2(0.1, 0))
	if math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Estimate failed: expected 0.2 m for 100 px, got %v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := scaledDocument()
	w := 1.5
	d.Frames = append(d.Frames, Frame{ID: "f", WidthMeters: &w})
	d.WallDimensions = append(d.WallDimensions, WallDimension{ID: "w", Vertices2D: PointList{{X: 0.1, Y: 0.1}}})
	d.LidarMetadata = &LidarMetadata{PlaneDimensions: []PlaneDimension{{Width: 1, Height: 2}}}

	c := d.Clone()
	if !reflect.DeepEqual(c, d.Clone()) {
		t.Fatal("Clone failed: clones of the same document differ")
	}

	c.Measurements[0].DistanceMeters = 9
	*c.Frames[0].WidthMeters = 9
	c.WallDimensions[0].Vertices2D[0].X = 9
	c.Camera.ImageWidth = 9
	c.LidarMetadata.PlaneDimensions[0].Width = 9

	if d.Measurements[0].DistanceMeters != 2 || *d.Frames[0].WidthMeters != 1.5 ||
		d.WallDimensions[0].Vertices2D[0].X != 0.1 || d.Camera.ImageWidth != 1000 ||
		d.LidarMetadata.PlaneDimensions[0].Width != 1 {
		t.Error("Clone failed: modifying the clone changed the original")
	}
}
