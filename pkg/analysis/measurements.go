// Package analysis summarizes annotation documents for reports.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// MeasurementInfo is a measurement with its pixel length
type MeasurementInfo struct {
	ID             string
	DistanceMeters float64
	PixelLength    float64
	IsFromAR       bool
}

// Summary contains the headline figures of a document
type Summary struct {
	ImageWidth        float64
	ImageHeight       float64
	PlaneCount        int
	VerticalPlanes    int
	CornerCount       int
	MeasurementCount  int
	ARMeasurements    int
	FrameCount        int
	PerspectiveFrames int
	TextCount         int
	WallArea          float64
	MetersPerPixel    float64
	ScaleSource       document.ScaleSource
	MinLength         float64
	MaxLength         float64
	AvgLength         float64
	AllMeasurements   []MeasurementInfo
}

// Summarize computes the summary of a document
func Summarize(d *document.Document, estimator document.DistanceEstimator) *Summary {
	w, h := d.ImageSize()
	result := &Summary{
		ImageWidth:        w,
		ImageHeight:       h,
		PlaneCount:        len(d.Planes),
		CornerCount:       len(d.Corners),
		MeasurementCount:  len(d.Measurements),
		FrameCount:        len(d.Frames),
		PerspectiveFrames: len(d.PerspectiveFrames),
		TextCount:         len(d.TextAnnotations),
		AllMeasurements:   make([]MeasurementInfo, 0, len(d.Measurements)),
	}
	result.MetersPerPixel, result.ScaleSource = estimator.Scale(d)

	for _, p := range d.Planes {
		if p.Alignment == "vertical" {
			result.VerticalPlanes++
		}
	}
	for _, wall := range d.WallDimensions {
		result.WallArea += wall.AreaSquareMeters
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, m := range d.Measurements {
		result.AllMeasurements = append(result.AllMeasurements, MeasurementInfo{
			ID:             m.ID,
			DistanceMeters: m.DistanceMeters,
			PixelLength:    d.PixelDistance(m.PointA, m.PointB),
			IsFromAR:       m.IsFromAR,
		})
		if m.IsFromAR {
			result.ARMeasurements++
		}
		totalLength += m.DistanceMeters
		minLength = math.Min(minLength, m.DistanceMeters)
		maxLength = math.Max(maxLength, m.DistanceMeters)
	}
	if result.MeasurementCount > 0 {
		result.MinLength = minLength
		result.MaxLength = maxLength
		result.AvgLength = totalLength / float64(result.MeasurementCount)
	}
	return result
}

// FindLongestMeasurements returns the N longest measurements
func FindLongestMeasurements(result *Summary, count int) []MeasurementInfo {
	items := make([]MeasurementInfo, len(result.AllMeasurements))
	copy(items, result.AllMeasurements)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DistanceMeters > items[j].DistanceMeters
	})

	if count > len(items) {
		count = len(items)
	}
	return items[:count]
}

// FormatMeters formats a length, switching to centimeters below one meter
func FormatMeters(value float64) string {
	if math.Abs(value) < 1 {
		return fmt.Sprintf("%.1f cm", value*100)
	}
	return fmt.Sprintf("%.2f m", value)
}

// FormatPoint formats a normalized image point
func FormatPoint(v geometry.Vector2) string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}
