// Package document is the offsite annotation model: a flat, normalized 2D
// snapshot of a captured scene plus everything the user edits on top of it.
//
// All 2D positions are fractions of the captured image, x=0 left, y=0 top.
// A Document owns its entities by value; Clone gives a fully independent copy.
package document

import (
	"time"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Image size assumed when a document carries no camera block
const (
	DefaultImageWidth  = 1920
	DefaultImageHeight = 1440
)

// Document is the serializable record derived from one capture
type Document struct {
	CapturedAt        time.Time          `json:"capturedAt"`
	Camera            *CameraInfo        `json:"camera,omitempty"`
	Planes            []PlaneRecord      `json:"planes"`
	Corners           []CornerRecord     `json:"corners"`
	WallDimensions    []WallDimension    `json:"wallDimensions"`
	Measurements      []Measurement      `json:"measurements"`
	Frames            []Frame            `json:"frames"`
	PerspectiveFrames []PerspectiveFrame `json:"perspectiveFrames"`
	TextAnnotations   []TextAnnotation   `json:"textAnnotations"`
	LidarMetadata     *LidarMetadata     `json:"lidarMetadata,omitempty"`
	ImageScale        float64            `json:"imageScale"`
	LastModified      *time.Time         `json:"lastModified,omitempty"`
}

// CameraInfo is the pinhole camera the snapshot was taken with
type CameraInfo struct {
	Intrinsics  geometry.Matrix3 `json:"intrinsics"`
	Transform   geometry.Matrix4 `json:"transform"`
	ImageWidth  int              `json:"imageWidth"`
	ImageHeight int              `json:"imageHeight"`
}

// PlaneRecord is a plane frozen at capture time
type PlaneRecord struct {
	ID                string           `json:"id"`
	Alignment         string           `json:"alignment"`
	Classification    string           `json:"classification"`
	Transform         geometry.Matrix4 `json:"transform"`
	ExtentX           float64          `json:"extentX"`
	ExtentZ           float64          `json:"extentZ"`
	Center3D          [3]float64       `json:"center3D"`
	Normal            [3]float64       `json:"normal"`
	ProjectedVertices Quad             `json:"projectedVertices"`
	WidthMeters       float64          `json:"widthMeters"`
	HeightMeters      float64          `json:"heightMeters"`
}

// CornerRecord is a detected wall corner frozen at capture time
type CornerRecord struct {
	ID           string           `json:"id"`
	Position3D   [3]float64       `json:"position3D"`
	Position2D   geometry.Vector2 `json:"position2D"`
	AngleDegrees float64          `json:"angleDegrees"`
	PlaneIDA     string           `json:"planeIdA"`
	PlaneIDB     string           `json:"planeIdB"`
}

// WallDimension is the size overlay drawn for a wall
type WallDimension struct {
	ID               string    `json:"id"`
	PlaneID          string    `json:"planeId"`
	WidthMeters      float64   `json:"widthMeters"`
	HeightMeters     float64   `json:"heightMeters"`
	AreaSquareMeters float64   `json:"areaSquareMeters"`
	Vertices2D       PointList `json:"vertices2D"`
}

// Measurement is a two-point distance. IsFromAR is fixed at creation:
// AR distances come from tracking and are never re-estimated.
type Measurement struct {
	ID             string           `json:"id"`
	DistanceMeters float64          `json:"distanceMeters"`
	PointA         geometry.Vector2 `json:"pointA"`
	PointB         geometry.Vector2 `json:"pointB"`
	IsFromAR       bool             `json:"isFromAR"`
}

// Frame is an axis-aligned rectangle
type Frame struct {
	ID            string           `json:"id"`
	TopLeft       geometry.Vector2 `json:"topLeft"`
	Width         float64          `json:"width"`
	Height        float64          `json:"height"`
	Label         string           `json:"label,omitempty"`
	Color         string           `json:"color"`
	WidthMeters   *float64         `json:"widthMeters,omitempty"`
	HeightMeters  *float64         `json:"heightMeters,omitempty"`
	ImageBase64   string           `json:"imageBase64,omitempty"`
	ImageFilename string           `json:"imageFilename,omitempty"`
	IsCornerFrame bool             `json:"isCornerFrame"`
}

// BottomRight returns the resize handle position
func (f Frame) BottomRight() geometry.Vector2 {
	return geometry.NewVector2(f.TopLeft.X+f.Width, f.TopLeft.Y+f.Height)
}

// Contains reports whether p lies within the frame rectangle
func (f Frame) Contains(p geometry.Vector2) bool {
	br := f.BottomRight()
	return p.X >= f.TopLeft.X && p.X <= br.X && p.Y >= f.TopLeft.Y && p.Y <= br.Y
}

// PerspectiveFrame is a frame drawn as the projected quad of a rectangle
// lying on a wall. Corners are TL, TR, BR, BL.
type PerspectiveFrame struct {
	ID            string           `json:"id"`
	PlaneID       string           `json:"planeId,omitempty"`
	Center2D      geometry.Vector2 `json:"center2D"`
	Corners2D     Quad             `json:"corners2D"`
	WidthMeters   float64          `json:"widthMeters"`
	HeightMeters  float64          `json:"heightMeters"`
	ImageBase64   string           `json:"imageBase64,omitempty"`
	ImageFilename string           `json:"imageFilename,omitempty"`
	Label         string           `json:"label,omitempty"`
	Color         string           `json:"color"`
}

// TextAnnotation is a free text note
type TextAnnotation struct {
	ID       string           `json:"id"`
	Position geometry.Vector2 `json:"position"`
	Text     string           `json:"text"`
	Color    string           `json:"color"`
}

// LidarMetadata records what depth hardware backed the capture
type LidarMetadata struct {
	IsLiDARAvailable bool             `json:"isLiDARAvailable"`
	PlaneCount       int              `json:"planeCount"`
	PlaneDimensions  []PlaneDimension `json:"planeDimensions"`
}

// PlaneDimension is a plane's width and height in meters
type PlaneDimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// New returns an empty document captured at the given time
func New(capturedAt time.Time) Document {
	return Document{
		CapturedAt:        capturedAt,
		Planes:            make([]PlaneRecord, 0),
		Corners:           make([]CornerRecord, 0),
		WallDimensions:    make([]WallDimension, 0),
		Measurements:      make([]Measurement, 0),
		Frames:            make([]Frame, 0),
		PerspectiveFrames: make([]PerspectiveFrame, 0),
		TextAnnotations:   make([]TextAnnotation, 0),
		ImageScale:        1,
	}
}

// ImageSize returns the stored camera image size in pixels, or the
// default size when the document has no usable camera block
func (d *Document) ImageSize() (float64, float64) {
	if d.Camera != nil && d.Camera.ImageWidth > 0 && d.Camera.ImageHeight > 0 {
		return float64(d.Camera.ImageWidth), float64(d.Camera.ImageHeight)
	}
	return DefaultImageWidth, DefaultImageHeight
}

// PixelDistance converts a normalized segment length to pixels of the
// captured image. Normalized space is not isometric on non-square images,
// so each axis is scaled by its own image dimension.
func (d *Document) PixelDistance(a, b geometry.Vector2) float64 {
	w, h := d.ImageSize()
	return b.Sub(a).Scale(w, h).Length()
}

// Clone returns a deep copy sharing no memory with d
func (d Document) Clone() Document {
	out := d
	if d.Camera != nil {
		camera := *d.Camera
		out.Camera = &camera
	}
	if d.LastModified != nil {
		modified := *d.LastModified
		out.LastModified = &modified
	}
	if d.LidarMetadata != nil {
		meta := *d.LidarMetadata
		meta.PlaneDimensions = append([]PlaneDimension(nil), d.LidarMetadata.PlaneDimensions...)
		out.LidarMetadata = &meta
	}

	out.Planes = append(make([]PlaneRecord, 0, len(d.Planes)), d.Planes...)
	out.Corners = append(make([]CornerRecord, 0, len(d.Corners)), d.Corners...)
	out.Measurements = append(make([]Measurement, 0, len(d.Measurements)), d.Measurements...)
	out.PerspectiveFrames = append(make([]PerspectiveFrame, 0, len(d.PerspectiveFrames)), d.PerspectiveFrames...)
	out.TextAnnotations = append(make([]TextAnnotation, 0, len(d.TextAnnotations)), d.TextAnnotations...)

	out.WallDimensions = make([]WallDimension, len(d.WallDimensions))
	for i, wall := range d.WallDimensions {
		wall.Vertices2D = append(PointList(nil), wall.Vertices2D...)
		out.WallDimensions[i] = wall
	}

	out.Frames = make([]Frame, len(d.Frames))
	for i, frame := range d.Frames {
		frame.WidthMeters = copyFloat(frame.WidthMeters)
		frame.HeightMeters = copyFloat(frame.HeightMeters)
		out.Frames[i] = frame
	}
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
