// Package viewer draws annotation documents with fyne. The view only reads
// document state; every change goes through the document.Editor.
package viewer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// ImageLoader resolves a frame's stored image filename
type ImageLoader func(filename string) (image.Image, error)

var (
	measurementColor = color.NRGBA{R: 0x00, G: 0xd0, B: 0xff, A: 0xff}
	wallColor        = color.NRGBA{R: 0x80, G: 0xff, B: 0x80, A: 0xa0}
	cornerColor      = color.NRGBA{R: 0xff, G: 0x60, B: 0x60, A: 0xff}
	selectedColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	canvasColor      = color.NRGBA{R: 0x0f, G: 0x12, B: 0x19, A: 0xff}
)

// DocumentView renders the editor's document and turns taps and drags
// into editor calls
type DocumentView struct {
	widget.BaseWidget
	editor     *document.Editor
	loadImage  ImageLoader
	background image.Image

	sources *Cache[image.Image]
	warped  *Cache[image.Image]

	selection document.Selection
	dragging  bool
	width     float64
	height    float64
	objects   []fyne.CanvasObject
	onChange  func(sel document.Selection)
	onTap     func(p geometry.Vector2) document.Selection
}

// NewDocumentView creates a view over editor. loadImage may be nil when
// frame images should not be drawn.
func NewDocumentView(editor *document.Editor, loadImage ImageLoader) *DocumentView {
	v := &DocumentView{
		editor:    editor,
		loadImage: loadImage,
		sources:   NewCache[image.Image](DefaultCacheSize),
		warped:    NewCache[image.Image](DefaultCacheSize),
		selection: document.NoSelection,
	}
	v.ExtendBaseWidget(v)
	return v
}

// SetOnChange sets the callback run after the selection or document changed
func (v *DocumentView) SetOnChange(callback func(sel document.Selection)) {
	v.onChange = callback
}

// SetBackground sets the captured photo drawn under the annotations
func (v *DocumentView) SetBackground(img image.Image) {
	v.background = img
	v.Render()
}

// Selection returns the current selection
func (v *DocumentView) Selection() document.Selection {
	return v.selection
}

// Select replaces the current selection
func (v *DocumentView) Select(sel document.Selection) {
	v.selection = sel
	v.changed()
}

// Invalidate redraws after the document was changed outside the view
func (v *DocumentView) Invalidate() {
	d := v.editor.Document()
	if !selectionExists(&d, v.selection) {
		v.selection = document.NoSelection
	}
	v.changed()
}

// CreateRenderer creates the renderer for the widget
func (v *DocumentView) CreateRenderer() fyne.WidgetRenderer {
	return &documentWidgetRenderer{view: v}
}

// SetOnTap installs a one-shot tap handler that receives the normalized
// image position instead of the tap selecting an item
func (v *DocumentView) SetOnTap(handler func(p geometry.Vector2) document.Selection) {
	v.onTap = handler
}

// Tapped selects the item under the pointer
func (v *DocumentView) Tapped(event *fyne.PointEvent) {
	if v.dragging {
		return
	}
	p := v.toNormalized(event.Position)
	if handler := v.onTap; handler != nil {
		v.onTap = nil
		v.selection = handler(p)
	} else {
		v.selection = v.editor.SelectAt(p)
	}
	v.changed()
}

// Dragged moves the item grabbed at the start of the gesture
func (v *DocumentView) Dragged(event *fyne.DragEvent) {
	if !v.dragging {
		start := event.Position.Subtract(event.Dragged)
		v.selection = v.editor.SelectAt(v.toNormalized(start))
		v.editor.BeginDrag()
		v.dragging = true
	}
	if v.selection.IsNone() {
		return
	}

	r := v.imageRect()
	if r.w <= 0 || r.h <= 0 {
		return
	}
	delta := geometry.NewVector2(float64(event.Dragged.DX)/r.w, float64(event.Dragged.DY)/r.h)
	if v.editor.Drag(v.selection, delta) {
		v.changed()
	}
}

// DragEnd closes the drag gesture
func (v *DocumentView) DragEnd() {
	v.editor.EndDrag()
	v.dragging = false
}

func (v *DocumentView) changed() {
	v.Render()
	if v.onChange != nil {
		v.onChange(v.selection)
	}
}

// Render rebuilds the canvas objects from the editor's document
func (v *DocumentView) Render() {
	d := v.editor.Document()
	r := v.imageRect()

	objects := make([]fyne.CanvasObject, 0, 64)
	objects = append(objects, v.backgroundObject(r))

	for _, wall := range d.WallDimensions {
		if len(wall.Vertices2D) < 3 {
			continue
		}
		objects = append(objects, v.polygon(r, wall.Vertices2D, wallColor, 1)...)
		label := fmt.Sprintf("%s × %s", analysis.FormatMeters(wall.WidthMeters), analysis.FormatMeters(wall.HeightMeters))
		objects = append(objects, v.text(r, geometry.Centroid(wall.Vertices2D), label, wallColor, 12))
	}

	for _, corner := range d.Corners {
		objects = append(objects, v.marker(r, corner.Position2D, cornerColor, 6))
	}

	for _, pf := range d.PerspectiveFrames {
		if img := v.warpedImage(pf, r); img != nil {
			objects = append(objects, img)
		}
		col := v.entityColor(pf.Color, pf.ID)
		objects = append(objects, v.polygon(r, pf.Corners2D.Points(), col, 2)...)
		if pf.Label != "" {
			objects = append(objects, v.text(r, pf.Center2D, pf.Label, col, 14))
		}
	}

	for _, f := range d.Frames {
		objects = append(objects, v.frameObjects(r, f)...)
	}

	for _, m := range d.Measurements {
		objects = append(objects, v.measurementObjects(r, m)...)
	}

	for _, t := range d.TextAnnotations {
		col := v.entityColor(t.Color, t.ID)
		objects = append(objects, v.text(r, t.Position, t.Text, col, 16))
	}

	v.objects = objects
	v.Refresh()
}

func (v *DocumentView) backgroundObject(r viewRect) fyne.CanvasObject {
	var obj fyne.CanvasObject
	if v.background != nil {
		img := canvas.NewImageFromImage(v.background)
		img.FillMode = canvas.ImageFillStretch
		obj = img
	} else {
		obj = canvas.NewRectangle(canvasColor)
	}
	obj.Move(fyne.NewPos(float32(r.x), float32(r.y)))
	obj.Resize(fyne.NewSize(float32(r.w), float32(r.h)))
	return obj
}

func (v *DocumentView) frameObjects(r viewRect, f document.Frame) []fyne.CanvasObject {
	col := v.entityColor(f.Color, f.ID)
	pos := r.toScreen(f.TopLeft)
	size := fyne.NewSize(float32(f.Width*r.w), float32(f.Height*r.h))

	objects := make([]fyne.CanvasObject, 0, 4)
	if src := v.frameSource(f.ImageFilename, f.ImageBase64); src != nil {
		img := canvas.NewImageFromImage(src)
		img.FillMode = canvas.ImageFillStretch
		img.Move(pos)
		img.Resize(size)
		objects = append(objects, img)
	}

	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = col
	rect.StrokeWidth = 2
	if f.IsCornerFrame {
		rect.StrokeWidth = 1
	}
	rect.Move(pos)
	rect.Resize(size)
	objects = append(objects, rect)

	objects = append(objects, v.marker(r, f.BottomRight(), col, 8))
	if f.Label != "" {
		objects = append(objects, v.text(r, f.TopLeft, f.Label, col, 14))
	}
	return objects
}

func (v *DocumentView) measurementObjects(r viewRect, m document.Measurement) []fyne.CanvasObject {
	col := color.Color(measurementColor)
	if v.isSelected(m.ID) {
		col = selectedColor
	}

	line := canvas.NewLine(col)
	line.StrokeWidth = 2
	line.Position1 = r.toScreen(m.PointA)
	line.Position2 = r.toScreen(m.PointB)

	label := analysis.FormatMeters(m.DistanceMeters)
	if !m.IsFromAR {
		label = "~" + label
	}
	mid := m.PointA.Add(m.PointB).Mul(0.5)
	return []fyne.CanvasObject{
		line,
		v.marker(r, m.PointA, col, 8),
		v.marker(r, m.PointB, col, 8),
		v.text(r, mid, label, col, 14),
	}
}

func (v *DocumentView) polygon(r viewRect, points []geometry.Vector2, col color.Color, width float32) []fyne.CanvasObject {
	if len(points) < 2 {
		return nil
	}
	lines := make([]fyne.CanvasObject, 0, len(points))
	for i := range points {
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = r.toScreen(points[i])
		line.Position2 = r.toScreen(points[(i+1)%len(points)])
		lines = append(lines, line)
	}
	return lines
}

func (v *DocumentView) marker(r viewRect, p geometry.Vector2, col color.Color, size float32) fyne.CanvasObject {
	marker := canvas.NewCircle(col)
	marker.StrokeColor = color.Black
	marker.StrokeWidth = 1
	pos := r.toScreen(p)
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(pos.X-size/2, pos.Y-size/2))
	return marker
}

func (v *DocumentView) text(r viewRect, p geometry.Vector2, s string, col color.Color, size float32) fyne.CanvasObject {
	t := canvas.NewText(s, col)
	t.TextSize = size
	t.TextStyle = fyne.TextStyle{Bold: true}
	t.Move(r.toScreen(p))
	return t
}

func (v *DocumentView) entityColor(hex, id string) color.Color {
	if v.isSelected(id) {
		return selectedColor
	}
	return ParseHexColor(hex, v.editor.Config().FrameColor)
}

func (v *DocumentView) isSelected(id string) bool {
	return !v.selection.IsNone() && v.selection.ID == id
}

// warpedImage draws a perspective frame's image into its quad
func (v *DocumentView) warpedImage(pf document.PerspectiveFrame, r viewRect) fyne.CanvasObject {
	w, h := int(r.w), int(r.h)
	if w <= 0 || h <= 0 {
		return nil
	}
	identity := pf.ImageFilename
	if identity == "" {
		identity = pf.ImageBase64
	}
	if identity == "" {
		return nil
	}

	key := WarpKey(identity, pf.Corners2D, w, h)
	warped, ok := v.warped.Get(key)
	if !ok {
		src := v.frameSource(pf.ImageFilename, pf.ImageBase64)
		if src == nil {
			return nil
		}
		warped = WarpToQuad(src, pixelQuad(pf.Corners2D, r.w, r.h), w, h)
		v.warped.Put(key, warped)
	}

	img := canvas.NewImageFromImage(warped)
	img.FillMode = canvas.ImageFillStretch
	img.Move(fyne.NewPos(float32(r.x), float32(r.y)))
	img.Resize(fyne.NewSize(float32(r.w), float32(r.h)))
	return img
}

// frameSource resolves a frame image from its stored file or inline data
func (v *DocumentView) frameSource(filename, inline string) image.Image {
	key := filename
	if key == "" {
		key = inline
	}
	if key == "" {
		return nil
	}
	if img, ok := v.sources.Get(key); ok {
		return img
	}

	var img image.Image
	var err error
	switch {
	case filename != "" && v.loadImage != nil:
		img, err = v.loadImage(filename)
	case inline != "":
		img, err = decodeInline(inline)
	default:
		return nil
	}
	if err != nil {
		slog.Warn("failed to load frame image", "file", filename, "error", err)
		return nil
	}
	v.sources.Put(key, img)
	return img
}

func decodeInline(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func (v *DocumentView) imageRect() viewRect {
	d := v.editor.Document()
	iw, ih := d.ImageSize()
	return fitRect(iw, ih, v.width, v.height)
}

func (v *DocumentView) toNormalized(pos fyne.Position) geometry.Vector2 {
	return v.imageRect().toNormalized(pos)
}

// viewRect is where the captured image sits inside the widget
type viewRect struct {
	x, y, w, h float64
}

// fitRect letterboxes an image of size iw×ih into a vw×vh area
func fitRect(iw, ih, vw, vh float64) viewRect {
	if iw <= 0 || ih <= 0 || vw <= 0 || vh <= 0 {
		return viewRect{}
	}
	scale := min(vw/iw, vh/ih)
	w, h := iw*scale, ih*scale
	return viewRect{x: (vw - w) / 2, y: (vh - h) / 2, w: w, h: h}
}

func (r viewRect) toScreen(p geometry.Vector2) fyne.Position {
	return fyne.NewPos(float32(r.x+p.X*r.w), float32(r.y+p.Y*r.h))
}

func (r viewRect) toNormalized(pos fyne.Position) geometry.Vector2 {
	if r.w <= 0 || r.h <= 0 {
		return geometry.Vector2{}
	}
	return geometry.NewVector2((float64(pos.X)-r.x)/r.w, (float64(pos.Y)-r.y)/r.h)
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA", falling back to fallback
// and then to opaque white
func ParseHexColor(s, fallback string) color.Color {
	if c, ok := parseHex(s); ok {
		return c
	}
	if c, ok := parseHex(fallback); ok {
		return c
	}
	return color.White
}

func parseHex(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, false
	}
	return c, err == nil
}

func selectionExists(d *document.Document, sel document.Selection) bool {
	switch sel.Kind {
	case document.SelectionNone:
		return true
	case document.SelectionMeasurement, document.SelectionMeasurementEndpointA, document.SelectionMeasurementEndpointB:
		for _, m := range d.Measurements {
			if m.ID == sel.ID {
				return true
			}
		}
	case document.SelectionFrame, document.SelectionFrameResizeHandle:
		for _, f := range d.Frames {
			if f.ID == sel.ID {
				return true
			}
		}
	case document.SelectionPerspectiveFrame:
		for _, pf := range d.PerspectiveFrames {
			if pf.ID == sel.ID {
				return true
			}
		}
	case document.SelectionTextAnnotation:
		for _, t := range d.TextAnnotations {
			if t.ID == sel.ID {
				return true
			}
		}
	}
	return false
}

// documentWidgetRenderer implements fyne.WidgetRenderer
type documentWidgetRenderer struct {
	view *DocumentView
}

func (d *documentWidgetRenderer) Layout(size fyne.Size) {
	d.view.width = float64(size.Width)
	d.view.height = float64(size.Height)
	d.view.Render()
}

func (d *documentWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(480, 360)
}

func (d *documentWidgetRenderer) Refresh() {
	canvas.Refresh(d.view)
}

func (d *documentWidgetRenderer) Objects() []fyne.CanvasObject {
	return d.view.objects
}

func (d *documentWidgetRenderer) Destroy() {}
