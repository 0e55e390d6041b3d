package document

import (
	"slices"

	"github.com/google/uuid"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Editor is the offsite editing surface over one document. Every mutation
// runs on a copy, is swapped in only when it succeeds and leaves exactly
// one undo snapshot. A drag gesture opened with BeginDrag produces a single
// snapshot however many Drag calls it spans.
type Editor struct {
	NewID func() string

	cfg     EditConfig
	doc     Document
	history History

	dragging bool
	pending  *Document
}

// NewEditor starts editing a copy of doc
func NewEditor(doc Document, cfg EditConfig) *Editor {
	return &Editor{
		NewID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
		cfg: cfg,
		doc: doc.Clone(),
	}
}

// Document returns a copy of the live document
func (e *Editor) Document() Document {
	return e.doc.Clone()
}

// Config returns the editing tunables
func (e *Editor) Config() EditConfig {
	return e.cfg
}

// Reset replaces the live document and forgets all history
func (e *Editor) Reset(doc Document) {
	e.doc = doc.Clone()
	e.history.Clear()
	e.dragging = false
	e.pending = nil
}

// SelectAt hit-tests a pointer location
func (e *Editor) SelectAt(p geometry.Vector2) Selection {
	return HitTest(&e.doc, p, e.cfg)
}

// Scale returns the meters-per-pixel used for new measurements
func (e *Editor) Scale() (float64, ScaleSource) {
	return DistanceEstimator{FallbackMetersPerPixel: e.cfg.FallbackMetersPerPixel}.Scale(&e.doc)
}

// AddMeasurement adds an offsite measurement with an estimated distance
func (e *Editor) AddMeasurement(a, b geometry.Vector2) Selection {
	id := e.NewID()
	e.mutate(func(d *Document) bool {
		m := Measurement{ID: id, PointA: a.Clamp01(), PointB: b.Clamp01()}
		estimator := DistanceEstimator{FallbackMetersPerPixel: e.cfg.FallbackMetersPerPixel}
		m.DistanceMeters = estimator.Estimate(d, m.PointA, m.PointB)
		d.Measurements = append(d.Measurements, m)
		return true
	})
	return Selection{Kind: SelectionMeasurement, ID: id}
}

// PlaceFrame places a perspective or axis-aligned frame at the tap
func (e *Editor) PlaceFrame(tap geometry.Vector2) Selection {
	id := e.NewID()
	var sel Selection
	e.mutate(func(d *Document) bool {
		sel = PlaceFrame(d, tap, id, e.cfg)
		return true
	})
	return sel
}

// AddText adds a text annotation at p
func (e *Editor) AddText(p geometry.Vector2, text string) Selection {
	id := e.NewID()
	e.mutate(func(d *Document) bool {
		d.TextAnnotations = append(d.TextAnnotations, TextAnnotation{
			ID:       id,
			Position: p.Clamp01(),
			Text:     text,
			Color:    e.cfg.TextColor,
		})
		return true
	})
	return Selection{Kind: SelectionTextAnnotation, ID: id}
}

// SetText changes the text of an annotation
func (e *Editor) SetText(id, text string) bool {
	return e.mutate(func(d *Document) bool {
		i := textIndex(d, id)
		if i < 0 || d.TextAnnotations[i].Text == text {
			return false
		}
		d.TextAnnotations[i].Text = text
		return true
	})
}

// SetLabel changes the label of a frame or perspective frame
func (e *Editor) SetLabel(id, label string) bool {
	return e.mutate(func(d *Document) bool {
		if i := frameIndex(d, id); i >= 0 {
			if d.Frames[i].Label == label {
				return false
			}
			d.Frames[i].Label = label
			return true
		}
		if i := perspectiveFrameIndex(d, id); i >= 0 {
			if d.PerspectiveFrames[i].Label == label {
				return false
			}
			d.PerspectiveFrames[i].Label = label
			return true
		}
		return false
	})
}

// SetFrameImage points a frame or perspective frame at a stored image file.
// Any inline image data is dropped.
func (e *Editor) SetFrameImage(id, filename string) bool {
	return e.mutate(func(d *Document) bool {
		if i := frameIndex(d, id); i >= 0 {
			f := &d.Frames[i]
			if f.ImageFilename == filename && f.ImageBase64 == "" {
				return false
			}
			f.ImageFilename = filename
			f.ImageBase64 = ""
			return true
		}
		if i := perspectiveFrameIndex(d, id); i >= 0 {
			pf := &d.PerspectiveFrames[i]
			if pf.ImageFilename == filename && pf.ImageBase64 == "" {
				return false
			}
			pf.ImageFilename = filename
			pf.ImageBase64 = ""
			return true
		}
		return false
	})
}

// Delete removes the entity owning the selection
func (e *Editor) Delete(sel Selection) bool {
	return e.mutate(func(d *Document) bool {
		return deleteSelection(d, sel)
	})
}

// BeginDrag opens a drag gesture
func (e *Editor) BeginDrag() {
	snapshot := e.doc.Clone()
	e.dragging = true
	e.pending = &snapshot
}

// EndDrag closes the drag gesture
func (e *Editor) EndDrag() {
	e.dragging = false
	e.pending = nil
}

// Drag moves the selected item by delta
func (e *Editor) Drag(sel Selection, delta geometry.Vector2) bool {
	if !e.dragging {
		return e.mutate(func(d *Document) bool {
			return Drag(d, sel, delta, e.cfg)
		})
	}
	next := e.doc.Clone()
	if !Drag(&next, sel, delta, e.cfg) {
		return false
	}
	if e.pending != nil {
		e.history.Push(*e.pending)
		e.pending = nil
	}
	e.doc = next
	return true
}

// Undo restores the previous snapshot
func (e *Editor) Undo() bool {
	prev, ok := e.history.Undo(e.doc)
	if !ok {
		return false
	}
	e.doc = prev
	return true
}

// Redo reapplies the last undone change
func (e *Editor) Redo() bool {
	next, ok := e.history.Redo(e.doc)
	if !ok {
		return false
	}
	e.doc = next
	return true
}

// CanUndo reports whether Undo would do anything
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would do anything
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// HistoryDepth returns the undo and redo stack sizes
func (e *Editor) HistoryDepth() (int, int) { return e.history.Len() }

func (e *Editor) mutate(fn func(d *Document) bool) bool {
	next := e.doc.Clone()
	if !fn(&next) {
		return false
	}
	e.history.Push(e.doc)
	e.doc = next
	return true
}

func deleteSelection(d *Document, sel Selection) bool {
	switch sel.Kind {
	case SelectionMeasurement, SelectionMeasurementEndpointA, SelectionMeasurementEndpointB:
		i := measurementIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		d.Measurements = slices.Delete(d.Measurements, i, i+1)
	case SelectionFrame, SelectionFrameResizeHandle:
		i := frameIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		d.Frames = slices.Delete(d.Frames, i, i+1)
	case SelectionPerspectiveFrame:
		i := perspectiveFrameIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		d.PerspectiveFrames = slices.Delete(d.PerspectiveFrames, i, i+1)
	case SelectionTextAnnotation:
		i := textIndex(d, sel.ID)
		if i < 0 {
			return false
		}
		d.TextAnnotations = slices.Delete(d.TextAnnotations, i, i+1)
	default:
		return false
	}
	return true
}
