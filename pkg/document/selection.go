package document

import "fmt"

// SelectionKind enumerates every selectable entity part. Switches over it in
// HitTest, Drag and Delete cover all kinds; add new kinds there too.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionMeasurement
	SelectionMeasurementEndpointA
	SelectionMeasurementEndpointB
	SelectionFrame
	SelectionFrameResizeHandle
	SelectionPerspectiveFrame
	SelectionTextAnnotation
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionNone:
		return "none"
	case SelectionMeasurement:
		return "measurement"
	case SelectionMeasurementEndpointA:
		return "measurement-endpoint-a"
	case SelectionMeasurementEndpointB:
		return "measurement-endpoint-b"
	case SelectionFrame:
		return "frame"
	case SelectionFrameResizeHandle:
		return "frame-resize-handle"
	case SelectionPerspectiveFrame:
		return "perspective-frame"
	case SelectionTextAnnotation:
		return "text-annotation"
	default:
		return fmt.Sprintf("SelectionKind(%d)", int(k))
	}
}

// Selection is the tagged reference to one selectable item: the kind plus
// the id of the owning entity. It is recomputed on every interaction.
type Selection struct {
	Kind SelectionKind
	ID   string
}

// NoSelection is the empty selection
var NoSelection = Selection{Kind: SelectionNone}

// IsNone reports whether nothing is selected
func (s Selection) IsNone() bool {
	return s.Kind == SelectionNone
}

func (s Selection) String() string {
	if s.IsNone() {
		return "none"
	}
	return s.Kind.String() + ":" + s.ID
}
