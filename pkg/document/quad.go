package document

import (
	"encoding/json"
	"fmt"

	"github.com/philipparndt/roomsnap/pkg/geometry"
)

// Quad is four 2D points ordered TL, TR, BR, BL, serialized as [[x,y]×4]
type Quad [4]geometry.Vector2

// Points returns the corners as a slice
func (q Quad) Points() []geometry.Vector2 {
	return q[:]
}

// Contains reports whether p lies inside the quad (ray casting)
func (q Quad) Contains(p geometry.Vector2) bool {
	return geometry.PointInPolygon(p, q[:])
}

// Translate returns the quad moved by delta
func (q Quad) Translate(delta geometry.Vector2) Quad {
	var out Quad
	for i, p := range q {
		out[i] = p.Add(delta)
	}
	return out
}

// MarshalJSON encodes the quad as four [x,y] pairs
func (q Quad) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(q))
	for i, p := range q {
		pairs[i] = p.Array()
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes exactly four [x,y] pairs
func (q *Quad) UnmarshalJSON(data []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	if len(pairs) != 4 {
		return fmt.Errorf("quad needs 4 points, got %d", len(pairs))
	}
	for i, pair := range pairs {
		q[i] = geometry.NewVector2(pair[0], pair[1])
	}
	return nil
}

// PointList is a variable-length polygon serialized as [[x,y], ...]
type PointList []geometry.Vector2

// MarshalJSON encodes the list as [x,y] pairs
func (l PointList) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(l))
	for i, p := range l {
		pairs[i] = p.Array()
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes [x,y] pairs
func (l *PointList) UnmarshalJSON(data []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	out := make(PointList, len(pairs))
	for i, pair := range pairs {
		out[i] = geometry.NewVector2(pair[0], pair[1])
	}
	*l = out
	return nil
}

// UnmarshalJSON accepts a missing, null or empty projectedVertices as the
// zero quad, for planes stored without a projection
func (p *PlaneRecord) UnmarshalJSON(data []byte) error {
	type plain PlaneRecord
	var raw struct {
		plain
		ProjectedVertices json.RawMessage `json:"projectedVertices"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PlaneRecord(raw.plain)

	if len(raw.ProjectedVertices) == 0 {
		return nil
	}
	var points []json.RawMessage
	if err := json.Unmarshal(raw.ProjectedVertices, &points); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	return json.Unmarshal(raw.ProjectedVertices, &p.ProjectedVertices)
}
