package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serializes a document to indented JSON
func Encode(d Document) ([]byte, error) {
	data, err := json.MarshalIndent(d.Normalized(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal document: %w", ErrSerialization, err)
	}
	return data, nil
}

// Decode parses and validates a serialized document
func Decode(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("%w: failed to parse document: %w", ErrSerialization, err)
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d.Normalized(), nil
}

// Normalized returns a copy ready to persist: empty text annotations are
// dropped and missing arrays become empty arrays.
func (d Document) Normalized() Document {
	out := d.Clone()
	texts := make([]TextAnnotation, 0, len(out.TextAnnotations))
	for _, t := range out.TextAnnotations {
		if strings.TrimSpace(t.Text) != "" {
			texts = append(texts, t)
		}
	}
	out.TextAnnotations = texts
	if out.ImageScale <= 0 {
		out.ImageScale = 1
	}
	return out
}

// Validate checks the structural invariants: ids are unique within each
// entity list and distances are not negative.
func (d *Document) Validate() error {
	check := func(kind string, ids []string) error {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("%w: %s with empty id", ErrSerialization, kind)
			}
			if seen[id] {
				return fmt.Errorf("%w: duplicate %s id %q", ErrSerialization, kind, id)
			}
			seen[id] = true
		}
		return nil
	}

	ids := func(n int, id func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = id(i)
		}
		return out
	}

	if err := check("plane", ids(len(d.Planes), func(i int) string { return d.Planes[i].ID })); err != nil {
		return err
	}
	if err := check("corner", ids(len(d.Corners), func(i int) string { return d.Corners[i].ID })); err != nil {
		return err
	}
	if err := check("wall dimension", ids(len(d.WallDimensions), func(i int) string { return d.WallDimensions[i].ID })); err != nil {
		return err
	}
	if err := check("measurement", ids(len(d.Measurements), func(i int) string { return d.Measurements[i].ID })); err != nil {
		return err
	}
	if err := check("frame", ids(len(d.Frames), func(i int) string { return d.Frames[i].ID })); err != nil {
		return err
	}
	if err := check("perspective frame", ids(len(d.PerspectiveFrames), func(i int) string { return d.PerspectiveFrames[i].ID })); err != nil {
		return err
	}
	if err := check("text annotation", ids(len(d.TextAnnotations), func(i int) string { return d.TextAnnotations[i].ID })); err != nil {
		return err
	}

	for _, m := range d.Measurements {
		if m.DistanceMeters < 0 {
			return fmt.Errorf("%w: measurement %s has negative distance", ErrSerialization, m.ID)
		}
	}
	return nil
}
