package document

import "errors"

// Failure classes reported to callers. Geometry problems are normally
// absorbed by fallbacks; these surface only where a caller must react.
var (
	// ErrCaptureUnavailable: no active sensor session or camera view at capture time.
	ErrCaptureUnavailable = errors.New("capture unavailable")
	// ErrDegenerateGeometry: input geometry too degenerate to produce any result.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrSerialization: a document could not be encoded or decoded.
	ErrSerialization = errors.New("serialization failure")
	// ErrStorage: the persistence collaborator failed.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound: no document stored under the requested id.
	ErrNotFound = errors.New("document not found")
)
