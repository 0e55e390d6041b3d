package app

import (
	"context"
	"image"

	"github.com/philipparndt/roomsnap/pkg/document"
)

// Store is the persistence collaborator used by capture and editing
type Store interface {
	SaveDocument(ctx context.Context, d document.Document, id string) error
	LoadDocument(ctx context.Context, id string) (document.Document, error)
	SaveImage(img image.Image, captureID, entityID string) (string, error)
	LoadImage(captureID, filename string) (image.Image, error)
}
