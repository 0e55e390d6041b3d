package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/philipparndt/roomsnap/pkg/document"
)

// EditSession edits one stored document. Changes live in the editor until
// Commit persists them; Discard drops them by reloading the last commit.
type EditSession struct {
	ID  string
	Now func() time.Time

	store  Store
	editor *document.Editor
}

// OpenSession loads a document for editing
func OpenSession(ctx context.Context, store Store, id string, cfg document.EditConfig) (*EditSession, error) {
	d, err := store.LoadDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}
	return &EditSession{
		ID:     id,
		Now:    time.Now,
		store:  store,
		editor: document.NewEditor(d, cfg),
	}, nil
}

// Editor returns the editing surface
func (s *EditSession) Editor() *document.Editor {
	return s.editor
}

// Commit stamps lastModified and persists the document. The editor's
// history is cleared once the document is stored.
func (s *EditSession) Commit(ctx context.Context) error {
	d := s.editor.Document()
	now := s.Now()
	d.LastModified = &now

	if err := s.store.SaveDocument(ctx, d, s.ID); err != nil {
		return fmt.Errorf("failed to commit %s: %w", s.ID, err)
	}
	s.editor.Reset(d)
	slog.Info("document committed", "id", s.ID, "measurements", len(d.Measurements))
	return nil
}

// Discard drops uncommitted changes
func (s *EditSession) Discard(ctx context.Context) error {
	d, err := s.store.LoadDocument(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", s.ID, err)
	}
	s.editor.Reset(d)
	slog.Debug("edits discarded", "id", s.ID)
	return nil
}

// AttachImage stores img and links it to a frame or perspective frame
func (s *EditSession) AttachImage(img image.Image, entityID string) error {
	filename, err := s.store.SaveImage(img, s.ID, entityID)
	if err != nil {
		return fmt.Errorf("failed to attach image to %s: %w", entityID, err)
	}
	if !s.editor.SetFrameImage(entityID, filename) {
		return fmt.Errorf("%w: no frame %s in %s", document.ErrNotFound, entityID, s.ID)
	}
	return nil
}

// FrameImage loads the image attached to a frame, if any
func (s *EditSession) FrameImage(filename string) (image.Image, error) {
	return s.store.LoadImage(s.ID, filename)
}
