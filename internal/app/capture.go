// Package app wires the scan, capture and edit flows to persistence.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/philipparndt/roomsnap/pkg/capture"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/scene"
)

// Capturer freezes the tracker's scene through the session camera and
// stores the resulting document
type Capturer struct {
	Session   scene.Session
	Tracker   *scene.Tracker
	Projector *capture.Projector
	Store     Store
	Now       func() time.Time
	NewID     func() string
}

// NewCapturer creates a capturer with wall-clock time and v7 ids
func NewCapturer(session scene.Session, tracker *scene.Tracker, store Store) *Capturer {
	return &Capturer{
		Session:   session,
		Tracker:   tracker,
		Projector: capture.NewProjector(),
		Store:     store,
		Now:       time.Now,
		NewID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
}

// Capture projects the current scene and saves it under a new id. Nothing
// is stored when the session has no camera view or the camera is unusable.
func (c *Capturer) Capture(ctx context.Context) (string, document.Document, error) {
	frame, ok := c.Session.CurrentFrame()
	if !ok {
		return "", document.Document{}, fmt.Errorf("%w: no active camera frame", document.ErrCaptureUnavailable)
	}
	if err := capture.NewCamera(frame).Validate(); err != nil {
		return "", document.Document{}, fmt.Errorf("failed to capture: %w", err)
	}

	d := c.Projector.Project(capture.Scene{
		CapturedAt:   c.Now(),
		Camera:       frame,
		Planes:       c.Tracker.Planes(),
		Corners:      c.Tracker.Corners(),
		Measurements: c.Tracker.Measurements(),
		Frames:       c.Tracker.Frames(),
		LiDAR:        c.Session.LiDARAvailable(),
	})

	id := c.NewID()
	if err := c.Store.SaveDocument(ctx, d, id); err != nil {
		return "", document.Document{}, fmt.Errorf("failed to save capture: %w", err)
	}
	slog.Info("capture saved",
		"id", id,
		"planes", len(d.Planes),
		"corners", len(d.Corners),
		"measurements", len(d.Measurements),
		"frames", len(d.Frames)+len(d.PerspectiveFrames),
	)
	return id, d, nil
}
