package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/philipparndt/roomsnap/pkg/scene"
	"github.com/philipparndt/roomsnap/pkg/watcher"
)

// ScanUpdate summarizes one reload of a recording
type ScanUpdate struct {
	Added   int
	Updated int
	Removed int
	Corners []scene.Corner
}

// Scanner keeps a tracker in sync with a recording file, turning each
// saved version of the file into plane add, update and remove events.
// While watching, a reload and its OnUpdate call run one at a time, so
// OnUpdate may read the tracker without further locking.
type Scanner struct {
	Path     string
	OnUpdate func(ScanUpdate)

	// held across a reload and its OnUpdate call
	updateMu sync.Mutex

	mu        sync.Mutex
	tracker   *scene.Tracker
	recording *scene.Recording
}

// NewScanner creates a scanner feeding tracker from the recording at path
func NewScanner(path string, tracker *scene.Tracker) *Scanner {
	return &Scanner{
		Path:    path,
		tracker: tracker,
	}
}

// Reload reads the recording and applies the plane changes since the
// previous load
func (s *Scanner) Reload() (ScanUpdate, error) {
	rec, err := scene.LoadRecording(s.Path)
	if err != nil {
		return ScanUpdate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var update ScanUpdate
	for _, event := range scene.DiffPlanes(s.tracker.Planes(), rec.Planes) {
		if !s.tracker.HandleEvent(event) {
			continue
		}
		switch event.Kind {
		case scene.PlaneAdded:
			update.Added++
		case scene.PlaneUpdated:
			update.Updated++
		case scene.PlaneRemoved:
			update.Removed++
		}
	}
	s.recording = rec
	update.Corners = s.tracker.Corners()
	return update, nil
}

// Recording returns the last loaded recording, nil before the first Reload
func (s *Scanner) Recording() *scene.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Watch reloads on every change of the recording file until ctx ends
func (s *Scanner) Watch(ctx context.Context, debounce time.Duration) error {
	fw, err := watcher.NewFileWatcher(debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	err = fw.Watch([]string{s.Path}, s.refresh)
	if err != nil {
		return err
	}
	fw.Start()

	<-ctx.Done()
	return nil
}

// refresh reloads after a change of path and reports the update. Debounce
// timers fire on their own goroutines, so calls are serialized here.
func (s *Scanner) refresh(path string) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	update, err := s.Reload()
	if err != nil {
		slog.Warn("reload failed", "path", path, "error", err)
		return
	}
	slog.Info("recording reloaded",
		"path", path,
		"added", update.Added,
		"updated", update.Updated,
		"removed", update.Removed,
		"corners", len(update.Corners),
	)
	if s.OnUpdate != nil {
		s.OnUpdate(update)
	}
}
