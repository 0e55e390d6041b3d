package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
	"github.com/philipparndt/roomsnap/pkg/scene"
)

type memoryStore struct {
	docs   map[string]document.Document
	images map[string]image.Image
	fail   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		docs:   make(map[string]document.Document),
		images: make(map[string]image.Image),
	}
}

func (m *memoryStore) SaveDocument(_ context.Context, d document.Document, id string) error {
	if m.fail != nil {
		return m.fail
	}
	m.docs[id] = d.Clone()
	return nil
}

func (m *memoryStore) LoadDocument(_ context.Context, id string) (document.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return document.Document{}, fmt.Errorf("%w: %s", document.ErrNotFound, id)
	}
	return d.Clone(), nil
}

func (m *memoryStore) SaveImage(img image.Image, captureID, entityID string) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	name := entityID + ".png"
	m.images[captureID+"/"+name] = img
	return name, nil
}

func (m *memoryStore) LoadImage(captureID, filename string) (image.Image, error) {
	img, ok := m.images[captureID+"/"+filename]
	if !ok {
		return nil, document.ErrNotFound
	}
	return img, nil
}

func testRecording() *scene.Recording {
	return &scene.Recording{
		Camera: &scene.CameraFrame{
			Intrinsics:  geometry.Intrinsics(1000, 1000, 500, 750),
			Transform:   geometry.Identity4(),
			ImageWidth:  1000,
			ImageHeight: 1500,
		},
		LiDAR: true,
		Planes: []scene.Plane{
			scene.NewVerticalPlane("wall", geometry.NewVector3(0, 0, -3), geometry.NewVector3(0, 0, 1), 2, 1.5),
		},
		Measurements: []scene.MeasureGesture{
			{From: geometry.NewVector2(0.3, 0.5), To: geometry.NewVector2(0.7, 0.5)},
		},
	}
}

func TestCaptureStoresProjectedDocument(t *testing.T) {
	rec := testRecording()
	tracker := scene.NewTracker(scene.DefaultDetectorConfig(), scene.DefaultSnapConfig())
	stats := rec.Replay(tracker)
	if stats.Measurements != 1 {
		t.Fatalf("Replay failed: expected 1 measurement, got %+v", stats)
	}

	store := newMemoryStore()
	c := NewCapturer(rec, tracker, store)
	c.NewID = func() string { return "capture-1" }

	id, d, err := c.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if id != "capture-1" {
		t.Errorf("Capture failed: expected id capture-1, got %s", id)
	}
	if _, ok := store.docs[id]; !ok {
		t.Fatal("Capture failed: document not stored")
	}
	if len(d.Planes) != 1 || len(d.Measurements) != 1 || !d.Measurements[0].IsFromAR {
		t.Errorf("Capture failed: unexpected document %+v", d)
	}
	// 0.4 of the image width at 3 m depth with fx=1000 spans 1.2 m
	if m := d.Measurements[0]; m.DistanceMeters < 1.19 || m.DistanceMeters > 1.21 {
		t.Errorf("Capture failed: expected about 1.2 m, got %v", m.DistanceMeters)
	}
}

func TestCaptureUnavailable(t *testing.T) {
	rec := testRecording()
	rec.Camera = nil
	store := newMemoryStore()
	c := NewCapturer(rec, scene.NewTracker(scene.DefaultDetectorConfig(), scene.DefaultSnapConfig()), store)

	_, _, err := c.Capture(context.Background())
	if !errors.Is(err, document.ErrCaptureUnavailable) {
		t.Errorf("Capture failed: expected ErrCaptureUnavailable, got %v", err)
	}
	if len(store.docs) != 0 {
		t.Error("Capture failed: expected nothing stored")
	}

	rec = testRecording()
	rec.Camera.Intrinsics = geometry.Intrinsics(0, 0, 0, 0)
	c.Session = rec
	if _, _, err := c.Capture(context.Background()); !errors.Is(err, document.ErrDegenerateGeometry) {
		t.Errorf("Capture failed: expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestCaptureStorageFailure(t *testing.T) {
	rec := testRecording()
	store := newMemoryStore()
	store.fail = fmt.Errorf("%w: disk full", document.ErrStorage)
	c := NewCapturer(rec, scene.NewTracker(scene.DefaultDetectorConfig(), scene.DefaultSnapConfig()), store)

	if _, _, err := c.Capture(context.Background()); !errors.Is(err, document.ErrStorage) {
		t.Errorf("Capture failed: expected ErrStorage, got %v", err)
	}
}

func TestEditSessionCommitAndDiscard(t *testing.T) {
	store := newMemoryStore()
	store.docs["doc"] = document.New(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	s, err := OpenSession(ctx, store, "doc", document.DefaultEditConfig())
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	committedAt := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return committedAt }

	s.Editor().AddText(geometry.NewVector2(0.5, 0.5), "keep")
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	stored := store.docs["doc"]
	if len(stored.TextAnnotations) != 1 || stored.LastModified == nil || !stored.LastModified.Equal(committedAt) {
		t.Errorf("Commit failed: unexpected stored document %+v", stored)
	}
	if s.Editor().CanUndo() {
		t.Error("Commit failed: expected history cleared")
	}

	s.Editor().AddText(geometry.NewVector2(0.2, 0.2), "drop")
	if err := s.Discard(ctx); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if got := len(s.Editor().Document().TextAnnotations); got != 1 {
		t.Errorf("Discard failed: expected 1 annotation, got %d", got)
	}
}

func TestOpenSessionMissing(t *testing.T) {
	_, err := OpenSession(context.Background(), newMemoryStore(), "missing", document.DefaultEditConfig())
	if !errors.Is(err, document.ErrNotFound) {
		t.Errorf("OpenSession failed: expected ErrNotFound, got %v", err)
	}
}

func TestAttachImage(t *testing.T) {
	store := newMemoryStore()
	store.docs["doc"] = document.New(time.Now())
	s, err := OpenSession(context.Background(), store, "doc", document.DefaultEditConfig())
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	sel := s.Editor().PlaceFrame(geometry.NewVector2(0.5, 0.5))
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := s.AttachImage(img, sel.ID); err != nil {
		t.Fatalf("AttachImage failed: %v", err)
	}
	f := s.Editor().Document().Frames[0]
	if f.ImageFilename != sel.ID+".png" {
		t.Errorf("AttachImage failed: expected filename %s.png, got %s", sel.ID, f.ImageFilename)
	}
	if _, err := s.FrameImage(f.ImageFilename); err != nil {
		t.Errorf("FrameImage failed: %v", err)
	}

	if err := s.AttachImage(img, "missing"); !errors.Is(err, document.ErrNotFound) {
		t.Errorf("AttachImage failed: expected ErrNotFound, got %v", err)
	}
}

func writeRecording(t *testing.T, path string, rec *scene.Recording) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestScannerReloadDiffsPlanes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	rec := testRecording()
	writeRecording(t, path, rec)

	tracker := scene.NewTracker(scene.DefaultDetectorConfig(), scene.DefaultSnapConfig())
	s := NewScanner(path, tracker)

	update, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if update.Added != 1 || update.Updated != 0 || update.Removed != 0 {
		t.Errorf("Reload failed: unexpected update %+v", update)
	}

	// Second wall meeting the first at a right angle, 0.5 m apart
	rec.Planes = []scene.Plane{
		scene.NewVerticalPlane("wall", geometry.NewVector3(0, 1, 0), geometry.NewVector3(1, 0, 0), 1, 2),
		scene.NewVerticalPlane("side", geometry.NewVector3(0.5, 1, -0.5), geometry.NewVector3(0, 0, 1), 1, 2),
	}
	writeRecording(t, path, rec)

	update, err = s.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if update.Added != 1 || update.Updated != 1 {
		t.Errorf("Reload failed: unexpected update %+v", update)
	}
	if len(update.Corners) != 1 {
		t.Errorf("Reload failed: expected 1 corner, got %d", len(update.Corners))
	}
	if s.Recording() == nil || len(s.Recording().Planes) != 2 {
		t.Error("Recording failed: expected the latest recording")
	}

	rec.Planes = rec.Planes[1:]
	writeRecording(t, path, rec)
	update, _ = s.Reload()
	if update.Removed != 1 || len(update.Corners) != 0 {
		t.Errorf("Reload failed: expected removal without corners, got %+v", update)
	}
}

func TestScannerRefreshRunsUpdatesOneAtATime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	writeRecording(t, path, testRecording())

	s := NewScanner(path, scene.NewTracker(scene.DefaultDetectorConfig(), scene.DefaultSnapConfig()))
	var running, overlaps, calls atomic.Int32
	s.OnUpdate = func(ScanUpdate) {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		calls.Add(1)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.refresh(path)
		}()
	}
	wg.Wait()

	if calls.Load() != 8 {
		t.Errorf("refresh failed: expected 8 updates, got %d", calls.Load())
	}
	if overlaps.Load() != 0 {
		t.Errorf("refresh failed: expected serialized updates, got %d overlaps", overlaps.Load())
	}
}
