// Package store persists annotation documents in SQLite and frame images
// on the filesystem.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/roomsnap/pkg/document"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	captured_at TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	payload     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_captured_at ON documents(captured_at);
`

// Entry is one stored document as listed
type Entry struct {
	ID         string
	CapturedAt time.Time
	UpdatedAt  time.Time
}

// Store is the persistence collaborator
type Store struct {
	db       *sql.DB
	imageDir string
	maxDim   int
	now      func() time.Time
}

// Options configures Open
type Options struct {
	DBPath            string
	ImageDir          string
	MaxImageDimension int
}

// Open opens (or creates) the document database and image directory
func Open(opts Options) (*Store, error) {
	if opts.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(opts.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("%w: failed to create database directory: %w", document.ErrStorage, err)
		}
	}
	if err := os.MkdirAll(opts.ImageDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create image directory: %w", document.ErrStorage, err)
	}

	db, err := sql.Open("sqlite", opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", document.ErrStorage, err)
	}
	if opts.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range append(pragmas, schema) {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: failed to initialize database: %w", document.ErrStorage, err)
		}
	}

	return &Store{
		db:       db,
		imageDir: opts.ImageDir,
		maxDim:   opts.MaxImageDimension,
		now:      time.Now,
	}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument inserts or replaces the document stored under id
func (s *Store) SaveDocument(ctx context.Context, d document.Document, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	payload, err := document.Encode(d)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, captured_at, updated_at, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET captured_at = excluded.captured_at,
			updated_at = excluded.updated_at, payload = excluded.payload`,
		id, d.CapturedAt.UTC().Format(time.RFC3339Nano), s.now().UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to save document %s: %w", document.ErrStorage, id, err)
	}
	slog.Debug("document saved", "id", id, "measurements", len(d.Measurements), "frames", len(d.Frames)+len(d.PerspectiveFrames))
	return nil
}

// LoadDocument returns the document stored under id
func (s *Store) LoadDocument(ctx context.Context, id string) (document.Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, fmt.Errorf("%w: %s", document.ErrNotFound, id)
	}
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: failed to load document %s: %w", document.ErrStorage, id, err)
	}
	return document.Decode([]byte(payload))
}

// DeleteDocument removes a document and its images
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete document %s: %w", document.ErrStorage, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", document.ErrNotFound, id)
	}
	if err := os.RemoveAll(filepath.Join(s.imageDir, id)); err != nil {
		return fmt.Errorf("%w: failed to delete images of %s: %w", document.ErrStorage, id, err)
	}
	return nil
}

// List returns all stored documents, newest capture first
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, captured_at, updated_at FROM documents ORDER BY captured_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list documents: %w", document.ErrStorage, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var captured, updated string
		if err := rows.Scan(&e.ID, &captured, &updated); err != nil {
			return nil, fmt.Errorf("%w: failed to read document row: %w", document.ErrStorage, err)
		}
		e.CapturedAt, _ = time.Parse(time.RFC3339Nano, captured)
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list documents: %w", document.ErrStorage, err)
	}
	return entries, nil
}

// validID keeps ids usable as a single path element
func validID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return fmt.Errorf("%w: invalid id %q", document.ErrStorage, id)
	}
	return nil
}
