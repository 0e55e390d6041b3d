package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/internal/config"
	"github.com/philipparndt/roomsnap/internal/logging"
	"github.com/philipparndt/roomsnap/internal/store"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
	"github.com/philipparndt/roomsnap/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "roomsnap",
	Short: "Capture room scans and annotate them offsite",
	Long: `roomsnap turns recorded room scans into annotated snapshots.
It detects wall corners, projects measurements and picture frames into the
captured image, and edits the stored snapshot with estimated distances.`,
	Version:           version.GetFullVersion(),
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "roomsnap.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	_, err = logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore() (*store.Store, error) {
	return store.Open(store.Options{
		DBPath:            cfg.Storage.DBPath,
		ImageDir:          cfg.Storage.ImageDir,
		MaxImageDimension: cfg.Storage.MaxImageDimension,
	})
}

// editDocument runs fn on an edit session of the stored document and
// commits the result
func editDocument(ctx context.Context, id string, fn func(s *app.EditSession) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	session, err := app.OpenSession(ctx, st, id, cfg.Editing())
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	if !session.Editor().CanUndo() {
		slog.Info("nothing changed", "id", id)
		return nil
	}
	return session.Commit(ctx)
}

// parsePoint parses "x,y" in normalized image coordinates
func parsePoint(s string) (geometry.Vector2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Vector2{}, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Vector2{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Vector2{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return geometry.NewVector2(x, y), nil
}

func findMeasurement(d document.Document, id string) (document.Measurement, bool) {
	for _, m := range d.Measurements {
		if m.ID == id {
			return m, true
		}
	}
	return document.Measurement{}, false
}
