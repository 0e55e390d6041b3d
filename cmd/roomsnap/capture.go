package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/scene"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture [recording]",
	Short: "Capture a recorded scan into a stored snapshot",
	Long: `Replay a scan recording (planes, measurement taps and frame placements),
detect corners, project everything through the recorded camera and store the
resulting annotation document.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	rec, err := scene.LoadRecording(args[0])
	if err != nil {
		return err
	}

	tracker := scene.NewTracker(cfg.Detector(), cfg.Snap())
	stats := rec.Replay(tracker)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, d, err := app.NewCapturer(rec, tracker, st).Capture(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("Capture")
	fmt.Println("=======")
	fmt.Printf("ID: %s\n\n", id)
	fmt.Printf("  Planes: %d\n", len(d.Planes))
	fmt.Printf("  Corners: %d\n", len(d.Corners))
	fmt.Printf("  Measurements: %d\n", len(d.Measurements))
	fmt.Printf("  Frames: %d\n", len(d.Frames)+len(d.PerspectiveFrames))
	if stats.Missed > 0 {
		fmt.Printf("  Gestures missing every plane: %d\n", stats.Missed)
	}
	return nil
}
