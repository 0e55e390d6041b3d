package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/scene"
	"github.com/spf13/cobra"
)

var (
	watchDebounce time.Duration
	watchCapture  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [recording]",
	Short: "Follow a recording file and report corner changes",
	Long: `Watch a scan recording. Every saved version is diffed against the previous
one and applied as plane add, update and remove events; the detected corners
are printed after each change. With --capture a snapshot is stored each time.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "delay before reloading after a change")
	watchCmd.Flags().BoolVar(&watchCapture, "capture", false, "store a snapshot after every change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tracker := scene.NewTracker(cfg.Detector(), cfg.Snap())
	scanner := app.NewScanner(args[0], tracker)

	var capturer *app.Capturer
	if watchCapture {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		capturer = app.NewCapturer(nil, tracker, st)
	}

	report := func(update app.ScanUpdate) {
		fmt.Printf("%s  +%d ~%d -%d planes, %d corners\n",
			time.Now().Format("15:04:05"), update.Added, update.Updated, update.Removed, len(update.Corners))
		for _, c := range update.Corners {
			fmt.Printf("  %s  %.1f°  (%.3f, %.3f, %.3f)\n", c.ID, c.AngleDegrees, c.Position.X, c.Position.Y, c.Position.Z)
		}
		if capturer == nil {
			return
		}
		capturer.Session = scanner.Recording()
		id, _, err := capturer.Capture(ctx)
		if err != nil {
			slog.Warn("capture failed", "error", err)
			return
		}
		fmt.Printf("  captured %s\n", id)
	}

	update, err := scanner.Reload()
	if err != nil {
		return err
	}
	report(update)

	scanner.OnUpdate = report
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return scanner.Watch(ctx, watchDebounce)
}
