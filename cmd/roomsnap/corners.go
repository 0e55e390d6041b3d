package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/pkg/scene"
	"github.com/spf13/cobra"
)

var cornersCmd = &cobra.Command{
	Use:   "corners [recording]",
	Short: "List the wall corners detected in a recording",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorners,
}

func init() {
	rootCmd.AddCommand(cornersCmd)
}

func runCorners(cmd *cobra.Command, args []string) error {
	rec, err := scene.LoadRecording(args[0])
	if err != nil {
		return err
	}

	tracker := scene.NewTracker(cfg.Detector(), cfg.Snap())
	for _, event := range rec.Events() {
		tracker.HandleEvent(event)
	}

	planes := tracker.Planes()
	corners := tracker.Corners()
	fmt.Printf("Planes: %d (%d vertical)\n", len(planes), len(scene.FilterVertical(planes)))
	fmt.Printf("Corners: %d\n\n", len(corners))
	for i, c := range corners {
		fmt.Printf("%d. %s\n", i+1, c.ID)
		fmt.Printf("   Position: (%.3f, %.3f, %.3f)\n", c.Position.X, c.Position.Y, c.Position.Z)
		fmt.Printf("   Angle: %.1f°\n", c.AngleDegrees)
		fmt.Printf("   Walls: %s, %s\n", c.PlaneIDA, c.PlaneIDB)
	}
	return nil
}
