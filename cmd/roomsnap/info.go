package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/spf13/cobra"
)

var infoTop int

var infoCmd = &cobra.Command{
	Use:   "info [id]",
	Short: "Display information about a stored snapshot",
	Long:  "Show counts, the distance scale and the longest measurements of a stored annotation document.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().IntVar(&infoTop, "top", 5, "number of longest measurements to list")
}

func runInfo(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := st.LoadDocument(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	estimator := document.DistanceEstimator{FallbackMetersPerPixel: cfg.Edit.FallbackMetersPerPixel}
	result := analysis.Summarize(&d, estimator)

	fmt.Println("Snapshot Information")
	fmt.Println("====================")
	fmt.Printf("ID: %s\n", args[0])
	fmt.Printf("Captured: %s\n", d.CapturedAt.Format("2006-01-02 15:04:05"))
	if d.LastModified != nil {
		fmt.Printf("Modified: %s\n", d.LastModified.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Image: %.0f x %.0f px\n\n", result.ImageWidth, result.ImageHeight)

	fmt.Println("Scene:")
	fmt.Printf("  Planes: %d (%d vertical)\n", result.PlaneCount, result.VerticalPlanes)
	fmt.Printf("  Corners: %d\n", result.CornerCount)
	fmt.Printf("  Wall area: %.2f m²\n", result.WallArea)
	if d.LidarMetadata != nil {
		fmt.Printf("  LiDAR: %t\n", d.LidarMetadata.IsLiDARAvailable)
	}
	fmt.Println()

	fmt.Println("Annotations:")
	fmt.Printf("  Measurements: %d (%d from AR)\n", result.MeasurementCount, result.ARMeasurements)
	fmt.Printf("  Frames: %d (%d perspective)\n", result.FrameCount+result.PerspectiveFrames, result.PerspectiveFrames)
	fmt.Printf("  Notes: %d\n\n", result.TextCount)

	fmt.Println("Scale:")
	fmt.Printf("  %.6f m/px (%s)\n", result.MetersPerPixel, result.ScaleSource)

	if result.MeasurementCount > 0 {
		fmt.Println()
		fmt.Println("Measurements:")
		fmt.Printf("  Minimum: %s\n", analysis.FormatMeters(result.MinLength))
		fmt.Printf("  Maximum: %s\n", analysis.FormatMeters(result.MaxLength))
		fmt.Printf("  Average: %s\n", analysis.FormatMeters(result.AvgLength))
		for i, m := range analysis.FindLongestMeasurements(result, infoTop) {
			source := "estimated"
			if m.IsFromAR {
				source = "AR"
			}
			fmt.Printf("  %d. %s  %s  (%.0f px, %s)\n", i+1, m.ID, analysis.FormatMeters(m.DistanceMeters), m.PixelLength, source)
		}
	}
	return nil
}
