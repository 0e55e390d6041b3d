package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/spf13/cobra"
)

var measureFrom, measureTo string

var measureCmd = &cobra.Command{
	Use:   "measure [id]",
	Short: "Add an estimated measurement to a snapshot",
	Long: `Add a two-point measurement in normalized image coordinates (0..1).
The distance is estimated from the snapshot's AR measurements, or from a
fixed fallback scale when there are none.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&measureFrom, "from", "", "first point as x,y")
	measureCmd.Flags().StringVar(&measureTo, "to", "", "second point as x,y")
	measureCmd.MarkFlagRequired("from")
	measureCmd.MarkFlagRequired("to")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	a, err := parsePoint(measureFrom)
	if err != nil {
		return err
	}
	b, err := parsePoint(measureTo)
	if err != nil {
		return err
	}

	return editDocument(cmd.Context(), args[0], func(s *app.EditSession) error {
		editor := s.Editor()
		sel := editor.AddMeasurement(a, b)
		m, _ := findMeasurement(editor.Document(), sel.ID)
		mpp, source := editor.Scale()

		fmt.Println("Measurement")
		fmt.Println("===========")
		fmt.Printf("ID: %s\n", m.ID)
		fmt.Printf("  From: %s\n", analysis.FormatPoint(m.PointA))
		fmt.Printf("  To: %s\n", analysis.FormatPoint(m.PointB))
		fmt.Printf("  Distance: %s\n", analysis.FormatMeters(m.DistanceMeters))
		fmt.Printf("  Scale: %.6f m/px (%s)\n", mpp, source)
		return nil
	})
}
