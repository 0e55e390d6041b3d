package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/spf13/cobra"
)

var dragAt, dragBy string

var dragCmd = &cobra.Command{
	Use:   "drag [id]",
	Short: "Move the item under a point",
	Long: `Hit-test a point and move the item found there by a delta, both in normalized
image coordinates. Endpoints, notes and resize handles win over the shapes
beneath them. Results are clamped into the image.`,
	Args: cobra.ExactArgs(1),
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)

	dragCmd.Flags().StringVar(&dragAt, "at", "", "point to pick as x,y")
	dragCmd.Flags().StringVar(&dragBy, "by", "", "delta as dx,dy")
	dragCmd.MarkFlagRequired("at")
	dragCmd.MarkFlagRequired("by")
}

func runDrag(cmd *cobra.Command, args []string) error {
	at, err := parsePoint(dragAt)
	if err != nil {
		return err
	}
	delta, err := parsePoint(dragBy)
	if err != nil {
		return err
	}

	return editDocument(cmd.Context(), args[0], func(s *app.EditSession) error {
		editor := s.Editor()
		sel := editor.SelectAt(at)
		if sel.IsNone() {
			return fmt.Errorf("nothing at %s", analysis.FormatPoint(at))
		}
		if !editor.Drag(sel, delta) {
			fmt.Printf("%s did not move\n", sel)
			return nil
		}
		fmt.Printf("Moved %s\n", sel)
		if m, ok := findMeasurement(editor.Document(), sel.ID); ok {
			fmt.Printf("  Distance: %s\n", analysis.FormatMeters(m.DistanceMeters))
		}
		return nil
	})
}
