package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/spf13/cobra"
)

var (
	frameAt    string
	frameLabel string
	frameImage string
)

var frameCmd = &cobra.Command{
	Use:   "frame [id]",
	Short: "Place a picture frame on a snapshot",
	Long: `Place a frame at a tapped point. Inside a wall's projected outline the frame
follows the wall's perspective; elsewhere it is an axis-aligned rectangle.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrame,
}

func init() {
	rootCmd.AddCommand(frameCmd)

	frameCmd.Flags().StringVar(&frameAt, "at", "", "tap point as x,y")
	frameCmd.Flags().StringVar(&frameLabel, "label", "", "frame label")
	frameCmd.Flags().StringVar(&frameImage, "image", "", "PNG or JPEG image to show in the frame")
	frameCmd.MarkFlagRequired("at")
}

func runFrame(cmd *cobra.Command, args []string) error {
	tap, err := parsePoint(frameAt)
	if err != nil {
		return err
	}

	var img image.Image
	if frameImage != "" {
		img, err = loadImageFile(frameImage)
		if err != nil {
			return err
		}
	}

	return editDocument(cmd.Context(), args[0], func(s *app.EditSession) error {
		editor := s.Editor()
		sel := editor.PlaceFrame(tap)
		if frameLabel != "" {
			editor.SetLabel(sel.ID, frameLabel)
		}
		if img != nil {
			if err := s.AttachImage(img, sel.ID); err != nil {
				return err
			}
		}

		fmt.Printf("Placed %s %s at %s\n", sel.Kind, sel.ID, analysis.FormatPoint(tap))
		if sel.Kind == document.SelectionPerspectiveFrame {
			for _, pf := range editor.Document().PerspectiveFrames {
				if pf.ID == sel.ID {
					fmt.Printf("  Wall: %s\n", pf.PlaneID)
					fmt.Printf("  Size: %s x %s\n", analysis.FormatMeters(pf.WidthMeters), analysis.FormatMeters(pf.HeightMeters))
				}
			}
		}
		return nil
	})
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
