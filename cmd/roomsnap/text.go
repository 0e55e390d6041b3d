package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/spf13/cobra"
)

var (
	textAt    string
	textValue string
)

var textCmd = &cobra.Command{
	Use:   "text [id]",
	Short: "Add or change a text note on a snapshot",
	Long: `Add a text note at a point. When the point hits an existing note its text
is replaced instead. Notes left empty are dropped when the snapshot is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVar(&textAt, "at", "", "position as x,y")
	textCmd.Flags().StringVar(&textValue, "text", "", "note text")
	textCmd.MarkFlagRequired("at")
}

func runText(cmd *cobra.Command, args []string) error {
	at, err := parsePoint(textAt)
	if err != nil {
		return err
	}

	return editDocument(cmd.Context(), args[0], func(s *app.EditSession) error {
		editor := s.Editor()
		if sel := editor.SelectAt(at); sel.Kind == document.SelectionTextAnnotation {
			editor.SetText(sel.ID, textValue)
			fmt.Printf("Updated note %s\n", sel.ID)
			return nil
		}
		sel := editor.AddText(at, textValue)
		fmt.Printf("Added note %s\n", sel.ID)
		return nil
	})
}
