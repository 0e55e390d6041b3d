package main

import (
	"fmt"

	"github.com/philipparndt/roomsnap/internal/app"
	"github.com/philipparndt/roomsnap/pkg/analysis"
	"github.com/spf13/cobra"
)

var deleteAt string

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a snapshot or the item under a point",
	Long: `Without --at the whole snapshot and its images are deleted. With --at the
item found at that point is removed from the snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteAt, "at", "", "point of the item to delete as x,y")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	if deleteAt == "" {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.DeleteDocument(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", id)
		return nil
	}

	at, err := parsePoint(deleteAt)
	if err != nil {
		return err
	}
	return editDocument(cmd.Context(), id, func(s *app.EditSession) error {
		sel := s.Editor().SelectAt(at)
		if sel.IsNone() || !s.Editor().Delete(sel) {
			return fmt.Errorf("nothing at %s", analysis.FormatPoint(at))
		}
		fmt.Printf("Deleted %s\n", sel)
		return nil
	})
}
