package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No snapshots stored")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  captured %s  updated %s\n",
			e.ID, e.CapturedAt.Format("2006-01-02 15:04"), e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
