package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/history"
	"github.com/tanq16/ruantools/internal/output"
	"github.com/tanq16/ruantools/internal/utils"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the recent download history",
		Args:  cobra.NoArgs,
		Run:   func(cmd *cobra.Command, args []string) { listHistory() },
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the most recent downloads, newest first",
		Args:  cobra.NoArgs,
		Run:   func(cmd *cobra.Command, args []string) { listHistory() },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recorded downloads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := openHistory()
			defer store.Close()
			if err := store.Clear(); err != nil {
				output.PrintError(fmt.Sprintf("Error clearing history: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess("Download history cleared")
		},
	})
	return cmd
}

func openHistory() *history.BadgerStore {
	store, err := history.Open(historyPath)
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
	return store
}

func listHistory() {
	store := openHistory()
	defer store.Close()
	entries, err := store.List()
	if err != nil {
		output.PrintError(fmt.Sprintf("Error reading history: %v", err))
		os.Exit(1)
	}
	if len(entries) == 0 {
		output.PrintInfo("No downloads recorded yet")
		return
	}
	output.PrintHeader("Recent downloads")
	for i, e := range entries {
		output.PrintDetail(fmt.Sprintf("%2d. %s", i+1, e.Filename))
		output.PrintKV("url", e.URL)
		output.PrintKV("size", utils.FormatBytes(uint64(max(0, e.Size))))
		output.PrintKV("when", e.Timestamp.Local().Format(time.DateTime))
	}
}
