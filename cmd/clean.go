package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/output"
	"github.com/tanq16/ruantools/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [path]",
		Short: "Clean up temporary part files left by interrupted downloads",
		Long: `Clean up temporary part files. With a directory (default ".") the whole
temp directory inside it is removed; with a file path only that file's parts are.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			var err error
			if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
				err = utils.CleanTempDir(target)
			} else {
				err = utils.CleanPartFiles(target)
			}
			if err != nil {
				output.PrintError(fmt.Sprintf("Error cleaning up temporary files: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess("Temporary files cleaned up")
		},
	}
}
