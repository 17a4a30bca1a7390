package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/history"
	"github.com/tanq16/ruantools/internal/output"
	"github.com/tanq16/ruantools/internal/scheduler"
	"github.com/tanq16/ruantools/internal/utils"
)

const maxTotalConnections = 64

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process multiple downloads from a YAML file",
		Long: `Process multiple downloads from a YAML file grouped by job type:

  http:
    - link: https://example.com/a.zip
      op: downloads/a.zip
    - link: https://example.com/b.iso`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := utils.ReadDownloadList(args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			if len(entries) == 0 {
				output.PrintError("No valid jobs found in the batch file")
				os.Exit(1)
			}
			perJob := connections
			if workers*perJob > maxTotalConnections {
				perJob = max(maxTotalConnections/workers, 1)
			}
			jobs := make([]utils.Job, 0, len(entries))
			for _, entry := range entries {
				job := newHTTPJob(entry.URL, entry.OutputPath)
				job.JobType = entry.Type
				job.Connections = perJob
				jobs = append(jobs, job)
			}
			if err := runJobs(jobs); err != nil {
				output.PrintError("Encountered failed operation(s)")
				os.Exit(1)
			}
		},
	}
	return cmd
}

// runJobs runs jobs on the scheduler with history recording. A history
// database that cannot be opened only costs the history entry.
func runJobs(jobs []utils.Job) error {
	ctx, stop := signalContext()
	defer stop()

	opts := scheduler.Options{Workers: workers}
	if store, err := history.Open(historyPath); err != nil {
		log.Warn().Str("op", "cmd/batch").Err(err).Msg("download history disabled")
	} else {
		defer store.Close()
		opts.History = store
	}
	for i := range jobs {
		jobs[i].ID = fmt.Sprintf("job-%d", i+1)
	}
	return scheduler.Run(ctx, jobs, opts)
}
