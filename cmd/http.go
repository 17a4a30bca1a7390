package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/output"
	"github.com/tanq16/ruantools/internal/utils"
)

func newDownloadCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:     "download [URL] [--output OUTPUT_PATH]",
		Aliases: []string{"http"},
		Short:   "Download a file over HTTP/HTTPS using concurrent range requests",
		Long: `Download a file over HTTP/HTTPS. Servers that accept byte ranges and files
larger than 1 MiB are fetched with --connections concurrent range requests.
The output may be a file, a directory, or an s3://bucket/key destination.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			job := newHTTPJob(args[0], outputPath)
			if err := runJobs([]utils.Job{job}); err != nil {
				output.PrintError("Download failed")
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path, directory or s3:// destination")
	return cmd
}

func newHTTPJob(url, outputPath string) utils.Job {
	return utils.Job{
		JobType:          "http",
		URL:              url,
		OutputPath:       outputPath,
		Connections:      connections,
		ProgressType:     "progress",
		HTTPClientConfig: globalHTTPConfig,
		Metadata:         map[string]any{"profile": awsProfile},
	}
}
