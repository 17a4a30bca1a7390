package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	ruanhttp "github.com/tanq16/ruantools/internal/downloaders/http"
	"github.com/tanq16/ruantools/internal/history"
	"github.com/tanq16/ruantools/internal/output"
	"github.com/tanq16/ruantools/internal/utils"
)

// downloaderRegistry maps job types to their downloader implementations.
var downloaderRegistry = map[string]utils.Downloader{
	"http": &ruanhttp.HTTPDownloader{},
}

// Reporter is the part of output.Manager the workers drive.
type Reporter interface {
	RegisterFunction(label string) int
	SetMessage(id int, message string)
	SetProgress(id int, p utils.Progress)
	Complete(id int, message string)
	ReportError(id int, err error)
}

type Options struct {
	Workers  int
	History  history.Store
	Reporter Reporter
}

// Run feeds jobs to a fixed pool of workers and waits for all of them. A
// failed job never stops the others; every failure is joined into the
// returned error.
func Run(ctx context.Context, jobs []utils.Job, opts Options) error {
	reporter := opts.Reporter
	if reporter == nil {
		mgr := output.NewManager()
		mgr.StartDisplay()
		defer mgr.StopDisplay()
		reporter = mgr
	}
	numWorkers := max(1, min(opts.Workers, len(jobs)))

	jobCh := make(chan utils.Job, len(jobs))
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if err := processJob(ctx, job, reporter, opts.History); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", job.URL, err))
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func processJob(ctx context.Context, job utils.Job, reporter Reporter, store history.Store) error {
	label := job.URL
	if job.OutputPath != "" {
		label = job.OutputPath
	}
	funcID := reporter.RegisterFunction(label)
	if job.Metadata == nil {
		job.Metadata = make(map[string]any)
	}

	downloader, exists := downloaderRegistry[job.JobType]
	if !exists {
		err := fmt.Errorf("unknown job type: %s", job.JobType)
		reporter.ReportError(funcID, err)
		return err
	}
	if err := ctx.Err(); err != nil {
		reporter.ReportError(funcID, err)
		return err
	}

	reporter.SetMessage(funcID, fmt.Sprintf("Validating %s", job.URL))
	if err := downloader.ValidateJob(&job); err != nil {
		reporter.ReportError(funcID, fmt.Errorf("validation failed: %w", err))
		return err
	}
	reporter.SetMessage(funcID, fmt.Sprintf("Preparing %s", job.URL))
	if err := downloader.BuildJob(ctx, &job); err != nil {
		reporter.ReportError(funcID, fmt.Errorf("build failed: %w", err))
		return err
	}

	reporter.SetMessage(funcID, fmt.Sprintf("Downloading %s", job.OutputPath))
	job.ProgressFunc = func(p utils.Progress) {
		reporter.SetProgress(funcID, p)
	}
	if err := downloader.Download(ctx, &job); err != nil {
		reporter.ReportError(funcID, fmt.Errorf("download failed: %w", err))
		log.Debug().Str("op", "scheduler").Err(err).Msgf("job %s failed", job.ID)
		return err
	}

	savedTo, _ := job.Metadata["savedTo"].(string)
	size, _ := job.Metadata["totalDownloaded"].(int64)
	if store != nil {
		fileName, _ := job.Metadata["fileName"].(string)
		entry := history.Entry{URL: job.URL, Filename: fileName, Size: size, Timestamp: time.Now().UTC()}
		if err := store.Add(entry); err != nil {
			log.Warn().Str("op", "scheduler").Err(err).Msg("could not record download history")
		}
	}
	speed, _ := job.Metadata["downloadSpeed"].(float64)
	reporter.Complete(funcID, fmt.Sprintf("Saved %s (%s, %s)", savedTo, utils.FormatBytes(uint64(size)), utils.FormatSpeed(speed)))
	return nil
}
