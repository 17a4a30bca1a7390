package ruanhttp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/ruantools/internal/sink"
	"github.com/tanq16/ruantools/internal/utils"
)

// Download fetches the resource into part files, then streams them in chunk
// order into the sink chosen by the output path. Part files are removed on
// every exit path.
func (d *HTTPDownloader) Download(ctx context.Context, job *utils.Job) error {
	client := utils.NewRuanHTTPClient(job.HTTPClientConfig)

	fileSize, _ := job.Metadata["fileSize"].(int64)
	rangeSupported, _ := job.Metadata["rangeSupported"].(bool)
	fileName, _ := job.Metadata["fileName"].(string)
	if fileName == "" {
		fileName = defaultFileName
	}
	profile, _ := job.Metadata["profile"].(string)

	session := &utils.DownloadSession{
		ID: uuid.NewString(),
		Config: utils.DownloadConfig{
			URL:              job.URL,
			OutputPath:       job.OutputPath,
			TempDir:          utils.TempDirFor(job.OutputPath),
			Connections:      job.Connections,
			HTTPClientConfig: job.HTTPClientConfig,
		},
		FileSize:      fileSize,
		SupportsRange: rangeSupported,
		StartTime:     time.Now(),
	}
	// Part files for remote sinks get a session prefix so parallel jobs
	// sharing the system temp dir never collide.
	partBase := job.OutputPath
	if utils.IsS3Path(job.OutputPath) {
		partBase = session.ID + "-" + fileName
	}
	defer cleanupSession(session)

	progressCh := make(chan int64, 100)
	progressDone := make(chan struct{})
	var downloaded int64
	go func() {
		defer close(progressDone)
		for n := range progressCh {
			downloaded += n
			if job.ProgressFunc != nil {
				job.ProgressFunc(utils.Progress{
					Downloaded:     downloaded,
					Total:          fileSize,
					BytesPerSecond: utils.ComputeSpeed(downloaded, time.Since(session.StartTime)),
				})
			}
		}
	}()

	var err error
	if UseRangeDownload(fileSize, rangeSupported, job.Connections) {
		log.Debug().Str("op", "http/download").Msgf("session %s: %d range requests for %s", session.ID, job.Connections, job.URL)
		err = PerformMultiDownload(ctx, session, partBase, client, progressCh)
	} else {
		log.Debug().Str("op", "http/download").Msgf("session %s: single stream for %s", session.ID, job.URL)
		err = PerformSimpleDownload(ctx, session, partBase, client, progressCh)
	}
	close(progressCh)
	<-progressDone
	if err != nil {
		if code := statusCode(err); code != 0 {
			log.Error().Str("op", "http/download").Int("status", code).Msgf("session %s failed", session.ID)
		}
		return err
	}

	if named := withDetectedExtension(fileName, session.TempFiles); named != fileName {
		// Only rename outputs that were named after the resource itself.
		if !utils.IsS3Path(job.OutputPath) && filepath.Base(job.OutputPath) == fileName {
			job.OutputPath += filepath.Ext(named)
			session.Config.OutputPath = job.OutputPath
		}
		fileName = named
	}
	location, err := save(ctx, session, fileName, downloaded, sink.Options{AWSProfile: profile})
	if err != nil {
		return err
	}

	elapsed := time.Since(session.StartTime)
	job.Metadata["fileName"] = fileName
	job.Metadata["savedTo"] = location
	job.Metadata["totalDownloaded"] = downloaded
	job.Metadata["elapsedTime"] = elapsed.Seconds()
	job.Metadata["downloadSpeed"] = utils.ComputeSpeed(downloaded, elapsed)
	log.Info().Str("op", "http/download").Msgf("session %s saved %s to %s", session.ID, utils.FormatBytes(uint64(downloaded)), location)
	return nil
}

// UseRangeDownload decides between the concurrent range path and a single
// stream. Files of 1 MiB or less are never split.
func UseRangeDownload(size int64, rangeSupported bool, connections int) bool {
	return rangeSupported && connections > 1 && size > utils.MinMultiDownloadSize
}

// save checks for cancellation one last time, then hands the part files to
// the sink as one ordered stream.
func save(ctx context.Context, session *utils.DownloadSession, fileName string, size int64, opts sink.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	files, err := openParts(session.TempFiles)
	if err != nil {
		return "", err
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	readers := make([]io.Reader, len(files))
	for i, f := range files {
		readers[i] = f
	}

	s, err := sink.New(ctx, session.Config.OutputPath, opts)
	if err != nil {
		return "", err
	}
	return s.Save(ctx, fileName, io.MultiReader(readers...), size)
}

func openParts(paths []string) ([]*os.File, error) {
	files := make([]*os.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, fmt.Errorf("error opening chunk: %w", err)
		}
		files = append(files, f)
	}
	return files, nil
}

// withDetectedExtension appends an extension sniffed from the first part
// file when the name has none.
func withDetectedExtension(name string, parts []string) string {
	if filepath.Ext(name) != "" || len(parts) == 0 {
		return name
	}
	mt, err := mimetype.DetectFile(parts[0])
	if err != nil || mt.Extension() == "" {
		return name
	}
	return name + mt.Extension()
}

func cleanupSession(session *utils.DownloadSession) {
	for _, p := range session.TempFiles {
		os.Remove(p)
	}
	if entries, err := os.ReadDir(session.Config.TempDir); err == nil && len(entries) == 0 {
		os.Remove(session.Config.TempDir)
	}
}
