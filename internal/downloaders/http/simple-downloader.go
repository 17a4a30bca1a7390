package ruanhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ruantools/internal/utils"
)

// PerformSimpleDownload streams the whole body with one GET. Progress is
// reported after every read and ctx is checked between reads.
func PerformSimpleDownload(ctx context.Context, session *utils.DownloadSession, partBase string, client utils.HTTPDoer, progressCh chan<- int64) error {
	if err := os.MkdirAll(session.Config.TempDir, 0755); err != nil {
		return fmt.Errorf("error creating temp directory: %w", err)
	}
	partPath := utils.PartFileName(session.Config.TempDir, partBase, 0)
	session.TempFiles = []string{partPath}

	outFile, err := os.OpenFile(partPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, session.Config.URL, nil)
	if err != nil {
		return fmt.Errorf("error creating GET request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error executing GET request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: "GET " + session.Config.URL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	buffer := make([]byte, utils.DefaultBufferSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, err := outFile.Write(buffer[:bytesRead]); err != nil {
				return fmt.Errorf("error writing to output file: %w", err)
			}
			written += int64(bytesRead)
			progressCh <- int64(bytesRead)
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return fmt.Errorf("error reading response body: %w", readErr)
		}
	}
	if session.FileSize < 0 {
		session.FileSize = written
	}
	log.Debug().Str("op", "http/simple-downloader").Msgf("streamed %d bytes for %s", written, session.Config.URL)
	return outFile.Sync()
}
