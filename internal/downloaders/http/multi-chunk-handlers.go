package ruanhttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tanq16/ruantools/internal/utils"
)

var ErrSizeMismatch = errors.New("received size does not match requested range")

func downloadSingleChunk(ctx context.Context, link string, chunk *utils.DownloadChunk, client utils.HTTPDoer, partPath string) error {
	chunk.StartTime = time.Now()
	tempFile, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening temp file: %w", err)
	}
	defer tempFile.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", chunk.StartByte, chunk.EndByte))
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		return &StatusError{Op: "range request", StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if resp.Header.Get("Content-Range") == "" {
		return errors.New("missing Content-Range header")
	}

	buffer := make([]byte, utils.DefaultBufferSize)
	for {
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, err := tempFile.Write(buffer[:bytesRead]); err != nil {
				return err
			}
			chunk.Downloaded += int64(bytesRead)
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return readErr
		}
	}
	if chunk.Downloaded != chunk.Size() {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrSizeMismatch, chunk.Size(), chunk.Downloaded)
	}
	chunk.Completed = true
	chunk.FinishTime = time.Now()
	return nil
}
