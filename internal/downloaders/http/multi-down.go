package ruanhttp

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ruantools/internal/utils"
	"golang.org/x/sync/errgroup"
)

// PartitionRanges splits [0,total) into at most threads inclusive byte
// ranges of ceil(total/threads) bytes. The last range ends at total-1 and
// ranges that would start past the end are dropped.
func PartitionRanges(total int64, threads int) []utils.DownloadChunk {
	if total <= 0 || threads < 1 {
		return nil
	}
	chunkSize := (total + int64(threads) - 1) / int64(threads)
	chunks := make([]utils.DownloadChunk, 0, threads)
	for i := range threads {
		start := int64(i) * chunkSize
		if start >= total {
			break
		}
		chunks = append(chunks, utils.DownloadChunk{
			ID:        i,
			StartByte: start,
			EndByte:   min(start+chunkSize, total) - 1,
		})
	}
	return chunks
}

// PerformMultiDownload fetches every range concurrently into its own part
// file. The first failing chunk cancels the rest; there are no retries.
func PerformMultiDownload(ctx context.Context, session *utils.DownloadSession, partBase string, client utils.HTTPDoer, progressCh chan<- int64) error {
	if err := os.MkdirAll(session.Config.TempDir, 0755); err != nil {
		return fmt.Errorf("error creating temp directory: %w", err)
	}
	session.Chunks = PartitionRanges(session.FileSize, session.Config.Connections)
	session.TempFiles = make([]string, len(session.Chunks))
	for i, chunk := range session.Chunks {
		session.TempFiles[i] = utils.PartFileName(session.Config.TempDir, partBase, chunk.ID)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range session.Chunks {
		chunk := &session.Chunks[i]
		partPath := session.TempFiles[i]
		g.Go(func() error {
			if err := downloadSingleChunk(gctx, session.Config.URL, chunk, client, partPath); err != nil {
				log.Debug().Str("op", "http/multi-down").Err(err).Msgf("chunk %d failed", chunk.ID)
				return fmt.Errorf("chunk %d (bytes %d-%d): %w", chunk.ID, chunk.StartByte, chunk.EndByte, err)
			}
			progressCh <- chunk.Size()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return sortPartFiles(session.TempFiles)
}

// sortPartFiles orders part paths by chunk index, which is the only order
// they may be concatenated in.
func sortPartFiles(paths []string) error {
	ids := make(map[string]int, len(paths))
	for _, p := range paths {
		id, err := utils.ExtractChunkID(p)
		if err != nil {
			return err
		}
		ids[p] = id
	}
	sort.Slice(paths, func(i, j int) bool {
		return ids[paths[i]] < ids[paths[j]]
	})
	return nil
}
