package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ruantools/internal/utils"
)

// LocalSink writes to Path. A Path that is an existing directory, or that
// ends in a separator, receives the file under the discovered name.
type LocalSink struct {
	Path string
}

func (s *LocalSink) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	target := s.resolve(name)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	if _, err := os.Stat(target); err == nil {
		target = utils.RenewOutputPath(target)
	}

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("error creating output file: %w", err)
	}
	written, err := io.CopyBuffer(out, &ctxReader{ctx: ctx, r: r}, make([]byte, utils.DefaultBufferSize))
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("%w: expected %d, wrote %d", ErrSizeMismatch, size, written)
	}
	if err != nil {
		os.Remove(target)
		return "", fmt.Errorf("error writing %s: %w", target, err)
	}
	log.Debug().Str("op", "sink/local").Msgf("wrote %d bytes to %s", written, target)
	return target, nil
}

func (s *LocalSink) resolve(name string) string {
	if s.Path == "" {
		return name
	}
	if strings.HasSuffix(s.Path, string(os.PathSeparator)) || strings.HasSuffix(s.Path, "/") {
		return filepath.Join(s.Path, name)
	}
	if info, err := os.Stat(s.Path); err == nil && info.IsDir() {
		return filepath.Join(s.Path, name)
	}
	return s.Path
}
