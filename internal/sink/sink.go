// Package sink stores a finished download: on the local filesystem or in an
// S3 bucket.
package sink

import (
	"context"
	"errors"
	"io"

	"github.com/tanq16/ruantools/internal/utils"
)

var ErrSizeMismatch = errors.New("sink: written size does not match expected size")

type Sink interface {
	// Save writes r under name and returns where the data ended up. size is
	// the expected length, or -1 when unknown.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
}

type Options struct {
	AWSProfile string
}

// New picks the sink for dest: s3://bucket/key goes to S3, anything else is
// a local path.
func New(ctx context.Context, dest string, opts Options) (Sink, error) {
	if utils.IsS3Path(dest) {
		bucket, key, err := ParseS3URL(dest)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(ctx, bucket, key, opts.AWSProfile)
	}
	return &LocalSink{Path: dest}, nil
}

// ctxReader stops a copy at the next read once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
