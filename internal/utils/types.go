package utils

import (
	"context"
	"time"
)

type Downloader interface {
	ValidateJob(job *Job) error
	BuildJob(ctx context.Context, job *Job) error
	Download(ctx context.Context, job *Job) error
}

type Job struct {
	ID               string
	JobType          string
	URL              string
	OutputPath       string
	Connections      int
	ProgressType     string
	ProgressFunc     func(p Progress)
	Metadata         map[string]any
	HTTPClientConfig HTTPClientConfig
}

type Progress struct {
	Downloaded     int64
	Total          int64
	BytesPerSecond float64
}

type DownloadConfig struct {
	URL              string
	OutputPath       string
	TempDir          string
	Connections      int
	HTTPClientConfig HTTPClientConfig
}

type DownloadChunk struct {
	ID         int
	StartByte  int64
	EndByte    int64
	Downloaded int64
	Completed  bool
	StartTime  time.Time
	FinishTime time.Time
}

func (c DownloadChunk) Size() int64 {
	return c.EndByte - c.StartByte + 1
}

type DownloadSession struct {
	ID            string
	Config        DownloadConfig
	FileSize      int64
	SupportsRange bool
	Chunks        []DownloadChunk
	StartTime     time.Time
	TempFiles     []string
}

type DownloadEntry struct {
	OutputPath string `yaml:"op,omitempty"`
	URL        string `yaml:"link"`
	Type       string `yaml:"-"`
}

// BatchFile groups entries by job type, e.g. "http:" or "https:".
type BatchFile map[string][]DownloadEntry
