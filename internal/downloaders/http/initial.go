package ruanhttp

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ruantools/internal/utils"
)

const defaultFileName = "download"

var filenameRegex = regexp.MustCompile(`[^a-zA-Z0-9_\-\. ]+`)

// StatusError carries the HTTP status of a failed preflight or range
// request.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %s", e.Op, e.Status)
}

// FileInfo is what the HEAD preflight learns about a resource. Size is -1
// when the server sends no usable Content-Length.
type FileInfo struct {
	Size          int64
	SupportsRange bool
	FileName      string
}

type HTTPDownloader struct{}

func (d *HTTPDownloader) ValidateJob(job *utils.Job) error {
	parsedURL, err := url.Parse(job.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	if job.Connections < 1 {
		job.Connections = 1
	}
	if job.Metadata == nil {
		job.Metadata = make(map[string]any)
	}
	return nil
}

// BuildJob runs the HEAD preflight and settles the file name and output
// path before any bytes are fetched.
func (d *HTTPDownloader) BuildJob(ctx context.Context, job *utils.Job) error {
	job.HTTPClientConfig.HighThreadMode = job.Connections > 5
	client := utils.NewRuanHTTPClient(job.HTTPClientConfig)

	info, err := FetchInfo(ctx, client, job.URL)
	if err != nil {
		return fmt.Errorf("error getting file info: %w", err)
	}
	log.Debug().Str("op", "http/initial").Msgf("preflight for %s: size=%d range=%t name=%q", job.URL, info.Size, info.SupportsRange, info.FileName)

	job.Metadata["fileName"] = info.FileName
	job.Metadata["fileSize"] = info.Size
	job.Metadata["rangeSupported"] = info.SupportsRange

	if utils.IsS3Path(job.OutputPath) {
		return nil
	}
	switch {
	case job.OutputPath == "":
		job.OutputPath = info.FileName
	case strings.HasSuffix(job.OutputPath, "/") || strings.HasSuffix(job.OutputPath, string(os.PathSeparator)):
		job.OutputPath = filepath.Join(job.OutputPath, info.FileName)
	default:
		if st, err := os.Stat(job.OutputPath); err == nil && st.IsDir() {
			job.OutputPath = filepath.Join(job.OutputPath, info.FileName)
		}
	}
	if existing, err := os.Stat(job.OutputPath); err == nil {
		if info.Size > 0 && existing.Size() == info.Size {
			return fmt.Errorf("file already exists with same size: %s", job.OutputPath)
		}
		job.OutputPath = utils.RenewOutputPath(job.OutputPath)
	}
	return nil
}

// FetchInfo issues the HEAD preflight. A non-2xx status is returned as a
// *StatusError.
func FetchInfo(ctx context.Context, client utils.HTTPDoer, link string) (*FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error checking URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: "HEAD " + link, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	info := &FileInfo{
		Size:          -1,
		SupportsRange: resp.Header.Get("Accept-Ranges") == "bytes",
		FileName:      fileNameFromDisposition(resp.Header.Get("Content-Disposition")),
	}
	if info.FileName == "" {
		info.FileName = fileNameFromURL(resp.Request.URL)
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		size, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("invalid Content-Length %q", cl)
		}
		info.Size = size
	}
	return info, nil
}

func fileNameFromDisposition(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}
	// mime decodes RFC 2231 filename* into "filename".
	if fn := params["filename"]; fn != "" {
		return sanitizeFileName(fn)
	}
	return ""
}

// fileNameFromURL falls back to the last path segment, then "download".
func fileNameFromURL(u *url.URL) string {
	if u == nil {
		return defaultFileName
	}
	seg := path.Base(u.Path)
	if seg == "/" || seg == "." || seg == "" {
		return defaultFileName
	}
	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}
	if name := sanitizeFileName(seg); name != "" {
		return name
	}
	return defaultFileName
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(filenameRegex.ReplaceAllString(name, "_"))
	if name == "." || name == ".." {
		return ""
	}
	return name
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
