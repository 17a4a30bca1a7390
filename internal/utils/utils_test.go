package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenewOutputPath(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "file.tar")
	require.NoError(t, os.WriteFile(base, nil, 0644))
	assert.Equal(t, filepath.Join(dir, "file-(1).tar"), RenewOutputPath(base))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file-(1).tar"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, "file-(2).tar"), RenewOutputPath(base))
}

func TestParseHeaderArgs(t *testing.T) {
	got := ParseHeaderArgs([]string{"Authorization: Basic abc", "X-Empty:", "broken"})
	assert.Equal(t, map[string]string{"Authorization": "Basic abc", "X-Empty": ""}, got)
}

func TestFormatBytesAndSpeed(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.50 KB", FormatBytes(1536))
	assert.Equal(t, "1.00 MB", FormatBytes(1<<20))
	assert.Equal(t, "0 B/s", FormatSpeed(0))
	assert.Equal(t, "2.00 KB/s", FormatSpeed(2048))
}

func TestComputeSpeed(t *testing.T) {
	assert.Equal(t, 0.0, ComputeSpeed(100, 0))
	assert.InDelta(t, 50.0, ComputeSpeed(100, 2*time.Second), 1e-9)
}

func TestPartFilesAndChunkID(t *testing.T) {
	name := PartFileName("/tmp/x", "/data/out.bin", 3)
	assert.Equal(t, filepath.Join("/tmp/x", "out.bin.part3"), name)
	id, err := ExtractChunkID(name)
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = ExtractChunkID("out.bin")
	assert.Error(t, err)
}

func TestTempDirFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", TempDirName), TempDirFor("/data/out.bin"))
	assert.Equal(t, filepath.Join(os.TempDir(), TempDirName), TempDirFor("s3://bucket/key"))
}

func TestCleanPartFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "movie.mkv")
	tempDir := TempDirFor(out)
	require.NoError(t, os.MkdirAll(tempDir, 0755))
	for i := range 3 {
		require.NoError(t, os.WriteFile(PartFileName(tempDir, out, i), []byte("x"), 0644))
	}
	other := PartFileName(tempDir, filepath.Join(dir, "other.iso"), 0)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	require.NoError(t, CleanPartFiles(out))
	assert.FileExists(t, other)

	require.NoError(t, CleanPartFiles(filepath.Join(dir, "other.iso")))
	assert.NoDirExists(t, tempDir)

	require.NoError(t, CleanPartFiles(out))
}

func TestCleanTempDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CleanTempDir(dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, TempDirName, "nested"), 0755))
	require.NoError(t, CleanTempDir(dir))
	assert.NoDirExists(t, filepath.Join(dir, TempDirName))
}

func TestReadDownloadList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	content := `
http:
  - link: https://example.com/a.zip
    op: downloads/a.zip
  - link: https://example.com/b.zip
HTTPS:
  - link: https://example.com/c.zip
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := ReadDownloadList(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "https://example.com/c.zip", entries[0].URL)
	assert.Equal(t, "downloads/a.zip", entries[1].OutputPath)
	for _, e := range entries {
		assert.Equal(t, "http", e.Type)
	}

	require.NoError(t, os.WriteFile(path, []byte("ftp:\n  - link: ftp://x\n"), 0644))
	_, err = ReadDownloadList(path)
	assert.ErrorContains(t, err, "unknown job type")

	require.NoError(t, os.WriteFile(path, []byte("http:\n  - op: nowhere\n"), 0644))
	_, err = ReadDownloadList(path)
	assert.ErrorContains(t, err, "missing link")
}

func TestHTTPClientSetsHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	client := NewRuanHTTPClient(HTTPClientConfig{Headers: map[string]string{"X-Token": "abc"}})
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, ToolUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "abc", got.Get("X-Token"))

	client = NewRuanHTTPClient(HTTPClientConfig{UserAgent: "custom/1", HighThreadMode: true})
	req, err = http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "custom/1", got.Get("User-Agent"))
}

func TestHTTPClientKeepsRequestRange(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	client := NewRuanHTTPClient(HTTPClientConfig{Headers: map[string]string{"range": "bytes=0-0"}})
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=100-199")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "bytes=100-199", got.Get("Range"))
}

func TestProxyFor(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com/file", nil)
	require.NoError(t, err)

	proxy, err := proxyFor(HTTPClientConfig{ProxyURL: "http://proxy.local:8080", ProxyUsername: "alice", ProxyPassword: "pw"})(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.local:8080", proxy.Host)
	pass, _ := proxy.User.Password()
	assert.Equal(t, "alice", proxy.User.Username())
	assert.Equal(t, "pw", pass)

	proxy, err = proxyFor(HTTPClientConfig{ProxyURL: "http://proxy.local:8080", ProxyUsername: "bob"})(req)
	require.NoError(t, err)
	_, set := proxy.User.Password()
	assert.False(t, set)
}

func TestGetRandomUserAgent(t *testing.T) {
	assert.Contains(t, userAgents, GetRandomUserAgent())
}

func TestSetLogOutput(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(true)
	SetLogOutput(&buf)
	log.Debug().Str("op", "utils/test").Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	InitLogger(false)
}
