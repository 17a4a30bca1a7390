package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSinkWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := &LocalSink{Path: filepath.Join(dir, "nested", "out.bin")}

	got, err := s.Save(context.Background(), "ignored.bin", strings.NewReader("payload"), 7)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "out.bin"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestLocalSinkDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	s := &LocalSink{Path: dir}

	got, err := s.Save(context.Background(), "file.txt", strings.NewReader("a"), -1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "file.txt"), got)

	// Second save with the same name is renamed rather than overwritten.
	got, err = s.Save(context.Background(), "file.txt", strings.NewReader("b"), -1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "file-(1).txt"), got)
}

func TestLocalSinkSizeMismatch(t *testing.T) {
	target := filepath.Join(t.TempDir(), "short.bin")
	s := &LocalSink{Path: target}

	_, err := s.Save(context.Background(), "x", strings.NewReader("abc"), 10)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.NoFileExists(t, target)
}

func TestLocalSinkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	target := filepath.Join(t.TempDir(), "never.bin")

	_, err := (&LocalSink{Path: target}).Save(ctx, "x", strings.NewReader("abc"), 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, target)
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://my-bucket/some/prefix/")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "some/prefix/", key)

	bucket, key, err = ParseS3URL("s3://only-bucket")
	require.NoError(t, err)
	assert.Equal(t, "only-bucket", bucket)
	assert.Empty(t, key)

	_, _, err = ParseS3URL("s3:///key")
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "dir/file.zip", ObjectKey("dir/", "file.zip"))
	assert.Equal(t, "file.zip", ObjectKey("", "file.zip"))
	assert.Equal(t, "exact/name.bin", ObjectKey("exact/name.bin", "file.zip"))
}

func TestNewPicksLocal(t *testing.T) {
	s, err := New(context.Background(), "out/file.bin", Options{})
	require.NoError(t, err)
	assert.IsType(t, &LocalSink{}, s)
}
