package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Timeout)
	assert.Equal(t, 100, cfg.Iterations)
	assert.NotEmpty(t, cfg.HistoryPath)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RUANTOOLS_THREADS", "16")
	t.Setenv("RUANTOOLS_TIMEOUT", "30s")
	t.Setenv("RUANTOOLS_HISTORY_PATH", "/tmp/hist")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Threads)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/hist", cfg.HistoryPath)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(envFile, []byte("RUANTOOLS_WORKERS=3\nRUANTOOLS_THREADS=2\n"), 0644))
	t.Setenv("RUANTOOLS_THREADS", "8")
	t.Cleanup(func() { os.Unsetenv("RUANTOOLS_WORKERS") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	// The real environment wins over the file.
	assert.Equal(t, 8, cfg.Threads)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RUANTOOLS_THREADS", "0")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid configuration")

	t.Setenv("RUANTOOLS_THREADS", "lots")
	_, err = Load("")
	assert.ErrorContains(t, err, "config error")
}
