package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bloom:\n  intensity: 1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 16)
	failures := make(chan error, 16)
	require.NoError(t, Watch(ctx, path,
		func(c *Config) { changes <- c },
		func(err error) { failures <- err }))

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("bloom:\n  intensity: 2.5\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			// a write can be observed half-done; wait for the final content
			if c.Bloom.Intensity == 2.5 {
				return
			}
		case <-failures:
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bloom:\n  intensity: 1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failures := make(chan error, 16)
	require.NoError(t, Watch(ctx, path,
		func(*Config) {},
		func(err error) { failures <- err }))

	require.NoError(t, os.WriteFile(path, []byte("bloom:\n  resolution: 7\n"), 0644))

	select {
	case err := <-failures:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("invalid config not reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"),
		func(*Config) {}, func(error) {})
	assert.Error(t, err)
}
