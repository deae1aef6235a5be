package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampAndLerp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
	assert.Equal(t, 3, ClampInt(9, 0, 3))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
}

func TestSmoothStep(t *testing.T) {
	assert.Equal(t, 0.0, SmoothStep(0.2, 0.4, 0.1))
	assert.Equal(t, 1.0, SmoothStep(0.2, 0.4, 0.5))
	assert.InDelta(t, 0.5, SmoothStep(0.2, 0.4, 0.3), 1e-9)
	assert.Equal(t, 1.0, SmoothStep(0.5, 0.5, 0.5))
	assert.Equal(t, 0.0, SmoothStep(0.5, 0.5, 0.4))
}

func TestEaseAndLuminance(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutSine(0))
	assert.InDelta(t, 1.0, EaseOutSine(1), 1e-12)
	assert.InDelta(t, 1.0, Luminance(1, 1, 1), 1e-12)
	assert.Equal(t, 0.0, Luminance(0, 0, 0))
}

func TestFileHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, CreateDirIfNotExist(dir))
	assert.False(t, FileExists(dir))

	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, FileExists(path))
	assert.Equal(t, "scene", GetFileNameWithoutExt(path))
}
