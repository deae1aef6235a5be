package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afterglow/internal/metrics"
	"afterglow/pkg/assets"
	"afterglow/pkg/config"
)

const lanternYAML = `
name: lantern
nodes:
  - name: flame
    shape: sphere
    radius: 0.6
    position: [0, 1, 0]
    color: [1, 0.7, 0.3]
    emissive: 0.9
    bloom: true
animations:
  - node: flame
    type: bob
    amplitude: 0.2
    speed: 3
`

func newTestEngine(t *testing.T) (*Engine, *MemoryTarget) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Graphics.FrameRate = 0
	cfg.Distortion.Size = 16

	target := NewMemoryTarget(48, 32)
	e, err := NewEngine(cfg, quietLogger(), target, metrics.NewMilestones())
	require.NoError(t, err)
	return e, target
}

func TestEngineRunsFixedFrameCount(t *testing.T) {
	e, target := newTestEngine(t)
	e.AddModel(assets.Procedural(3, 6))

	require.NoError(t, e.Run(context.Background(), 5))
	assert.Equal(t, 5, target.Presented())
	assert.Equal(t, uint64(5), e.Composer().Distortion().Ticks())
	assert.Equal(t, Disposed, e.Composer().State())
}

func TestEngineStopsOnCancel(t *testing.T) {
	e, target := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, e.Run(ctx, 0))
	assert.Equal(t, 0, target.Presented())
}

func TestEngineAppliesLoadedModelBetweenFrames(t *testing.T) {
	e, _ := newTestEngine(t)

	path := filepath.Join(t.TempDir(), "lantern.yaml")
	require.NoError(t, os.WriteFile(path, []byte(lanternYAML), 0644))

	e.LoadModel(context.Background(), path)
	assert.Equal(t, 1, e.Pending())

	deadline := time.Now().Add(5 * time.Second)
	for e.Pending() > 0 {
		require.True(t, time.Now().Before(deadline), "model never arrived")
		require.NoError(t, e.Step())
		time.Sleep(time.Millisecond)
	}

	flame := e.Scene().FindByName("flame")
	require.NotNil(t, flame)
	assert.True(t, e.Composer().Selection().Has(flame))
	assert.Len(t, e.animations, 1)
}

func TestEngineSurvivesFailedLoad(t *testing.T) {
	e, target := newTestEngine(t)
	e.LoadModel(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))

	deadline := time.Now().Add(5 * time.Second)
	for e.Pending() > 0 {
		require.True(t, time.Now().Before(deadline), "load never finished")
		require.NoError(t, e.Step())
		time.Sleep(time.Millisecond)
	}
	assert.Greater(t, target.Presented(), 0)
	assert.Equal(t, 0, e.Composer().Selection().Len())
}

func TestEngineFeedsScriptedPointer(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	assert.NotEmpty(t, e.Composer().Distortion().Trail())
}

func TestEngineAppliesLatestQueuedSettings(t *testing.T) {
	e, _ := newTestEngine(t)

	first := config.DefaultConfig()
	first.Bloom.Intensity = 0.4
	second := config.DefaultConfig()
	second.Bloom.Intensity = 1.7
	second.Bloom.Blend = "screen"
	second.Distortion.Strength = 0.01

	e.QueueSettings(first)
	e.QueueSettings(second)
	require.NoError(t, e.Step())

	assert.Equal(t, 1.7, e.composer.bloom.Intensity)
	assert.Equal(t, BlendScreen, e.composer.bloom.Blend)
	assert.Equal(t, 0.01, e.composer.distEffect.Strength)
}

func TestEngineWatchConfigReloadsSettings(t *testing.T) {
	e, _ := newTestEngine(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bloom:\n  intensity: 1\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.WatchConfig(ctx, path))

	require.NoError(t, os.WriteFile(path, []byte("bloom:\n  intensity: 2.5\n"), 0644))

	deadline := time.Now().Add(5 * time.Second)
	for e.composer.bloom.Intensity != 2.5 {
		require.True(t, time.Now().Before(deadline), "settings never applied")
		require.NoError(t, e.Step())
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEngineLoadsDoNotOutliveCancel(t *testing.T) {
	baseline := runtime.NumGoroutine()
	e, _ := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	dir := t.TempDir()
	for i := 0; i < 8; i++ {
		e.LoadModel(ctx, filepath.Join(dir, "missing.yaml"))
	}
	cancel()
	require.NoError(t, e.Run(ctx, 1))

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= baseline },
		5*time.Second, 10*time.Millisecond)
}

func TestEngineLoadsDoNotOutliveShutdown(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Run(context.Background(), 1))

	baseline := runtime.NumGoroutine()
	path := filepath.Join(t.TempDir(), "lantern.yaml")
	require.NoError(t, os.WriteFile(path, []byte(lanternYAML), 0644))
	for i := 0; i < 8; i++ {
		e.LoadModel(context.Background(), path)
	}

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= baseline },
		5*time.Second, 10*time.Millisecond)
}
