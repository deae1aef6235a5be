package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"afterglow/internal/logger"
	"afterglow/internal/metrics"
	"afterglow/pkg/assets"
	"afterglow/pkg/config"
	"afterglow/pkg/scene"
)

// Window is a Target that also owns an event loop
type Window interface {
	Target
	ShouldClose() bool
	PollEvents()
}

// Pointer reports the cursor in normalized coordinates, ok is false when
// the cursor is outside the target
type Pointer interface {
	Pointer() (u, v float64, ok bool)
}

// loadResult carries an async load back to the render thread
type loadResult struct {
	path  string
	model *assets.Model
	err   error
}

// Engine drives the frame loop: it applies loaded assets, steps animations
// and renders through the composer.
type Engine struct {
	config     *config.Config
	logger     *logger.Logger
	target     Target
	scene      *scene.Scene
	camera     *scene.Camera
	composer   *Composer
	loader     *assets.Loader
	milestones *metrics.Milestones

	loaded     chan loadResult
	done       chan struct{}
	pending    int
	settings   chan *config.Config
	animations []assets.Animation

	isRunning bool
	frameRate int
	tickSecs  float64

	lastPointer [2]float64
	hasPointer  bool
}

// NewEngine creates an engine rendering into target and sets up its composer
func NewEngine(cfg *config.Config, log *logger.Logger, target Target, milestones *metrics.Milestones) (*Engine, error) {
	sc := scene.New()
	sc.Background = scene.FromArray(cfg.Render.Background)
	sc.Ambient = cfg.Render.Ambient
	sc.LightDir = scene.FromArray(cfg.Render.LightDirection).Normalize()

	camera := scene.NewCamera(scene.FromArray(cfg.Camera.Position), scene.FromArray(cfg.Camera.Target), cfg.Camera.FOV)

	composer := NewComposer(target, sc, camera, cfg, log)
	if err := composer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to set up composer: %w", err)
	}
	milestones.Mark("composer ready")

	engine := &Engine{
		config:     cfg,
		logger:     log,
		target:     target,
		scene:      sc,
		camera:     camera,
		composer:   composer,
		loader:     assets.NewLoader(log),
		milestones: milestones,
		loaded:     make(chan loadResult, 4),
		done:       make(chan struct{}),
		settings:   make(chan *config.Config, 1),
		frameRate:  cfg.Graphics.FrameRate,
		tickSecs:   cfg.Distortion.TickSeconds,
	}

	return engine, nil
}

// Scene returns the scene being rendered
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Composer returns the pipeline composer
func (e *Engine) Composer() *Composer { return e.composer }

// AddModel attaches a model to the scene and registers its animations.
// Call it only from the render thread.
func (e *Engine) AddModel(model *assets.Model) {
	e.scene.Add(model.Root)
	e.animations = append(e.animations, model.Animations...)
}

// LoadModel starts loading path in the background. The model is attached at
// the start of a later frame, followed by a selection rebuild. Results that
// arrive after ctx is done or the engine has shut down are dropped.
func (e *Engine) LoadModel(ctx context.Context, path string) {
	e.pending++
	deliver := func(res loadResult) {
		select {
		case e.loaded <- res:
		case <-ctx.Done():
		case <-e.done:
		}
	}
	e.loader.LoadAsync(ctx, path,
		func(m *assets.Model) { deliver(loadResult{path: path, model: m}) },
		func(err error) { deliver(loadResult{path: path, err: err}) },
	)
}

// WatchConfig applies bloom and distortion settings from path whenever the
// file changes. Settings take effect at the start of the next frame.
func (e *Engine) WatchConfig(ctx context.Context, path string) error {
	return config.Watch(ctx, path, e.QueueSettings, func(err error) {
		e.logger.Warnf("Config reload: %v", err)
	})
}

// QueueSettings schedules cfg for the next frame, replacing any settings
// that have not been applied yet. Safe to call from any goroutine.
func (e *Engine) QueueSettings(cfg *config.Config) {
	for {
		select {
		case e.settings <- cfg:
			return
		default:
		}
		select {
		case <-e.settings:
		default:
		}
	}
}

// Pending returns how many loads have not been applied yet
func (e *Engine) Pending() int { return e.pending }

// Run renders until ctx is cancelled, the window closes, or, when frames is
// positive, that many frames have been rendered.
func (e *Engine) Run(ctx context.Context, frames int) error {
	e.isRunning = true
	window, _ := e.target.(Window)

	for e.isRunning {
		if ctx.Err() != nil {
			break
		}
		if window != nil && window.ShouldClose() {
			break
		}
		if frames > 0 && e.composer.Frames() >= uint64(frames) {
			break
		}

		currentTime := time.Now()

		if err := e.Step(); err != nil {
			e.cleanup()
			return err
		}

		if window != nil {
			window.PollEvents()
		}

		// Cap the frame rate
		if e.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				select {
				case <-ctx.Done():
				case <-time.After(targetFrameTime - frameTime):
				}
			}
		}
	}

	e.cleanup()
	return nil
}

// Step runs one frame: apply queued settings and finished loads, feed input,
// step animations, render. Animations advance by the fixed tick so runs are reproducible.
func (e *Engine) Step() error {
	select {
	case cfg := <-e.settings:
		if err := e.composer.Configure(cfg.Bloom, cfg.Distortion.Strength); err != nil {
			return err
		}
		e.logger.Info("Applied reloaded effect settings")
	default:
	}

	if e.drainLoaded() {
		if err := e.composer.BuildSelection(); err != nil {
			return err
		}
	}

	e.feedPointer()

	for _, a := range e.animations {
		a.Step(e.tickSecs)
	}

	if err := e.composer.Render(); err != nil {
		return fmt.Errorf("render frame %d: %w", e.composer.Frames(), err)
	}
	if e.composer.Frames() == 1 {
		e.milestones.Mark("first frame")
	}
	return nil
}

// drainLoaded applies every finished load without blocking. It reports
// whether the scene changed.
func (e *Engine) drainLoaded() bool {
	changed := false
	for {
		select {
		case res := <-e.loaded:
			e.pending--
			if res.err != nil {
				e.logger.Errorf("Failed to load %s: %v", res.path, res.err)
				continue
			}
			e.AddModel(res.model)
			e.milestones.Mark("model loaded")
			e.logger.Infof("Loaded model %q from %s", res.model.Name, res.path)
			changed = true
		default:
			return changed
		}
	}
}

// feedPointer turns pointer motion into distortion trail points. Without a
// pointer the trail follows a slow lissajous path.
func (e *Engine) feedPointer() {
	var u, v float64
	if p, ok := e.target.(Pointer); ok {
		var inside bool
		u, v, inside = p.Pointer()
		if !inside {
			return
		}
	} else {
		t := float64(e.composer.Frames()) * e.tickSecs
		u = 0.5 + 0.35*math.Sin(t*1.3)
		v = 0.5 + 0.25*math.Sin(t*2.1)
	}

	if e.hasPointer && e.lastPointer == [2]float64{u, v} {
		return
	}
	e.composer.Distortion().AddTouch(u, v)
	e.lastPointer = [2]float64{u, v}
	e.hasPointer = true
}

// cleanup releases the composer. The target belongs to the caller.
func (e *Engine) cleanup() {
	e.isRunning = false
	select {
	case <-e.done:
	default:
		close(e.done)
	}
	e.logger.Info("Shutting down engine...")
	if err := e.composer.Dispose(); err != nil {
		e.logger.Warnf("Composer dispose: %v", err)
	}
	e.milestones.Report(e.logger)
}
