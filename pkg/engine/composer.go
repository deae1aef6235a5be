package engine

import (
	"fmt"

	"afterglow/internal/logger"
	"afterglow/pkg/config"
	"afterglow/pkg/distortion"
	"afterglow/pkg/scene"
)

// Composer owns the post-processing chain: base render, distortion, then
// selective bloom. Only the last pass writes to the target.
type Composer struct {
	target Target
	scene  *scene.Scene
	camera *scene.Camera
	config *config.Config
	logger *logger.Logger

	state      State
	passes     []Pass
	selection  *Selection
	distortion *distortion.Source
	distEffect *DistortionEffect
	bloom      *BloomEffect
	frames     [2]*Frame
	width      int
	height     int
	rendered   uint64
}

// NewComposer creates a composer drawing scene through camera into target.
// The composer borrows target, scene and camera; it never disposes them.
func NewComposer(target Target, sc *scene.Scene, camera *scene.Camera, cfg *config.Config, log *logger.Logger) *Composer {
	return &Composer{
		target:     target,
		scene:      sc,
		camera:     camera,
		config:     cfg,
		logger:     log,
		state:      Uninitialized,
		selection:  NewSelection(),
		distortion: distortion.New(cfg.Distortion),
	}
}

// State returns the lifecycle state
func (c *Composer) State() State { return c.state }

// Selection returns the bloom selection set
func (c *Composer) Selection() *Selection { return c.selection }

// Distortion returns the distortion source driven by Render
func (c *Composer) Distortion() *distortion.Source { return c.distortion }

// Frames returns how many frames have been rendered
func (c *Composer) Frames() uint64 { return c.rendered }

// Passes returns the pass chain in execution order
func (c *Composer) Passes() []Pass {
	out := make([]Pass, len(c.passes))
	copy(out, c.passes)
	return out
}

// Setup builds the pass chain. It may be called once.
func (c *Composer) Setup() error {
	switch c.state {
	case Ready:
		return &StateError{Op: "setup", State: c.state, Err: ErrAlreadySetUp}
	case Disposed:
		return &StateError{Op: "setup", State: c.state, Err: ErrDisposed}
	}

	w, h := c.target.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("composer setup: invalid target size %dx%d", w, h)
	}
	c.allocate(w, h)

	c.distEffect = NewDistortionEffect(c.distortion, c.config.Distortion.Strength)
	c.bloom = NewBloomEffect(c.selection, c.config.Bloom)

	renderPass := NewRenderPass(c.scene, c.camera, c.config.Render)
	distortionPass := NewEffectPass("distortion", c.distEffect)
	bloomPass := NewEffectPass("bloom", c.bloom)

	c.passes = []Pass{renderPass, distortionPass, bloomPass}
	c.passes[len(c.passes)-1].SetRenderToScreen(true)

	c.state = Ready
	c.logger.Infof("Composer ready: %dx%d, %d passes", w, h, len(c.passes))
	return nil
}

// Render draws one frame. The distortion source advances exactly once,
// immediately before the distortion pass. A target without area skips the
// frame entirely.
func (c *Composer) Render() error {
	if err := c.checkReady("render"); err != nil {
		return err
	}

	w, h := c.target.Size()
	if w <= 0 || h <= 0 {
		// minimized window: nothing to draw, and the distortion clock holds
		return nil
	}
	if w != c.width || h != c.height {
		if err := c.SetSize(w, h); err != nil {
			return err
		}
	}

	read, write := c.frames[0], c.frames[1]
	for _, p := range c.passes {
		if u, ok := p.(frameUpdater); ok {
			u.BeforeRender()
		}

		if err := p.Render(read, write); err != nil {
			return fmt.Errorf("pass %s: %w", p.Name(), err)
		}

		if p.RenderToScreen() {
			if err := c.target.Present(write.Color); err != nil {
				return fmt.Errorf("present: %w", err)
			}
			break
		}
		read, write = write, read
	}

	c.rendered++
	return nil
}

// Configure replaces the bloom parameters and distortion strength. Call it
// between frames.
func (c *Composer) Configure(bloom config.BloomConfig, distortionStrength float64) error {
	if err := c.checkReady("configure"); err != nil {
		return err
	}

	c.distEffect.Strength = distortionStrength
	c.bloom.Intensity = bloom.Intensity
	c.bloom.Threshold = bloom.Threshold
	c.bloom.Smoothing = bloom.Smoothing
	c.bloom.Radius = bloom.Radius
	c.bloom.Resolution = bloom.Resolution
	c.bloom.Blend = ParseBlendMode(bloom.Blend)
	return nil
}

// BuildSelection adds every bloom-tagged node of the scene to the selection.
// It never removes members; call ClearSelection first to rebuild from scratch.
func (c *Composer) BuildSelection() error {
	if err := c.checkReady("build selection"); err != nil {
		return err
	}

	before := c.selection.Len()
	c.scene.Traverse(func(n scene.Node, _ scene.Vector3) {
		if t, ok := n.(scene.BloomTagged); ok && t.BloomEnabled() {
			c.selection.Add(n)
		}
	})

	if added := c.selection.Len() - before; added > 0 {
		c.logger.Debugf("Bloom selection: +%d (%d total)", added, c.selection.Len())
	}
	return nil
}

// ClearSelection empties the bloom selection
func (c *Composer) ClearSelection() error {
	if c.state == Disposed {
		return &StateError{Op: "clear selection", State: c.state, Err: ErrDisposed}
	}
	c.selection.Clear()
	return nil
}

// SetSize reallocates the intermediate frames and notifies every pass
func (c *Composer) SetSize(width, height int) error {
	if c.state == Disposed {
		return &StateError{Op: "set size", State: c.state, Err: ErrDisposed}
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("composer set size: invalid size %dx%d", width, height)
	}

	c.allocate(width, height)
	for _, p := range c.passes {
		p.SetSize(width, height)
	}
	c.logger.Debugf("Composer resized to %dx%d", width, height)
	return nil
}

// Dispose releases the passes and frames. The target is left alone.
func (c *Composer) Dispose() error {
	if c.state == Disposed {
		return &StateError{Op: "dispose", State: c.state, Err: ErrDisposed}
	}

	for _, p := range c.passes {
		p.Dispose()
	}
	c.passes = nil
	c.distEffect = nil
	c.bloom = nil
	c.frames = [2]*Frame{}
	c.selection.Clear()
	c.state = Disposed
	c.logger.Info("Composer disposed")
	return nil
}

func (c *Composer) checkReady(op string) error {
	switch c.state {
	case Uninitialized:
		return &StateError{Op: op, State: c.state, Err: ErrNotSetUp}
	case Disposed:
		return &StateError{Op: op, State: c.state, Err: ErrDisposed}
	}
	return nil
}

func (c *Composer) allocate(width, height int) {
	c.width, c.height = width, height
	c.frames[0] = NewFrame(width, height)
	c.frames[1] = NewFrame(width, height)
}
