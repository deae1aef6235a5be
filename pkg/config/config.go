package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics" toml:"graphics"`
	Render     RenderConfig     `yaml:"render" toml:"render"`
	Camera     CameraConfig     `yaml:"camera" toml:"camera"`
	Distortion DistortionConfig `yaml:"distortion" toml:"distortion"`
	Bloom      BloomConfig      `yaml:"bloom" toml:"bloom"`
	Scene      SceneConfig      `yaml:"scene" toml:"scene"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// GraphicsConfig contains window and output configuration
type GraphicsConfig struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	FrameRate  int    `yaml:"framerate" toml:"framerate"`
	Title      string `yaml:"title" toml:"title"`
	Headless   bool   `yaml:"headless" toml:"headless"`     // write PNG frames instead of opening a window
	Frames     int    `yaml:"frames" toml:"frames"`         // frames to render in headless mode
	OutputDir  string `yaml:"output_dir" toml:"output_dir"` // headless output directory
}

// RenderConfig contains base scene render configuration
type RenderConfig struct {
	Ambient        float64    `yaml:"ambient" toml:"ambient"`
	LightDirection [3]float64 `yaml:"light_direction" toml:"light_direction"`
	Background     [3]float64 `yaml:"background" toml:"background"`
	MaxDistance    float64    `yaml:"max_distance" toml:"max_distance"`
}

// CameraConfig positions the initial camera
type CameraConfig struct {
	Position [3]float64 `yaml:"position" toml:"position"`
	Target   [3]float64 `yaml:"target" toml:"target"`
	FOV      float64    `yaml:"fov" toml:"fov"` // degrees
}

// DistortionConfig configures the distortion source and pass
type DistortionConfig struct {
	Size         int     `yaml:"size" toml:"size"`                   // texture is Size x Size texels
	MaxAge       int     `yaml:"max_age" toml:"max_age"`             // trail point lifetime in ticks
	Radius       float64 `yaml:"radius" toml:"radius"`               // trail disc radius as a fraction of Size
	Speed        float64 `yaml:"speed" toml:"speed"`                 // how far trail points drift along their velocity
	Strength     float64 `yaml:"strength" toml:"strength"`           // maximum uv offset applied by the pass
	Ambient      float64 `yaml:"ambient" toml:"ambient"`             // intensity of the noise drift layer, 0 disables it
	AmbientScale float64 `yaml:"ambient_scale" toml:"ambient_scale"` // spatial frequency of the drift layer
	TickSeconds  float64 `yaml:"tick_seconds" toml:"tick_seconds"`   // simulated time advanced per update
	Debug        bool    `yaml:"debug" toml:"debug"`
	Seed         int64   `yaml:"seed" toml:"seed"`
}

// BloomConfig configures the selective bloom pass
type BloomConfig struct {
	Intensity  float64 `yaml:"intensity" toml:"intensity"`
	Threshold  float64 `yaml:"threshold" toml:"threshold"`   // luminance threshold in [0,1]
	Smoothing  float64 `yaml:"smoothing" toml:"smoothing"`   // width of the threshold ramp
	Radius     float64 `yaml:"radius" toml:"radius"`         // blur radius in frame pixels
	Resolution float64 `yaml:"resolution" toml:"resolution"` // glow buffer scale in (0,1]
	Blend      string  `yaml:"blend" toml:"blend"`           // add, screen
}

// SceneConfig selects what gets loaded into the scene
type SceneConfig struct {
	Model           string `yaml:"model" toml:"model"` // scene description file, empty for procedural
	ProceduralCount int    `yaml:"procedural_count" toml:"procedural_count"`
	Seed            int64  `yaml:"seed" toml:"seed"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:     640,
			Height:    360,
			VSync:     true,
			FrameRate: 30,
			Title:     "afterglow",
			Frames:    60,
			OutputDir: "frames",
		},
		Render: RenderConfig{
			Ambient:        0.15,
			LightDirection: [3]float64{-0.4, 1.0, -0.6},
			Background:     [3]float64{0.02, 0.02, 0.05},
			MaxDistance:    200,
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 2, -8},
			Target:   [3]float64{0, 1, 0},
			FOV:      60,
		},
		Distortion: DistortionConfig{
			Size:         64,
			MaxAge:       64,
			Radius:       0.1,
			Speed:        1.0 / 64,
			Strength:     0.2,
			Ambient:      0.05,
			AmbientScale: 3,
			TickSeconds:  1.0 / 60,
		},
		Bloom: BloomConfig{
			Intensity:  1.5,
			Threshold:  0.2,
			Smoothing:  0.1,
			Radius:     4,
			Resolution: 0.5,
			Blend:      "add",
		},
		Scene: SceneConfig{
			ProceduralCount: 12,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. Files ending in .toml are
// read as TOML, anything else as YAML. Missing fields keep their defaults.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if isTOML(filePath) {
		err = toml.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return config, fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file, as TOML or YAML by extension
func SaveConfig(config *Config, filePath string) error {
	var (
		data []byte
		err  error
	)
	if isTOML(filePath) {
		data, err = toml.Marshal(config)
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

func isTOML(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".toml")
}

// Validate reports every out-of-range field at once
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Graphics.Width > 0 && c.Graphics.Height > 0, "graphics.width/height",
		"must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	check(c.Graphics.FrameRate >= 0, "graphics.framerate", "must not be negative")
	check(!c.Graphics.Headless || c.Graphics.Frames > 0, "graphics.frames", "must be positive in headless mode")
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov", "must be in (0,180), got %v", c.Camera.FOV)
	check(c.Distortion.Size > 0, "distortion.size", "must be positive")
	check(c.Distortion.MaxAge > 0, "distortion.max_age", "must be positive")
	check(c.Distortion.Strength >= 0, "distortion.strength", "must not be negative")
	check(c.Distortion.TickSeconds > 0, "distortion.tick_seconds", "must be positive")
	check(c.Bloom.Intensity >= 0, "bloom.intensity", "must not be negative")
	check(c.Bloom.Threshold >= 0 && c.Bloom.Threshold <= 1, "bloom.threshold", "must be in [0,1]")
	check(c.Bloom.Smoothing >= 0, "bloom.smoothing", "must not be negative")
	check(c.Bloom.Radius >= 0, "bloom.radius", "must not be negative")
	check(c.Bloom.Resolution > 0 && c.Bloom.Resolution <= 1, "bloom.resolution", "must be in (0,1]")
	switch strings.ToLower(c.Bloom.Blend) {
	case "add", "screen":
	default:
		check(false, "bloom.blend", "unknown blend mode %q", c.Bloom.Blend)
	}

	return errors.Join(errs...)
}
