package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"afterglow/internal/logger"
	"afterglow/internal/metrics"
	"afterglow/pkg/assets"
	"afterglow/pkg/config"
	"afterglow/pkg/display"
	"afterglow/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	headless := flag.Bool("headless", false, "Write PNG frames instead of opening a window")
	frames := flag.Int("frames", 0, "Number of frames to render (0 uses the config, or runs until closed)")
	outputDir := flag.String("out", "", "Output directory for headless frames")
	model := flag.String("model", "", "Scene description to load")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	writeConfig := flag.Bool("write-config", false, "Write the effective configuration to -config and exit")
	watch := flag.Bool("watch", false, "Reload bloom and distortion settings when -config changes")
	flag.Parse()

	milestones := metrics.NewMilestones()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *headless {
		cfg.Graphics.Headless = true
	}
	if *frames > 0 {
		cfg.Graphics.Frames = *frames
	}
	if *outputDir != "" {
		cfg.Graphics.OutputDir = *outputDir
	}
	if *model != "" {
		cfg.Scene.Model = *model
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *writeConfig {
		if err := config.SaveConfig(cfg, *configPath); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.Log.Level)
	if cfg.Log.File != "" {
		appLog, err = logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
	}
	defer appLog.Close()

	appLog.Info("Starting afterglow...")
	milestones.Mark("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var target engine.Target
	runFrames := 0
	if cfg.Graphics.Headless {
		seq, err := display.NewPNGSequence(cfg.Graphics.OutputDir, cfg.Graphics.Width, cfg.Graphics.Height, appLog)
		if err != nil {
			appLog.Fatalf("Failed to prepare output: %v", err)
		}
		target = seq
		runFrames = cfg.Graphics.Frames
		appLog.Infof("Headless: %d frames to %s", runFrames, cfg.Graphics.OutputDir)
	} else {
		caps, err := display.Probe()
		if err != nil {
			appLog.Fatalf("Graphics capability check failed: %v", err)
		}
		appLog.Infof("OpenGL %s (%s)", caps.Version, caps.Renderer)
		milestones.Mark("capabilities probed")

		screen, err := display.NewGLScreen(cfg.Graphics, appLog)
		if err != nil {
			appLog.Fatalf("Failed to open window: %v", err)
		}
		defer screen.Close()
		target = screen
		runFrames = *frames
	}

	eng, err := engine.NewEngine(cfg, appLog, target, milestones)
	if err != nil {
		appLog.Fatalf("Failed to initialize engine: %v", err)
	}

	if *watch {
		if err := eng.WatchConfig(ctx, *configPath); err != nil {
			appLog.Warnf("Live settings disabled: %v", err)
		} else {
			appLog.Infof("Watching %s for effect settings", *configPath)
		}
	}

	if cfg.Scene.Model != "" {
		eng.LoadModel(ctx, cfg.Scene.Model)
	} else {
		eng.AddModel(assets.Procedural(cfg.Scene.Seed, cfg.Scene.ProceduralCount))
		if err := eng.Composer().BuildSelection(); err != nil {
			appLog.Fatalf("Failed to build bloom selection: %v", err)
		}
	}

	appLog.Info("Engine initialized, starting render loop...")
	if err := eng.Run(ctx, runFrames); err != nil {
		appLog.Fatalf("Render loop failed: %v", err)
	}
}
