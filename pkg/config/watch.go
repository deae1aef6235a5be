package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads filePath whenever it is written or replaced and passes each
// valid result to onChange. Load and validation failures go to onError and
// the previous settings stay in effect. Both callbacks run on the watcher
// goroutine. Watching stops when ctx is done.
func Watch(ctx context.Context, filePath string, onChange func(*Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating config watcher: %w", err)
	}

	// editors often replace the file, so watch the directory
	target := filepath.Clean(filePath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("error watching %s: %w", filePath, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				switch {
				case event.Op&fsnotify.Write == fsnotify.Write ||
					event.Op&fsnotify.Create == fsnotify.Create:
					reload(filePath, onChange, onError)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onError(err)
			}
		}
	}()

	return nil
}

func reload(filePath string, onChange func(*Config), onError func(error)) {
	cfg, err := LoadConfig(filePath)
	if err != nil {
		onError(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		onError(fmt.Errorf("invalid config %s: %w", filePath, err))
		return
	}
	onChange(cfg)
}
