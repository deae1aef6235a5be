package assets

import (
	"context"
	"fmt"
	"os"

	"afterglow/internal/logger"
	"afterglow/internal/util"
)

// Loader reads scene description files
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a loader
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads and parses a scene description synchronously
func (l *Loader) Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading model %s: %w", path, err)
	}

	model, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if model.Name == "" {
		model.Name = util.GetFileNameWithoutExt(path)
	}

	l.logger.Debugf("Loaded model %q from %s (%d animations)", model.Name, path, len(model.Animations))
	return model, nil
}

// LoadAsync loads path in the background and calls exactly one of onLoad or
// onError from the loading goroutine. Callers must hand the result back to the
// render thread themselves; the scene must not be touched from the callback.
// If ctx is cancelled before loading finishes, onError receives ctx.Err().
func (l *Loader) LoadAsync(ctx context.Context, path string, onLoad func(*Model), onError func(error)) {
	go func() {
		model, err := l.Load(path)
		if ctxErr := ctx.Err(); ctxErr != nil {
			onError(ctxErr)
			return
		}
		if err != nil {
			onError(err)
			return
		}
		onLoad(model)
	}()
}
