package display

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"afterglow/internal/logger"
	"afterglow/internal/util"
)

// PNGSequence writes every presented frame to dir as frame_00001.png,
// frame_00002.png and so on
type PNGSequence struct {
	dir    string
	width  int
	height int
	next   int
	logger *logger.Logger
}

// NewPNGSequence creates dir if needed
func NewPNGSequence(dir string, width, height int, log *logger.Logger) (*PNGSequence, error) {
	if err := util.CreateDirIfNotExist(dir); err != nil {
		return nil, fmt.Errorf("error creating output directory %s: %w", dir, err)
	}
	return &PNGSequence{dir: dir, width: width, height: height, next: 1, logger: log}, nil
}

// Size implements engine.Target
func (p *PNGSequence) Size() (int, int) { return p.width, p.height }

// Present implements engine.Target
func (p *PNGSequence) Present(img *image.RGBA) error {
	path := p.FramePath(p.next)
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	p.logger.Debugf("Wrote %s", path)
	p.next++
	return nil
}

// Written returns how many frames have been written
func (p *PNGSequence) Written() int { return p.next - 1 }

// FramePath returns the file name used for frame n, counting from 1
func (p *PNGSequence) FramePath(n int) string {
	return filepath.Join(p.dir, fmt.Sprintf("frame_%05d.png", n))
}
