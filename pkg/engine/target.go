package engine

import (
	"image"
)

// Target is the visible framebuffer the terminal pass writes to
type Target interface {
	Size() (width, height int)
	Present(img *image.RGBA) error
}

// MemoryTarget keeps the last presented frame in memory
type MemoryTarget struct {
	width, height int
	last          *image.RGBA
	presented     int
}

// NewMemoryTarget creates an in-memory target of the given size
func NewMemoryTarget(width, height int) *MemoryTarget {
	return &MemoryTarget{width: width, height: height}
}

// Size implements Target
func (t *MemoryTarget) Size() (int, int) { return t.width, t.height }

// Resize changes the size reported to the composer
func (t *MemoryTarget) Resize(width, height int) {
	t.width, t.height = width, height
}

// Present implements Target. It copies img.
func (t *MemoryTarget) Present(img *image.RGBA) error {
	if t.last == nil || t.last.Rect != img.Rect {
		t.last = image.NewRGBA(img.Rect)
	}
	copy(t.last.Pix, img.Pix)
	t.presented++
	return nil
}

// Last returns the most recently presented frame, or nil
func (t *MemoryTarget) Last() *image.RGBA { return t.last }

// Presented returns how many frames were presented
func (t *MemoryTarget) Presented() int { return t.presented }
