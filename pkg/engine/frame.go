package engine

import (
	"image"
	"image/color"
	"math"

	"afterglow/internal/util"
	"afterglow/pkg/scene"
)

// Frame is one intermediate image of the pipeline: a color buffer plus,
// for each pixel, the renderable that produced it (nil for background).
type Frame struct {
	Color *image.RGBA
	Hits  []scene.Renderable
}

// NewFrame allocates a cleared frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Color: image.NewRGBA(image.Rect(0, 0, width, height)),
		Hits:  make([]scene.Renderable, width*height),
	}
}

// Width returns the frame width in pixels
func (f *Frame) Width() int { return f.Color.Rect.Dx() }

// Height returns the frame height in pixels
func (f *Frame) Height() int { return f.Color.Rect.Dy() }

// HitAt returns the renderable at (x, y), or nil
func (f *Frame) HitAt(x, y int) scene.Renderable {
	return f.Hits[y*f.Width()+x]
}

// CopyFrom makes f an exact copy of src. Both frames must have the same size.
func (f *Frame) CopyFrom(src *Frame) {
	copy(f.Color.Pix, src.Color.Pix)
	copy(f.Hits, src.Hits)
}

// sampleBilinear filters the color buffer at normalized uv, clamped to the edge
func (f *Frame) sampleBilinear(u, v float64) color.RGBA {
	w, h := f.Width(), f.Height()
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := f.pixel(x0, y0)
	c10 := f.pixel(x0+1, y0)
	c01 := f.pixel(x0, y0+1)
	c11 := f.pixel(x0+1, y0+1)

	mix := func(a, b, c, d uint8) uint8 {
		top := util.Lerp(float64(a), float64(b), tx)
		bottom := util.Lerp(float64(c), float64(d), tx)
		return uint8(math.Round(util.Lerp(top, bottom, ty)))
	}

	return color.RGBA{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: mix(c00.A, c10.A, c01.A, c11.A),
	}
}

// sampleNearest returns the hit under normalized uv, clamped to the edge
func (f *Frame) sampleNearest(u, v float64) scene.Renderable {
	w, h := f.Width(), f.Height()
	x := clampIndex(int(math.Floor(u*float64(w))), w)
	y := clampIndex(int(math.Floor(v*float64(h))), h)
	return f.Hits[y*w+x]
}

func (f *Frame) pixel(x, y int) color.RGBA {
	return f.Color.RGBAAt(clampIndex(x, f.Width()), clampIndex(y, f.Height()))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
