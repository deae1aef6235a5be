package engine

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	xdraw "golang.org/x/image/draw"

	"afterglow/internal/util"
	"afterglow/pkg/config"
)

// BlendMode selects how the glow is composited onto the frame
type BlendMode int

const (
	BlendAdd BlendMode = iota
	BlendScreen
)

// ParseBlendMode converts a config string to a BlendMode. Unknown names fall back to add.
func ParseBlendMode(name string) BlendMode {
	switch strings.ToLower(name) {
	case "screen":
		return BlendScreen
	default:
		return BlendAdd
	}
}

// BloomEffect adds a blurred glow around bright fragments of selected objects.
// Fragments of objects outside the selection never glow.
type BloomEffect struct {
	selection *Selection

	Intensity  float64
	Threshold  float64
	Smoothing  float64
	Radius     float64
	Resolution float64
	Blend      BlendMode

	mask *image.RGBA
	glow *image.RGBA
}

// NewBloomEffect creates a bloom effect reading the given selection
func NewBloomEffect(selection *Selection, cfg config.BloomConfig) *BloomEffect {
	return &BloomEffect{
		selection:  selection,
		Intensity:  cfg.Intensity,
		Threshold:  cfg.Threshold,
		Smoothing:  cfg.Smoothing,
		Radius:     cfg.Radius,
		Resolution: cfg.Resolution,
		Blend:      ParseBlendMode(cfg.Blend),
	}
}

// Name implements Effect
func (e *BloomEffect) Name() string { return "bloom" }

// Selection returns the set this effect reads
func (e *BloomEffect) Selection() *Selection { return e.selection }

// Apply implements Effect
func (e *BloomEffect) Apply(src, dst *Frame) {
	dst.CopyFrom(src)

	if e.Intensity <= 0 || e.selection.Len() == 0 {
		return
	}
	if !e.extract(src) {
		return
	}

	w, h := src.Width(), src.Height()
	gw := max(1, int(math.Round(float64(w)*e.Resolution)))
	gh := max(1, int(math.Round(float64(h)*e.Resolution)))

	small := e.mask
	if gw != w || gh != h {
		small = transform.Resize(e.mask, gw, gh, transform.Linear)
	}
	if e.Radius > 0 {
		small = blur.Gaussian(small, e.Radius*e.Resolution)
	}

	if e.glow == nil || e.glow.Rect.Dx() != w || e.glow.Rect.Dy() != h {
		e.glow = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	xdraw.BiLinear.Scale(e.glow, e.glow.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	e.composite(dst.Color)
}

// extract writes the thresholded selected fragments into the mask. It reports
// whether any fragment passed.
func (e *BloomEffect) extract(src *Frame) bool {
	w, h := src.Width(), src.Height()
	if e.mask == nil || e.mask.Rect.Dx() != w || e.mask.Rect.Dy() != h {
		e.mask = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	found := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e.mask.SetRGBA(x, y, color.RGBA{A: 255})

			hit := src.Hits[y*w+x]
			if hit == nil || !e.selection.Has(hit) {
				continue
			}

			c := src.Color.RGBAAt(x, y)
			lum := util.Luminance(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
			k := util.SmoothStep(e.Threshold, e.Threshold+e.Smoothing, lum)
			if k <= 0 {
				continue
			}

			e.mask.SetRGBA(x, y, color.RGBA{
				R: uint8(math.Round(float64(c.R) * k)),
				G: uint8(math.Round(float64(c.G) * k)),
				B: uint8(math.Round(float64(c.B) * k)),
				A: 255,
			})
			found = true
		}
	}
	return found
}

// composite blends the scaled glow onto dst. Zero glow leaves a pixel untouched.
func (e *BloomEffect) composite(dst *image.RGBA) {
	for i := 0; i < len(dst.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			g := float64(e.glow.Pix[i+c]) * e.Intensity
			if g <= 0 {
				continue
			}
			glow := int(math.Min(255, math.Round(g)))
			base := int(dst.Pix[i+c])

			switch e.Blend {
			case BlendScreen:
				dst.Pix[i+c] = uint8(255 - (255-base)*(255-glow)/255)
			default:
				dst.Pix[i+c] = uint8(min(255, base+glow))
			}
		}
	}
}
