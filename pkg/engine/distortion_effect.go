package engine

import (
	"afterglow/pkg/distortion"
)

// DistortionEffect displaces the frame by the source's field. The effect
// advances the source once per frame through BeforeRender.
type DistortionEffect struct {
	source   *distortion.Source
	Strength float64
}

// NewDistortionEffect binds an effect to a distortion source
func NewDistortionEffect(source *distortion.Source, strength float64) *DistortionEffect {
	return &DistortionEffect{source: source, Strength: strength}
}

// Name implements Effect
func (e *DistortionEffect) Name() string { return "distortion" }

// Source returns the bound distortion source
func (e *DistortionEffect) Source() *distortion.Source { return e.source }

// BeforeRender advances the distortion field by one tick
func (e *DistortionEffect) BeforeRender() {
	e.source.Update()
}

// Apply implements Effect
func (e *DistortionEffect) Apply(src, dst *Frame) {
	if e.Strength == 0 {
		dst.CopyFrom(src)
		return
	}

	tex := e.source.Texture()
	w, h := src.Width(), src.Height()

	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)
			t := tex.Sample(u, v)

			i := y*w + x
			amount := t.Intensity * e.Strength
			if amount == 0 {
				dst.Color.SetRGBA(x, y, src.Color.RGBAAt(x, y))
				dst.Hits[i] = src.Hits[i]
				continue
			}

			su := u - t.VX*amount
			sv := v - t.VY*amount
			dst.Color.SetRGBA(x, y, src.sampleBilinear(su, sv))
			dst.Hits[i] = src.sampleNearest(su, sv)
		}
	}
}
