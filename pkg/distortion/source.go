// Package distortion maintains the time-varying displacement field sampled
// by the distortion pass.
package distortion

import (
	"image"
	"image/color"
	"math"

	noise "afterglow/internal/math"
	"afterglow/internal/util"
	"afterglow/pkg/config"
)

// TrailPoint is one touch in the fading trail
type TrailPoint struct {
	X, Y   float64 // normalized position, y grows downwards
	Age    int     // ticks since the touch
	Force  float64
	VX, VY float64 // unit direction of travel
}

// Source owns the distortion texture and advances it one tick per Update
type Source struct {
	cfg      config.DistortionConfig
	texture  *Texture
	trail    []TrailPoint
	ticks    uint64
	noiseGen *noise.NoiseGenerator
	debug    *image.RGBA
}

// New creates a source with an empty field. cfg.Debug enables DebugImage.
func New(cfg config.DistortionConfig) *Source {
	s := &Source{
		cfg:      cfg,
		texture:  newTexture(cfg.Size, cfg.Size),
		noiseGen: noise.NewNoiseGenerator(cfg.Seed),
	}
	if cfg.Debug {
		s.debug = image.NewRGBA(image.Rect(0, 0, cfg.Size, cfg.Size))
	}
	return s
}

// Texture returns the current field
func (s *Source) Texture() *Texture { return s.texture }

// Ticks returns how many times Update has run
func (s *Source) Ticks() uint64 { return s.ticks }

// Time returns the simulated time in seconds
func (s *Source) Time() float64 { return float64(s.ticks) * s.cfg.TickSeconds }

// Trail returns a copy of the live trail points
func (s *Source) Trail() []TrailPoint {
	out := make([]TrailPoint, len(s.trail))
	copy(out, s.trail)
	return out
}

// DebugImage returns a visualization of the field, or nil when debug is off.
// Red and green encode direction, blue encodes intensity.
func (s *Source) DebugImage() *image.RGBA { return s.debug }

// AddTouch appends a trail point at normalized (u, v). Force and direction
// come from the distance to the previous point.
func (s *Source) AddTouch(u, v float64) {
	p := TrailPoint{X: u, Y: v}

	if n := len(s.trail); n > 0 {
		last := s.trail[n-1]
		dx := u - last.X
		dy := v - last.Y
		dd := dx*dx + dy*dy
		if dd > 0 {
			d := math.Sqrt(dd)
			p.Force = math.Min(dd*10000, 1)
			p.VX = dx / d
			p.VY = dy / d
		}
	}

	s.trail = append(s.trail, p)
}

// Update advances the field by exactly one tick and redraws it
func (s *Source) Update() {
	s.ticks++
	s.texture.clear()

	maxAge := float64(s.cfg.MaxAge)
	live := s.trail[:0]
	for _, p := range s.trail {
		f := p.Force * s.cfg.Speed * (1 - float64(p.Age)/maxAge)
		p.X += p.VX * f
		p.Y += p.VY * f
		p.Age++
		if p.Age <= s.cfg.MaxAge {
			live = append(live, p)
		}
	}
	s.trail = live

	for _, p := range s.trail {
		s.drawPoint(p)
	}

	if s.cfg.Ambient > 0 {
		s.applyAmbient()
	}

	if s.debug != nil {
		s.drawDebug()
	}
}

// pointIntensity eases in over the first 30% of a point's life and out over the rest
func (s *Source) pointIntensity(p TrailPoint) float64 {
	maxAge := float64(s.cfg.MaxAge)
	age := float64(p.Age)

	var intensity float64
	if age < maxAge*0.3 {
		intensity = util.EaseOutSine(age / (maxAge * 0.3))
	} else {
		intensity = util.EaseOutSine(1 - (age-maxAge*0.3)/(maxAge*0.7))
	}
	return intensity * p.Force
}

func (s *Source) drawPoint(p TrailPoint) {
	intensity := s.pointIntensity(p)
	if intensity <= 0 {
		return
	}

	size := float64(s.texture.width)
	radius := s.cfg.Radius * size
	if radius <= 0 {
		return
	}

	cx := p.X * size
	cy := p.Y * float64(s.texture.height)

	minX := util.ClampInt(int(math.Floor(cx-radius)), 0, s.texture.width-1)
	maxX := util.ClampInt(int(math.Ceil(cx+radius)), 0, s.texture.width-1)
	minY := util.ClampInt(int(math.Floor(cy-radius)), 0, s.texture.height-1)
	maxY := util.ClampInt(int(math.Ceil(cy+radius)), 0, s.texture.height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= radius {
				continue
			}
			falloff := 1 - d/radius
			v := intensity * falloff * falloff

			// lighten: the strongest contribution owns the texel
			i := y*s.texture.width + x
			if v > s.texture.texels[i].Intensity {
				s.texture.texels[i] = Texel{VX: p.VX, VY: p.VY, Intensity: v}
			}
		}
	}
}

// applyAmbient folds a slowly drifting noise vector field into the texture
func (s *Source) applyAmbient() {
	t := s.Time() * 0.5
	scale := s.cfg.AmbientScale
	w, h := s.texture.width, s.texture.height

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w) * scale
			v := (float64(y) + 0.5) / float64(h) * scale

			ax := s.noiseGen.FBM3D(u, v, t, 3, 2, 0.5, s.cfg.Seed)
			ay := s.noiseGen.FBM3D(u, v, t, 3, 2, 0.5, s.cfg.Seed+101)

			i := y*w + x
			cur := s.texture.texels[i]
			cx := cur.VX*cur.Intensity + ax*s.cfg.Ambient
			cy := cur.VY*cur.Intensity + ay*s.cfg.Ambient

			mag := math.Hypot(cx, cy)
			if mag == 0 {
				s.texture.texels[i] = Texel{}
				continue
			}
			s.texture.texels[i] = Texel{
				VX:        cx / mag,
				VY:        cy / mag,
				Intensity: math.Min(mag, 1),
			}
		}
	}
}

func (s *Source) drawDebug() {
	w, h := s.texture.width, s.texture.height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := s.texture.texels[y*w+x]
			s.debug.SetRGBA(x, y, color.RGBA{
				R: uint8(util.Clamp((t.VX+1)/2, 0, 1) * 255),
				G: uint8(util.Clamp((t.VY+1)/2, 0, 1) * 255),
				B: uint8(util.Clamp(t.Intensity, 0, 1) * 255),
				A: 255,
			})
		}
	}
}
