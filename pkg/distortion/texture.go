package distortion

import "math"

// Texel is one sample of the distortion field
type Texel struct {
	VX, VY    float64 // displacement direction, each in [-1, 1]
	Intensity float64 // displacement magnitude in [0, 1]
}

// Texture is a read-only view of the distortion field. Only the owning
// Source writes to it, and only inside Update.
type Texture struct {
	width  int
	height int
	texels []Texel
}

func newTexture(width, height int) *Texture {
	return &Texture{
		width:  width,
		height: height,
		texels: make([]Texel, width*height),
	}
}

// Width returns the texture width in texels
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels
func (t *Texture) Height() int { return t.height }

// At returns the texel at integer coordinates, clamped to the edge
func (t *Texture) At(x, y int) Texel {
	if x < 0 {
		x = 0
	} else if x >= t.width {
		x = t.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.height {
		y = t.height - 1
	}
	return t.texels[y*t.width+x]
}

// Sample bilinearly filters the field at normalized uv. v grows downwards.
func (t *Texture) Sample(u, v float64) Texel {
	fx := u*float64(t.width) - 0.5
	fy := v*float64(t.height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	t00 := t.At(x0, y0)
	t10 := t.At(x0+1, y0)
	t01 := t.At(x0, y0+1)
	t11 := t.At(x0+1, y0+1)

	mix := func(a, b, c, d float64) float64 {
		top := a + (b-a)*tx
		bottom := c + (d-c)*tx
		return top + (bottom-top)*ty
	}

	return Texel{
		VX:        mix(t00.VX, t10.VX, t01.VX, t11.VX),
		VY:        mix(t00.VY, t10.VY, t01.VY, t11.VY),
		Intensity: mix(t00.Intensity, t10.Intensity, t01.Intensity, t11.Intensity),
	}
}

// Snapshot copies the field, for comparisons across frames
func (t *Texture) Snapshot() []Texel {
	out := make([]Texel, len(t.texels))
	copy(out, t.texels)
	return out
}

func (t *Texture) clear() {
	for i := range t.texels {
		t.texels[i] = Texel{}
	}
}
