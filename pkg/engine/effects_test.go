package engine

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afterglow/pkg/config"
	"afterglow/pkg/distortion"
	"afterglow/pkg/scene"
)

// paintFrame fills a frame with a dark background and two white squares:
// left is tagged, right is not
func paintFrame(left, right scene.Renderable) *Frame {
	f := NewFrame(64, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			f.Color.SetRGBA(x, y, color.RGBA{R: 10, G: 10, B: 20, A: 255})
		}
	}
	square := func(x0, y0 int, r scene.Renderable) {
		for y := y0; y < y0+8; y++ {
			for x := x0; x < x0+8; x++ {
				f.Color.SetRGBA(x, y, color.RGBA{R: 250, G: 240, B: 230, A: 255})
				f.Hits[y*64+x] = r
			}
		}
	}
	square(8, 12, left)
	square(48, 12, right)
	return f
}

func testMeshes() (*scene.Mesh, *scene.Mesh) {
	left := scene.NewMesh("left", scene.Sphere{Radius: 1}, scene.Material{})
	right := scene.NewMesh("right", scene.Sphere{Radius: 1}, scene.Material{})
	return left, right
}

func TestBloomGlowsOnlyAroundSelected(t *testing.T) {
	left, right := testMeshes()
	src := paintFrame(left, right)

	sel := NewSelection()
	sel.Add(left)
	dst := NewFrame(64, 32)
	NewBloomEffect(sel, config.DefaultConfig().Bloom).Apply(src, dst)

	// just outside the selected square
	assert.Greater(t, dst.Color.RGBAAt(6, 15).R, src.Color.RGBAAt(6, 15).R)

	// the right half never receives glow
	for y := 0; y < 32; y++ {
		for x := 36; x < 64; x++ {
			require.Equal(t, src.Color.RGBAAt(x, y), dst.Color.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.Equal(t, src.Hits, dst.Hits)
}

func TestBloomNoOpCases(t *testing.T) {
	left, right := testMeshes()

	cases := map[string]func(e *BloomEffect, sel *Selection){
		"zero intensity": func(e *BloomEffect, sel *Selection) {
			sel.Add(left)
			e.Intensity = 0
		},
		"empty selection": func(e *BloomEffect, sel *Selection) {},
		"only unselected bright": func(e *BloomEffect, sel *Selection) {
			sel.Add(scene.NewMesh("elsewhere", scene.Sphere{Radius: 1}, scene.Material{}))
		},
		"below threshold": func(e *BloomEffect, sel *Selection) {
			sel.Add(left)
			e.Threshold = 0.99
			e.Smoothing = 0
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			src := paintFrame(left, right)
			sel := NewSelection()
			e := NewBloomEffect(sel, config.DefaultConfig().Bloom)
			setup(e, sel)

			dst := NewFrame(64, 32)
			e.Apply(src, dst)
			assert.Equal(t, src.Color.Pix, dst.Color.Pix)
		})
	}
}

func TestBloomScreenBlend(t *testing.T) {
	left, right := testMeshes()
	src := paintFrame(left, right)

	cfg := config.DefaultConfig().Bloom
	cfg.Blend = "screen"
	sel := NewSelection()
	sel.Add(left)

	e := NewBloomEffect(sel, cfg)
	assert.Equal(t, BlendScreen, e.Blend)

	dst := NewFrame(64, 32)
	e.Apply(src, dst)
	for i, v := range dst.Color.Pix {
		assert.GreaterOrEqual(t, v, src.Color.Pix[i])
	}
	assert.NotEqual(t, src.Color.Pix, dst.Color.Pix)
}

func TestParseBlendMode(t *testing.T) {
	assert.Equal(t, BlendAdd, ParseBlendMode("add"))
	assert.Equal(t, BlendScreen, ParseBlendMode("Screen"))
	assert.Equal(t, BlendAdd, ParseBlendMode("mystery"))
}

func touchedSource() *distortion.Source {
	cfg := config.DefaultConfig().Distortion
	cfg.Size = 32
	cfg.MaxAge = 16
	cfg.Ambient = 0
	s := distortion.New(cfg)
	s.AddTouch(0.2, 0.5)
	s.AddTouch(0.3, 0.5)
	s.Update()
	return s
}

func TestDistortionZeroStrengthIsIdentity(t *testing.T) {
	left, right := testMeshes()
	src := paintFrame(left, right)
	dst := NewFrame(64, 32)

	NewDistortionEffect(touchedSource(), 0).Apply(src, dst)
	assert.Equal(t, src.Color.Pix, dst.Color.Pix)
	assert.Equal(t, src.Hits, dst.Hits)
}

func TestDistortionDisplacesNearTouch(t *testing.T) {
	left, right := testMeshes()
	src := paintFrame(left, right)
	dst := NewFrame(64, 32)

	e := NewDistortionEffect(touchedSource(), 0.5)
	e.Apply(src, dst)
	assert.NotEqual(t, src.Color.Pix, dst.Color.Pix)

	// far from the trail the field is zero and pixels pass through
	assert.Equal(t, src.Color.RGBAAt(60, 2), dst.Color.RGBAAt(60, 2))
	assert.Same(t, right, dst.HitAt(50, 14))
}

func TestDistortionBeforeRenderTicks(t *testing.T) {
	s := distortion.New(config.DefaultConfig().Distortion)
	pass := NewEffectPass("distortion", NewDistortionEffect(s, 0.2))

	pass.BeforeRender()
	pass.BeforeRender()
	assert.Equal(t, uint64(2), s.Ticks())
}

type tintEffect struct {
	name string
	add  uint8
}

func (e tintEffect) Name() string { return e.name }

func (e tintEffect) Apply(src, dst *Frame) {
	dst.CopyFrom(src)
	for i := 0; i < len(dst.Color.Pix); i += 4 {
		dst.Color.Pix[i] = dst.Color.Pix[i]/2 + e.add
	}
}

func TestEffectPassMergingKeepsOrder(t *testing.T) {
	left, right := testMeshes()
	src := paintFrame(left, right)

	first := tintEffect{name: "halve-then-10", add: 10}
	second := tintEffect{name: "halve-then-100", add: 100}

	merged := NewFrame(64, 32)
	require.NoError(t, NewEffectPass("merged", first, second).Render(src, merged))

	mid := NewFrame(64, 32)
	separate := NewFrame(64, 32)
	require.NoError(t, NewEffectPass("one", first).Render(src, mid))
	require.NoError(t, NewEffectPass("two", second).Render(mid, separate))

	assert.Equal(t, separate.Color.Pix, merged.Color.Pix)

	swapped := NewFrame(64, 32)
	require.NoError(t, NewEffectPass("swapped", second, first).Render(src, swapped))
	assert.NotEqual(t, merged.Color.Pix, swapped.Color.Pix)
}

func TestEmptyEffectPassCopies(t *testing.T) {
	left, right := testMeshes()
	src := paintFrame(left, right)
	dst := NewFrame(64, 32)
	require.NoError(t, NewEffectPass("empty").Render(src, dst))
	assert.Equal(t, src.Color.Pix, dst.Color.Pix)
}

func TestSelectionSet(t *testing.T) {
	left, right := testMeshes()
	sel := NewSelection()

	sel.Add(left, right, left)
	assert.Equal(t, 2, sel.Len())
	assert.Equal(t, []scene.Node{left, right}, sel.Nodes())

	assert.True(t, sel.Remove(left))
	assert.False(t, sel.Remove(left))
	assert.False(t, sel.Has(left))
	assert.Equal(t, []scene.Node{right}, sel.Nodes())

	sel.Clear()
	assert.Equal(t, 0, sel.Len())
	assert.Empty(t, sel.Nodes())
}

func TestFrameSampling(t *testing.T) {
	f := NewFrame(2, 1)
	f.Color.SetRGBA(0, 0, color.RGBA{R: 0, A: 255})
	f.Color.SetRGBA(1, 0, color.RGBA{R: 200, A: 255})

	assert.Equal(t, uint8(0), f.sampleBilinear(0, 0.5).R)
	assert.Equal(t, uint8(100), f.sampleBilinear(0.5, 0.5).R)
	assert.Equal(t, uint8(200), f.sampleBilinear(5, 0.5).R)
	assert.Nil(t, f.sampleNearest(-1, -1))
}
