package engine

import (
	"image/color"
	"math"

	"afterglow/internal/util"
	"afterglow/pkg/config"
	"afterglow/pkg/scene"
)

// placed is a visible renderable with its accumulated world offset
type placed struct {
	node  scene.Renderable
	world scene.Vector3
}

// RenderPass raytraces the scene from the camera into a fresh frame. It is
// always the first pass and ignores its input.
type RenderPass struct {
	passBase
	scene  *scene.Scene
	camera *scene.Camera
	config config.RenderConfig

	// reused between frames
	objects []placed
}

// NewRenderPass creates the base scene render pass
func NewRenderPass(sc *scene.Scene, camera *scene.Camera, cfg config.RenderConfig) *RenderPass {
	return &RenderPass{
		passBase: passBase{name: "render"},
		scene:    sc,
		camera:   camera,
		config:   cfg,
	}
}

// Render implements Pass
func (p *RenderPass) Render(_, out *Frame) error {
	p.collect()

	w, h := out.Width(), out.Height()
	background := toRGBA(p.scene.Background)
	lightDir := p.scene.LightDir.Normalize()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ray := p.camera.Ray(x, y, w, h)
			hit, ok := p.trace(ray)
			i := y*w + x
			if !ok {
				out.Color.SetRGBA(x, y, background)
				out.Hits[i] = nil
				continue
			}
			out.Color.SetRGBA(x, y, toRGBA(p.shade(hit, lightDir)))
			out.Hits[i] = hit.Node
		}
	}
	return nil
}

// collect gathers visible renderables. An invisible node hides its subtree.
func (p *RenderPass) collect() {
	p.objects = p.objects[:0]
	var walk func(n scene.Node, parentWorld scene.Vector3)
	walk = func(n scene.Node, parentWorld scene.Vector3) {
		obj := n.AsObject()
		if !obj.Visible {
			return
		}
		world := parentWorld.Add(obj.Position)
		if r, ok := n.(scene.Renderable); ok {
			p.objects = append(p.objects, placed{node: r, world: world})
		}
		for _, child := range n.Children() {
			walk(child, world)
		}
	}
	walk(p.scene.Root, scene.Vector3{})
}

// trace finds the nearest hit along ray within the configured distance
func (p *RenderPass) trace(ray scene.Ray) (scene.Hit, bool) {
	nearest := scene.Hit{Distance: math.MaxFloat64}
	found := false

	for _, obj := range p.objects {
		local := scene.Ray{Origin: ray.Origin.Sub(obj.world), Direction: ray.Direction}
		hit, ok := obj.node.Intersect(local)
		if !ok || hit.Distance >= nearest.Distance {
			continue
		}
		if p.config.MaxDistance > 0 && hit.Distance > p.config.MaxDistance {
			continue
		}
		hit.Position = hit.Position.Add(obj.world)
		nearest = hit
		found = true
	}

	return nearest, found
}

// shade applies Lambert diffuse, ambient and emissive terms
func (p *RenderPass) shade(hit scene.Hit, lightDir scene.Vector3) scene.Vector3 {
	mat := hit.Node.Surface()
	diffuse := math.Max(0, hit.Normal.Dot(lightDir))
	light := p.scene.Ambient + diffuse + mat.Emissive
	return mat.Color.Mul(light)
}

// SetSize implements Pass
func (p *RenderPass) SetSize(width, height int) {}

// Dispose implements Pass
func (p *RenderPass) Dispose() {
	p.objects = nil
}

func toRGBA(c scene.Vector3) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(util.Clamp(c.X, 0, 1) * 255)),
		G: uint8(math.Round(util.Clamp(c.Y, 0, 1) * 255)),
		B: uint8(math.Round(util.Clamp(c.Z, 0, 1) * 255)),
		A: 255,
	}
}
