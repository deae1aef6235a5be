package assets

import (
	"fmt"
	"math"

	noise "afterglow/internal/math"
	"afterglow/pkg/scene"
)

// Procedural generates a small scene: a ground slab, stone pillars and
// rocks, and glowing orbs. Every third orb is tagged for bloom; one bright
// untagged beacon shows that brightness alone does not glow.
func Procedural(seed int64, count int) *Model {
	gen := noise.NewNoiseGenerator(seed)
	root := scene.NewGroup("procedural")
	model := &Model{Name: "procedural", Root: root}

	ground := scene.NewMesh("ground", scene.Plane{HalfSize: 20}, scene.Material{Color: scene.V3(0.25, 0.27, 0.3)})
	root.Add(ground)

	for i := 0; i < count; i++ {
		angle := float64(i)/float64(max(count, 1))*2*math.Pi + gen.RandomRange(-0.2, 0.2)
		dist := gen.RandomRange(3, 9)
		x := math.Cos(angle) * dist
		z := math.Sin(angle) * dist

		// terrain-like jitter keeps the ring from looking too regular
		jitter := gen.Perlin2D(x*0.3, z*0.3, seed)

		switch i % 3 {
		case 0:
			height := 1.5 + gen.RandomFloat()*2.5 + jitter
			pillar := scene.NewMesh(fmt.Sprintf("pillar-%d", i),
				scene.Cylinder{Radius: 0.3 + gen.RandomFloat()*0.3, Height: math.Max(height, 0.5)},
				scene.Material{Color: scene.V3(0.55, 0.52, 0.5)})
			pillar.Position = scene.V3(x, 0, z)
			root.Add(pillar)
		case 1:
			size := 0.4 + gen.RandomFloat()*0.8
			rock := scene.NewMesh(fmt.Sprintf("rock-%d", i),
				scene.Ellipsoid{Radii: scene.V3(size*1.4, size*0.7, size)},
				scene.Material{Color: scene.V3(0.4, 0.38, 0.35)})
			rock.Position = scene.V3(x, size*0.5, z)
			root.Add(rock)
		default:
			hue := gen.RandomFloat()
			orb := scene.NewMesh(fmt.Sprintf("orb-%d", i),
				scene.Sphere{Radius: 0.35 + gen.RandomFloat()*0.25},
				scene.Material{Color: orbColor(hue), Emissive: 0.8})
			orb.Position = scene.V3(x, 1.2+jitter*0.5, z)
			orb.SetBloom(true)
			root.Add(orb)
			model.Animations = append(model.Animations, NewBob(orb.AsObject(), 0.3, 1.5+gen.RandomFloat(), hue*2*math.Pi))
		}
	}

	beacon := scene.NewMesh("beacon", scene.Sphere{Radius: 0.5}, scene.Material{Color: scene.V3(1, 1, 1), Emissive: 1})
	beacon.Position = scene.V3(0, 3.5, 4)
	root.Add(beacon)

	return model
}

// orbColor maps hue in [0,1) to a saturated warm-to-cool color
func orbColor(hue float64) scene.Vector3 {
	return scene.V3(
		0.5+0.5*math.Cos(2*math.Pi*hue),
		0.5+0.5*math.Cos(2*math.Pi*(hue+1.0/3)),
		0.5+0.5*math.Cos(2*math.Pi*(hue+2.0/3)),
	)
}
