package assets

import (
	"math"

	"afterglow/pkg/scene"
)

// Animation moves a node over time. Step is called once per frame on the
// render thread.
type Animation interface {
	Step(dt float64)
}

// Bob moves a node up and down around its starting position
type Bob struct {
	target    *scene.Object
	base      scene.Vector3
	amplitude float64
	speed     float64
	phase     float64
	time      float64
}

// NewBob creates a vertical oscillation around target's current position
func NewBob(target *scene.Object, amplitude, speed, phase float64) *Bob {
	return &Bob{
		target:    target,
		base:      target.Position,
		amplitude: amplitude,
		speed:     speed,
		phase:     phase,
	}
}

// Step implements Animation
func (b *Bob) Step(dt float64) {
	b.time += dt
	offset := b.amplitude * math.Sin(b.time*b.speed+b.phase)
	b.target.Position = b.base.Add(scene.V3(0, offset, 0))
}

// Orbit circles a node in the XZ plane around its starting position
type Orbit struct {
	target *scene.Object
	center scene.Vector3
	radius float64
	speed  float64
	phase  float64
	time   float64
}

// NewOrbit creates a horizontal circular motion around target's current position
func NewOrbit(target *scene.Object, radius, speed, phase float64) *Orbit {
	o := &Orbit{
		target: target,
		center: target.Position,
		radius: radius,
		speed:  speed,
		phase:  phase,
	}
	o.Step(0)
	return o
}

// Step implements Animation
func (o *Orbit) Step(dt float64) {
	o.time += dt
	angle := o.time*o.speed + o.phase
	o.target.Position = o.center.Add(scene.V3(o.radius*math.Cos(angle), 0, o.radius*math.Sin(angle)))
}
