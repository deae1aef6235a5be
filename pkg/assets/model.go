// Package assets loads scene descriptions and generates fallback scenes.
package assets

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"afterglow/pkg/scene"
)

// Model is a loaded scene subtree plus its animations
type Model struct {
	Name       string
	Root       *scene.Object
	Animations []Animation
}

// modelFile is the YAML layout of a scene description
type modelFile struct {
	Name       string          `yaml:"name"`
	Nodes      []nodeDesc      `yaml:"nodes"`
	Animations []animationDesc `yaml:"animations"`
}

type nodeDesc struct {
	Name     string     `yaml:"name"`
	Shape    string     `yaml:"shape"` // group, sphere, ellipsoid, cylinder, plane
	Position [3]float64 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
	Radii    [3]float64 `yaml:"radii"`
	Height   float64    `yaml:"height"`
	HalfSize float64    `yaml:"half_size"`
	Color    [3]float64 `yaml:"color"`
	Emissive float64    `yaml:"emissive"`
	Bloom    bool       `yaml:"bloom"`
	Hidden   bool       `yaml:"hidden"`
	Children []nodeDesc `yaml:"children"`
}

type animationDesc struct {
	Node      string  `yaml:"node"`
	Type      string  `yaml:"type"` // bob, orbit
	Amplitude float64 `yaml:"amplitude"`
	Radius    float64 `yaml:"radius"`
	Speed     float64 `yaml:"speed"`
	Phase     float64 `yaml:"phase"`
}

// Parse decodes a YAML scene description. Name stays empty when the file
// does not set one.
func Parse(data []byte) (*Model, error) {
	var file modelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing model: %w", err)
	}
	if len(file.Nodes) == 0 {
		return nil, errors.New("model has no nodes")
	}

	rootName := file.Name
	if rootName == "" {
		rootName = "model"
	}
	root := scene.NewGroup(rootName)
	byName := make(map[string]scene.Node)

	for i, nd := range file.Nodes {
		n, err := buildNode(nd, byName)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		root.Add(n)
	}

	model := &Model{Name: file.Name, Root: root}
	for i, ad := range file.Animations {
		anim, err := buildAnimation(ad, byName)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		model.Animations = append(model.Animations, anim)
	}

	return model, nil
}

func buildNode(nd nodeDesc, byName map[string]scene.Node) (scene.Node, error) {
	var node scene.Node

	material := scene.Material{Color: scene.FromArray(nd.Color), Emissive: nd.Emissive}
	switch strings.ToLower(nd.Shape) {
	case "", "group":
		node = scene.NewGroup(nd.Name)
	case "sphere":
		if nd.Radius <= 0 {
			return nil, fmt.Errorf("sphere %q: radius must be positive", nd.Name)
		}
		node = newMesh(nd, scene.Sphere{Radius: nd.Radius}, material)
	case "ellipsoid":
		radii := scene.FromArray(nd.Radii)
		if radii.X <= 0 || radii.Y <= 0 || radii.Z <= 0 {
			return nil, fmt.Errorf("ellipsoid %q: radii must be positive", nd.Name)
		}
		node = newMesh(nd, scene.Ellipsoid{Radii: radii}, material)
	case "cylinder":
		if nd.Radius <= 0 || nd.Height <= 0 {
			return nil, fmt.Errorf("cylinder %q: radius and height must be positive", nd.Name)
		}
		node = newMesh(nd, scene.Cylinder{Radius: nd.Radius, Height: nd.Height}, material)
	case "plane":
		if nd.HalfSize <= 0 {
			return nil, fmt.Errorf("plane %q: half_size must be positive", nd.Name)
		}
		node = newMesh(nd, scene.Plane{HalfSize: nd.HalfSize}, material)
	default:
		return nil, fmt.Errorf("unknown shape %q", nd.Shape)
	}

	obj := node.AsObject()
	obj.Position = scene.FromArray(nd.Position)
	obj.Visible = !nd.Hidden

	if nd.Name != "" {
		if _, dup := byName[nd.Name]; !dup {
			byName[nd.Name] = node
		}
	}

	for _, cd := range nd.Children {
		child, err := buildNode(cd, byName)
		if err != nil {
			return nil, err
		}
		obj.Add(child)
	}

	return node, nil
}

func newMesh(nd nodeDesc, shape scene.Shape, material scene.Material) *scene.Mesh {
	m := scene.NewMesh(nd.Name, shape, material)
	m.SetBloom(nd.Bloom)
	return m
}

func buildAnimation(ad animationDesc, byName map[string]scene.Node) (Animation, error) {
	node, ok := byName[ad.Node]
	if !ok {
		return nil, fmt.Errorf("unknown node %q", ad.Node)
	}
	target := node.AsObject()

	switch strings.ToLower(ad.Type) {
	case "bob":
		return NewBob(target, ad.Amplitude, ad.Speed, ad.Phase), nil
	case "orbit":
		return NewOrbit(target, ad.Radius, ad.Speed, ad.Phase), nil
	default:
		return nil, fmt.Errorf("unknown animation type %q", ad.Type)
	}
}
