package scene

// Material describes how a mesh is shaded
type Material struct {
	Color    Vector3 // linear rgb in [0,1]
	Emissive float64 // self illumination added on top of lighting
}

// Mesh is a renderable primitive that may be tagged for bloom
type Mesh struct {
	Object
	Shape    Shape
	Material Material
	bloom    bool
}

// NewMesh creates a visible mesh
func NewMesh(name string, shape Shape, material Material) *Mesh {
	return &Mesh{
		Object:   Object{name: name, Visible: true},
		Shape:    shape,
		Material: material,
	}
}

// Intersect implements Renderable
func (m *Mesh) Intersect(r Ray) (Hit, bool) {
	t, normal, ok := m.Shape.Intersect(r)
	if !ok {
		return Hit{}, false
	}
	return Hit{Distance: t, Position: r.At(t), Normal: normal, Node: m}, true
}

// Surface implements Renderable
func (m *Mesh) Surface() Material { return m.Material }

// BloomEnabled implements BloomTagged
func (m *Mesh) BloomEnabled() bool { return m.bloom }

// SetBloom sets the bloom marker. The pipeline only ever reads it.
func (m *Mesh) SetBloom(enabled bool) { m.bloom = enabled }
