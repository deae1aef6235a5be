package scene

// Scene is the root of a scene graph plus its global lighting
type Scene struct {
	Root       *Object
	Background Vector3 // linear rgb shown where no ray hits
	Ambient    float64
	LightDir   Vector3 // direction towards the light
}

// New creates an empty scene with a single directional light
func New() *Scene {
	return &Scene{
		Root:       NewGroup("root"),
		Background: V3(0, 0, 0),
		Ambient:    0.1,
		LightDir:   V3(0, 1, 0),
	}
}

// Add attaches nodes to the scene root
func (s *Scene) Add(nodes ...Node) {
	s.Root.Add(nodes...)
}

// Remove detaches a top-level node
func (s *Scene) Remove(node Node) bool {
	return s.Root.Remove(node)
}

// Traverse visits every node from the root, parents before children
func (s *Scene) Traverse(fn func(node Node, world Vector3)) {
	Traverse(s.Root, fn)
}

// FindByName returns the first node with the given name, depth-first
func (s *Scene) FindByName(name string) Node {
	var found Node
	s.Traverse(func(n Node, _ Vector3) {
		if found == nil && n.Name() == name {
			found = n
		}
	})
	return found
}
