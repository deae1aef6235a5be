package scene

// Node is any element of the scene graph
type Node interface {
	Name() string
	Children() []Node
	// AsObject exposes the embedded graph bookkeeping
	AsObject() *Object
}

// Renderable is implemented by nodes that produce fragments in the base render
type Renderable interface {
	Node
	// Intersect tests a ray given in the node's local space
	Intersect(r Ray) (Hit, bool)
	Surface() Material
}

// BloomTagged is implemented by nodes that carry a bloom eligibility flag
type BloomTagged interface {
	Node
	BloomEnabled() bool
}

// Hit is a ray intersection with a renderable node
type Hit struct {
	Distance float64
	Position Vector3
	Normal   Vector3
	Node     Renderable
}

// Object is the base graph node. It groups children and carries a local offset.
type Object struct {
	name     string
	parent   *Object
	children []Node

	// Position is relative to the parent
	Position Vector3
	Visible  bool
}

// NewGroup creates an empty, visible grouping node
func NewGroup(name string) *Object {
	return &Object{name: name, Visible: true}
}

// Name implements Node
func (o *Object) Name() string { return o.name }

// Children implements Node. The returned slice must not be modified.
func (o *Object) Children() []Node { return o.children }

// AsObject implements Node
func (o *Object) AsObject() *Object { return o }

// Parent returns the object this node is attached to, or nil
func (o *Object) Parent() *Object { return o.parent }

// Add attaches children, detaching each from any previous parent first
func (o *Object) Add(children ...Node) {
	for _, child := range children {
		co := child.AsObject()
		if co.parent != nil {
			co.parent.Remove(child)
		}
		co.parent = o
		o.children = append(o.children, child)
	}
}

// Remove detaches child. It reports whether child was attached here.
func (o *Object) Remove(child Node) bool {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i:i], o.children[i+1:]...)
			child.AsObject().parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and all descendants depth-first, parents before children.
// fn receives each node with its accumulated world offset.
func Traverse(n Node, fn func(node Node, world Vector3)) {
	traverse(n, Vector3{}, fn)
}

func traverse(n Node, parentWorld Vector3, fn func(Node, Vector3)) {
	world := parentWorld.Add(n.AsObject().Position)
	fn(n, world)
	for _, child := range n.Children() {
		traverse(child, world, fn)
	}
}
