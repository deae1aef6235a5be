package engine

import "afterglow/pkg/scene"

// Selection is an identity-keyed set of scene nodes. Membership never depends
// on names or field values, only on which node it is.
type Selection struct {
	members map[scene.Node]struct{}
	order   []scene.Node
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{members: make(map[scene.Node]struct{})}
}

// Add inserts nodes. Adding a node twice has no effect.
func (s *Selection) Add(nodes ...scene.Node) {
	for _, n := range nodes {
		if _, ok := s.members[n]; ok {
			continue
		}
		s.members[n] = struct{}{}
		s.order = append(s.order, n)
	}
}

// Remove deletes n and reports whether it was present
func (s *Selection) Remove(n scene.Node) bool {
	if _, ok := s.members[n]; !ok {
		return false
	}
	delete(s.members, n)
	for i, m := range s.order {
		if m == n {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports membership
func (s *Selection) Has(n scene.Node) bool {
	_, ok := s.members[n]
	return ok
}

// Len returns the number of members
func (s *Selection) Len() int { return len(s.order) }

// Clear empties the selection
func (s *Selection) Clear() {
	clear(s.members)
	s.order = nil
}

// Nodes returns the members in insertion order
func (s *Selection) Nodes() []scene.Node {
	out := make([]scene.Node, len(s.order))
	copy(out, s.order)
	return out
}
