package orthtree

// shape is the subset of a tree needed to compare topologies; it lets trees
// with different content types be compared.
type shape interface {
	Root() NodeIndex
	IsLeaf(n NodeIndex) bool
	Child(n NodeIndex, i int) NodeIndex
	Degree() int
	GlobalCoordinates(n NodeIndex) GlobalCoordinates
}

// IsTopologyEqual reports whether both trees have the same node structure:
// matching leaf status, children and global coordinates, recursively from
// the roots. Contents and geometry are ignored.
func IsTopologyEqual(a, b shape) bool {
	if a.Degree() != b.Degree() {
		return false
	}
	return topologyEqual(a, a.Root(), b, b.Root())
}

func topologyEqual(a shape, an NodeIndex, b shape, bn NodeIndex) bool {
	if a.IsLeaf(an) != b.IsLeaf(bn) {
		return false
	}
	if !a.IsLeaf(an) {
		for i := 0; i < a.Degree(); i++ {
			if !topologyEqual(a, a.Child(an, i), b, b.Child(bn, i)) {
				return false
			}
		}
	}
	return a.GlobalCoordinates(an) == b.GlobalCoordinates(bn)
}

// Equal reports whether o covers the same region with the same node
// structure. Contents are not compared.
func (t *Tree[T]) Equal(o *Tree[T]) bool {
	if !t.bbox.Equal(o.bbox) {
		return false
	}
	for i, side := range t.sidePerDepth[0] {
		if o.sidePerDepth[0][i] != side {
			return false
		}
	}
	if t.MaxDepthReached() != o.MaxDepthReached() {
		return false
	}
	return IsTopologyEqual(t, o)
}
