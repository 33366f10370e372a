package orthtree

import (
	"fmt"

	"github.com/sanonone/kektortree/pkg/core/geom"
)

// Locate returns the leaf containing p. Points on a split plane follow the
// traits' LocateHalfspace rule.
func (t *Tree[T]) Locate(p geom.Point) (NodeIndex, error) {
	if p.Dim() != t.dim {
		return 0, fmt.Errorf("%w: point has %d coordinates, tree has dimension %d", ErrOutOfBounds, p.Dim(), t.dim)
	}
	if !t.bbox.Contains(p) {
		return 0, fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, p, t.bbox)
	}

	n := t.Root()
	for !t.IsLeaf(n) {
		center := t.Barycenter(n)
		var local LocalCoordinates
		for i := 0; i < t.dim; i++ {
			if t.traits.LocateHalfspace(center[i], p[i]) {
				local |= 1 << i
			}
		}
		n = t.Child(n, int(local))
	}
	return n, nil
}

// IntersectedNodes appends to out every leaf whose box intersects q, depth
// first and in child order, and returns the extended slice.
func (t *Tree[T]) IntersectedNodes(q geom.Intersector, out []NodeIndex) []NodeIndex {
	return t.intersected(q.IntersectsBbox, t.Root(), out)
}

// IntersectedNodesFunc is IntersectedNodes with a plain predicate.
func (t *Tree[T]) IntersectedNodesFunc(pred func(geom.Bbox) bool, out []NodeIndex) []NodeIndex {
	return t.intersected(pred, t.Root(), out)
}

func (t *Tree[T]) intersected(pred func(geom.Bbox) bool, n NodeIndex, out []NodeIndex) []NodeIndex {
	if !pred(t.Bbox(n)) {
		return out
	}
	if t.IsLeaf(n) {
		return append(out, n)
	}
	for i := 0; i < t.degree; i++ {
		out = t.intersected(pred, t.Child(n, i), out)
	}
	return out
}
