package orthtree

import "github.com/sanonone/kektortree/pkg/core/geom"

// RootBbox returns a copy of the region covered by the tree.
func (t *Tree[T]) RootBbox() geom.Bbox {
	return geom.Bbox{Min: t.bbox.Min.Clone(), Max: t.bbox.Max.Clone()}
}

// SideLength returns a copy of the side lengths of a node at depth d, or nil
// when no node has reached that depth.
func (t *Tree[T]) SideLength(d int) []float64 {
	if d < 0 || d >= len(t.sidePerDepth) {
		return nil
	}
	return append([]float64(nil), t.sidePerDepth[d]...)
}

// Bbox returns the region covered by node n (not the extent of its contents).
//
// Corners are derived from the global coordinates and the per-depth side
// length. The last node along an axis uses the root max corner directly so
// that halving errors never leave a gap at the outer boundary.
func (t *Tree[T]) Bbox(n NodeIndex) geom.Bbox {
	d := t.Depth(n)
	size := t.sidePerDepth[d]
	gc := t.coords.At(n)
	last := uint64(1)<<d - 1

	b := geom.Bbox{Min: make(geom.Point, t.dim), Max: make(geom.Point, t.dim)}
	for i := 0; i < t.dim; i++ {
		b.Min[i] = t.bbox.Min[i] + float64(gc[i])*size[i]
		if uint64(gc[i]) == last {
			b.Max[i] = t.bbox.Max[i]
		} else {
			b.Max[i] = t.bbox.Min[i] + float64(uint64(gc[i])+1)*size[i]
		}
	}
	return b
}

// Barycenter returns the center of node n, the point it is split around.
// It is computed from the global coordinates, with the same expression the
// child corners use, rather than from Bbox.
func (t *Tree[T]) Barycenter(n NodeIndex) geom.Point {
	size := t.sidePerDepth[t.Depth(n)]
	gc := t.coords.At(n)

	c := make(geom.Point, t.dim)
	for i := 0; i < t.dim; i++ {
		c[i] = t.bbox.Min[i] + float64(2*uint64(gc[i])+1)*(size[i]/2)
	}
	return c
}
