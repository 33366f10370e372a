package pointset

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/orthtree"
	"github.com/sanonone/kektortree/pkg/core/types"
)

// NearestNeighbors returns the k points closest to q, nearest first. Ties are
// broken by point index. q may lie outside the root box.
func (ix *Index) NearestNeighbors(q geom.Point, k int) ([]types.Candidate, error) {
	if err := ix.checkDim(q); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	best := make(maxHeap, 0, k)
	ix.nearest(ix.tree.Root(), q, k, &best)

	out := make([]types.Candidate, len(best))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&best).(types.Candidate)
	}
	return out, nil
}

// radius returns the current search radius, squared.
func radius(best maxHeap, k int) float64 {
	if len(best) < k {
		return math.Inf(1)
	}
	return best[0].Distance * best[0].Distance
}

func (ix *Index) nearest(n orthtree.NodeIndex, q geom.Point, k int, best *maxHeap) {
	t := ix.tree
	if t.IsLeaf(n) {
		for _, id := range t.Data(n) {
			c := types.Candidate{Id: id, Distance: geom.Distance(q, ix.points[id])}
			if len(*best) < k {
				heap.Push(best, c)
			} else if !best.worse(c) {
				(*best)[0] = c
				heap.Fix(best, 0)
			}
		}
		return
	}

	// closest children first, so the sphere shrinks early
	type child struct {
		n    orthtree.NodeIndex
		dist float64
	}
	children := make([]child, t.Degree())
	for i := range children {
		c := t.Child(n, i)
		children[i] = child{n: c, dist: geom.SquaredDistance(q, t.Barycenter(c))}
	}
	slices.SortFunc(children, func(a, b child) int { return cmp.Compare(a.dist, b.dist) })

	for _, c := range children {
		if len(t.Data(c.n)) == 0 {
			continue
		}
		if t.Bbox(c.n).SquaredDistance(q) > radius(*best, k) {
			continue
		}
		ix.nearest(c.n, q, k, best)
	}
}

// WithinRadius returns the indices, in increasing order, of the points at
// distance at most r from center.
func (ix *Index) WithinRadius(center geom.Point, r float64) ([]uint32, error) {
	if err := ix.checkDim(center); err != nil {
		return nil, err
	}
	sphere := geom.Sphere{Center: center, Radius: r}
	return ix.collect(sphere, sphere.Contains), nil
}

// Range returns the indices, in increasing order, of the points inside the
// closed box b.
func (ix *Index) Range(b geom.Bbox) ([]uint32, error) {
	if err := ix.checkDim(b.Min); err != nil {
		return nil, err
	}
	return ix.collect(b, b.Contains), nil
}

func (ix *Index) collect(q geom.Intersector, keep func(geom.Point) bool) []uint32 {
	var out []uint32
	for _, n := range ix.tree.IntersectedNodes(q, nil) {
		for _, id := range ix.tree.Data(n) {
			if keep(ix.points[id]) {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}
