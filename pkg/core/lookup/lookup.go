// Package lookup indexes the nodes of an orthtree by depth and global
// coordinates, in Z-order, so a node can be found from its position alone.
package lookup

import (
	"github.com/tidwall/btree"

	"github.com/sanonone/kektortree/pkg/core/orthtree"
)

// Source is what Build needs from a tree. *orthtree.Tree[T] implements it.
type Source interface {
	orthtree.Navigator
	Dimension() int
	GlobalCoordinates(n orthtree.NodeIndex) orthtree.GlobalCoordinates
}

type entry struct {
	depth  int
	coords orthtree.GlobalCoordinates
	node   orthtree.NodeIndex
}

// Index is a snapshot: it does not follow later splits of the tree.
type Index struct {
	dim   int
	nodes *btree.BTreeG[entry]
}

// Build indexes every node of src.
func Build(src Source) *Index {
	ix := &Index{dim: src.Dimension()}
	ix.nodes = btree.NewBTreeG[entry](ix.less)
	for n := range orthtree.Walk(orthtree.Preorder(src)) {
		ix.nodes.Set(entry{depth: src.Depth(n), coords: src.GlobalCoordinates(n), node: n})
	}
	return ix
}

// lessMSB reports whether the most significant set bit of x is below the one
// of y.
func lessMSB(x, y uint32) bool { return x < y && x < x^y }

// less orders by depth, then in Z-order with axis 0 as the least significant
// interleaved bit, which is also the order of children in the tree.
func (ix *Index) less(a, b entry) bool {
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	axis := 0
	for i := 1; i < ix.dim; i++ {
		if !lessMSB(a.coords[i]^b.coords[i], a.coords[axis]^b.coords[axis]) {
			axis = i
		}
	}
	return a.coords[axis] < b.coords[axis]
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return ix.nodes.Len() }

// Find returns the node at exactly depth and coords.
func (ix *Index) Find(depth int, coords orthtree.GlobalCoordinates) (orthtree.NodeIndex, bool) {
	e, ok := ix.nodes.Get(entry{depth: depth, coords: coords})
	return e.node, ok
}

// Enclosing returns the deepest node, at depth or above, covering the cell
// coords designates at depth. When no node of that depth exists there, the
// result is the leaf containing the cell.
func (ix *Index) Enclosing(depth int, coords orthtree.GlobalCoordinates) (orthtree.NodeIndex, bool) {
	for ; depth >= 0; depth-- {
		if n, ok := ix.Find(depth, coords); ok {
			return n, true
		}
		for i := 0; i < ix.dim; i++ {
			coords[i] >>= 1
		}
	}
	return 0, false
}

// Neighbor returns the node sharing the face of the cell (depth, coords) in
// direction dir, of the same size or larger. It agrees with
// orthtree.Tree.AdjacentNode on the indexed tree.
func (ix *Index) Neighbor(depth int, coords orthtree.GlobalCoordinates, dir orthtree.Direction) (orthtree.NodeIndex, bool) {
	axis := dir.Axis()
	if axis >= ix.dim {
		return 0, false
	}
	c := uint64(coords[axis])
	if dir.Positive() {
		if c+1 >= uint64(1)<<depth {
			return 0, false
		}
		coords[axis]++
	} else {
		if c == 0 {
			return 0, false
		}
		coords[axis]--
	}
	return ix.Enclosing(depth, coords)
}

// AscendDepth calls fn for the nodes at depth in Z-order until fn returns false.
func (ix *Index) AscendDepth(depth int, fn func(n orthtree.NodeIndex, coords orthtree.GlobalCoordinates) bool) {
	ix.nodes.Ascend(entry{depth: depth}, func(e entry) bool {
		if e.depth != depth {
			return false
		}
		return fn(e.node, e.coords)
	})
}
