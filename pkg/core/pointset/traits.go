package pointset

import (
	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/orthtree"
)

// Traits stores point indices in the nodes of an orthtree. All nodes share a
// single index buffer: the contents of a node are a window of it, and a split
// reorders that window in place so each child gets a contiguous part.
type Traits struct {
	points []geom.Point
	bbox   geom.Bbox
	dim    int
}

var _ orthtree.Traits[[]uint32] = (*Traits)(nil)

func (tr *Traits) Dimension() int { return tr.dim }

func (tr *Traits) RootBbox() geom.Bbox { return tr.bbox }

func (tr *Traits) RootContents() []uint32 {
	buf := make([]uint32, len(tr.points))
	for i := range buf {
		buf[i] = uint32(i)
	}
	return buf
}

// LocateHalfspace must agree with the partition in Distribute.
func (tr *Traits) LocateHalfspace(center, coord float64) bool {
	return orthtree.UpperHalfspace(center, coord)
}

// Distribute partitions the window of n along the highest axis first, then
// recursively along the lower ones, so the children windows end up in child
// order.
func (tr *Traits) Distribute(n orthtree.NodeIndex, t *orthtree.Tree[[]uint32], center geom.Point) {
	tr.partition(n, t, center, t.Data(n), tr.dim-1, 0)
}

func (tr *Traits) partition(n orthtree.NodeIndex, t *orthtree.Tree[[]uint32], center geom.Point, items []uint32, axis, child int) {
	if axis < 0 {
		t.SetData(t.Child(n, child), items)
		return
	}
	lo, hi := 0, len(items)
	for lo < hi {
		if tr.LocateHalfspace(center[axis], tr.points[items[lo]][axis]) {
			hi--
			items[lo], items[hi] = items[hi], items[lo]
		} else {
			lo++
		}
	}
	tr.partition(n, t, center, items[:lo:lo], axis-1, child)
	tr.partition(n, t, center, items[lo:], axis-1, child|1<<axis)
}
