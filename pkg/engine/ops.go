package engine

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/lookup"
	"github.com/sanonone/kektortree/pkg/core/orthtree"
	"github.com/sanonone/kektortree/pkg/core/pointset"
	"github.com/sanonone/kektortree/pkg/core/types"
	"github.com/sanonone/kektortree/pkg/metrics"
)

// Cell is a node of an index tree as seen from outside the engine.
type Cell struct {
	Node   orthtree.NodeIndex
	Depth  int
	Coords []uint32
	Bbox   geom.Bbox
	Leaf   bool
	Points int
}

// --- Read operations (shared lock) ---

// read runs fn under the read lock of the index and times it as op.
func (e *Engine) read(name, op string, fn func(ix *index) error) error {
	ix, err := e.get(name)
	if err != nil {
		return err
	}
	if e.opts.Metrics {
		timer := prometheus.NewTimer(metrics.QueryDuration.WithLabelValues(name, op))
		defer timer.ObserveDuration()
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	// a failed Create leaves the index unbuilt
	if ix.cells == nil {
		return fmt.Errorf("%w: %q", ErrIndexNotFound, name)
	}
	return fn(ix)
}

func cellOf(ps *pointset.Index, n orthtree.NodeIndex) Cell {
	t := ps.Tree()
	gc := t.GlobalCoordinates(n)
	return Cell{
		Node:   n,
		Depth:  t.Depth(n),
		Coords: append([]uint32(nil), gc[:t.Dimension()]...),
		Bbox:   t.Bbox(n),
		Leaf:   t.IsLeaf(n),
		Points: len(t.Data(n)),
	}
}

// Locate returns the leaf containing p.
func (e *Engine) Locate(name string, p geom.Point) (Cell, error) {
	var out Cell
	err := e.read(name, "locate", func(ix *index) error {
		n, err := ix.points.Locate(p)
		if err != nil {
			return err
		}
		out = cellOf(ix.points, n)
		return nil
	})
	return out, err
}

// Neighbors returns the leaf containing p followed by the nodes sharing one
// of its faces, as returned by the Z-order lookup. Neighbours are not
// necessarily leaves.
func (e *Engine) Neighbors(name string, p geom.Point) (Cell, []Cell, error) {
	var leaf Cell
	var out []Cell
	err := e.read(name, "neighbors", func(ix *index) error {
		t := ix.points.Tree()
		n, err := t.Locate(p)
		if err != nil {
			return err
		}
		leaf = cellOf(ix.points, n)
		for _, dir := range t.Directions() {
			if nb, ok := ix.cells.Neighbor(t.Depth(n), t.GlobalCoordinates(n), dir); ok {
				out = append(out, cellOf(ix.points, nb))
			}
		}
		return nil
	})
	return leaf, out, err
}

// Cell looks a node up by depth and global coordinates. It reports false when
// the tree has no node there.
func (e *Engine) Cell(name string, depth int, coords []uint32) (Cell, bool, error) {
	var out Cell
	var found bool
	err := e.read(name, "cell", func(ix *index) error {
		if len(coords) != ix.points.Dimension() {
			return fmt.Errorf("%w: %d coordinates for dimension %d", geom.ErrDimensionMismatch, len(coords), ix.points.Dimension())
		}
		var gc orthtree.GlobalCoordinates
		copy(gc[:], coords)
		var n orthtree.NodeIndex
		if n, found = ix.cells.Find(depth, gc); found {
			out = cellOf(ix.points, n)
		}
		return nil
	})
	return out, found, err
}

// Nearest returns the k points closest to q, nearest first.
func (e *Engine) Nearest(name string, q geom.Point, k int) ([]types.Candidate, error) {
	var out []types.Candidate
	err := e.read(name, "nearest", func(ix *index) (err error) {
		out, err = ix.points.NearestNeighbors(q, k)
		return err
	})
	return out, err
}

// WithinRadius returns the ids of the points at distance at most r from c.
func (e *Engine) WithinRadius(name string, c geom.Point, r float64) ([]uint32, error) {
	var out []uint32
	err := e.read(name, "radius", func(ix *index) (err error) {
		out, err = ix.points.WithinRadius(c, r)
		return err
	})
	return out, err
}

// Range returns the ids of the points inside b.
func (e *Engine) Range(name string, b geom.Bbox) ([]uint32, error) {
	var out []uint32
	err := e.read(name, "range", func(ix *index) (err error) {
		out, err = ix.points.Range(b)
		return err
	})
	return out, err
}

// Dump writes the tree of an index, one node per line.
func (e *Engine) Dump(name string, w io.Writer) error {
	return e.read(name, "dump", func(ix *index) error {
		return ix.points.Tree().Dump(w)
	})
}

// --- Write operations (exclusive lock) ---

// write runs fn under the write lock of the index, then refreshes the lookup
// table and the gauges.
func (e *Engine) write(name, phase string, fn func(ps *pointset.Index) (int, error)) (int, error) {
	ix, err := e.get(name)
	if err != nil {
		return 0, err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.cells == nil {
		return 0, fmt.Errorf("%w: %q", ErrIndexNotFound, name)
	}

	splits, err := fn(ix.points)
	e.countSplits(name, phase, splits)
	if splits > 0 {
		ix.cells = lookup.Build(ix.points.Tree())
	}
	info := ix.info()
	e.publish(info)

	level := zerolog.InfoLevel
	if err != nil {
		level = zerolog.WarnLevel
	}
	e.log.WithLevel(level).
		Err(err).
		Str("index", name).
		Str("phase", phase).
		Int("splits", splits).
		Int("nodes", info.Nodes).
		Int("depth", info.MaxDepth).
		Msg("index refined")
	return splits, err
}

// Refine splits leaves holding more than bucketSize points until maxDepth.
// Calling it with the build parameters of the index is a no-op.
func (e *Engine) Refine(name string, maxDepth, bucketSize int) (int, error) {
	return e.write(name, "refine", func(ps *pointset.Index) (int, error) {
		return ps.Build(maxDepth, bucketSize)
	})
}

// Grade balances an index so that face-adjacent leaves differ in depth by at
// most one.
func (e *Engine) Grade(name string) (int, error) {
	return e.write(name, "grade", func(ps *pointset.Index) (int, error) {
		return ps.Grade(), nil
	})
}
