// Package pointset indexes a fixed set of points with an orthtree and answers
// proximity queries on it.
package pointset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/orthtree"
	"github.com/sanonone/kektortree/pkg/core/types"
)

// ErrNoPoints is returned by New when given no points.
var ErrNoPoints = errors.New("no points to index")

type options struct {
	cubic   bool
	padding float64
	bbox    *geom.Bbox
}

// Option customizes the root box of an Index.
type Option func(*options)

// WithCubicBbox controls whether the bounding box of the points is enlarged
// to a hypercube so that every node has equal sides. Enabled by default.
func WithCubicBbox(cubic bool) Option {
	return func(o *options) { o.cubic = cubic }
}

// WithPadding grows the root box by ratio of its size on each side.
func WithPadding(ratio float64) Option {
	return func(o *options) { o.padding = ratio }
}

// WithBbox fixes the root box. Every point must lie inside it.
func WithBbox(b geom.Bbox) Option {
	return func(o *options) { o.bbox = &b }
}

// Index is an orthtree over a point slice. Nodes hold the indices of the
// points they contain, internal nodes included.
type Index struct {
	points []geom.Point
	tree   *orthtree.Tree[[]uint32]
}

// New creates an unrefined index: a single root holding every point. The
// points slice is retained and must not be modified afterwards.
func New(points []geom.Point, opts ...Option) (*Index, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	o := options{cubic: true}
	for _, opt := range opts {
		opt(&o)
	}

	dim := points[0].Dim()
	for i, p := range points {
		if p.Dim() != dim {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, expected %d", geom.ErrDimensionMismatch, i, p.Dim(), dim)
		}
	}

	var bbox geom.Bbox
	if o.bbox != nil {
		bbox = *o.bbox
		if bbox.Dim() != dim {
			return nil, fmt.Errorf("%w: bounding box has %d coordinates, points have %d", geom.ErrDimensionMismatch, bbox.Dim(), dim)
		}
		for i, p := range points {
			if !bbox.Contains(p) {
				return nil, fmt.Errorf("%w: point %d %v", orthtree.ErrOutOfBounds, i, p)
			}
		}
	} else {
		var err error
		bbox, err = geom.BoundingBox(points)
		if err != nil {
			return nil, err
		}
		if o.cubic {
			bbox = bbox.Cubic()
		}
		if o.padding > 0 {
			bbox = bbox.Pad(o.padding)
		}
	}

	tree, err := orthtree.New[[]uint32](&Traits{points: points, bbox: bbox, dim: dim})
	if err != nil {
		return nil, err
	}
	return &Index{points: points, tree: tree}, nil
}

// Tree exposes the underlying orthtree.
func (ix *Index) Tree() *orthtree.Tree[[]uint32] { return ix.tree }

// Len returns the number of indexed points.
func (ix *Index) Len() int { return len(ix.points) }

// Point returns the i-th indexed point.
func (ix *Index) Point(i uint32) geom.Point { return ix.points[i] }

// Dimension returns the dimension of the points.
func (ix *Index) Dimension() int { return ix.tree.Dimension() }

// Build splits nodes holding more than bucketSize points until maxDepth.
// It returns the number of splits.
func (ix *Index) Build(maxDepth, bucketSize int) (int, error) {
	return ix.Refine(orthtree.MaxDepthAndMaxInliers[uint32](maxDepth, bucketSize))
}

// Refine applies an arbitrary split predicate and returns the number of splits.
func (ix *Index) Refine(pred orthtree.SplitPredicate[[]uint32]) (int, error) {
	before := ix.tree.NodeCount()
	err := ix.tree.Refine(pred)
	return (ix.tree.NodeCount() - before) / ix.tree.Degree(), err
}

// Grade balances the tree, see orthtree.Tree.Grade.
func (ix *Index) Grade() int { return ix.tree.Grade() }

// Locate returns the leaf containing p.
func (ix *Index) Locate(p geom.Point) (orthtree.NodeIndex, error) { return ix.tree.Locate(p) }

// PointsIn returns a copy of the indices of the points inside node n.
func (ix *Index) PointsIn(n orthtree.NodeIndex) []uint32 { return slices.Clone(ix.tree.Data(n)) }

// Stats summarizes the tree.
func (ix *Index) Stats() types.Stats {
	s := types.Stats{
		Dimension: ix.tree.Dimension(),
		Nodes:     ix.tree.NodeCount(),
		Leaves:    ix.tree.LeafCount(),
		MaxDepth:  ix.tree.MaxDepthReached(),
		Points:    len(ix.points),
	}
	for n := range ix.tree.Traverse(orthtree.Leaves(ix.tree)) {
		s.MaxLeafPoints = max(s.MaxLeafPoints, len(ix.tree.Data(n)))
	}
	return s
}

func (ix *Index) checkDim(p geom.Point) error {
	if p.Dim() != ix.tree.Dimension() {
		return fmt.Errorf("%w: query has %d coordinates, index has %d", geom.ErrDimensionMismatch, p.Dim(), ix.tree.Dimension())
	}
	return nil
}
