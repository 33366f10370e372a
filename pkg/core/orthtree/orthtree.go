// Package orthtree implements a dimension-generic hierarchical subdivision of
// space (binary tree in 1D, quadtree in 2D, octree in 3D and so on).
//
// A Tree recursively splits an axis-aligned root box into 2^D children. Nodes
// are never allocated individually: they live in a struct-of-arrays node store
// and are addressed by a NodeIndex, children of a node always occupying one
// contiguous block of 2^D indices. Nodes are only ever added (by splitting a
// leaf), never removed, so an index stays valid for the life of the tree.
//
// What a node contains and how contents are pushed down on a split is decided
// by the Traits supplied at construction time (see the pointset package for a
// ready-made point cloud implementation).
//
// A Tree is not safe for concurrent use. Read-only methods may run in parallel
// with each other but never with Split, Refine or Grade.
package orthtree

import (
	"fmt"

	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/properties"
	"gonum.org/v1/gonum/floats"
)

// Traits supplies the domain-specific parts of a tree.
type Traits[T any] interface {
	// Dimension returns the number of axes, between 1 and MaxDimension.
	Dimension() int
	// RootBbox returns the region covered by the root node.
	RootBbox() geom.Bbox
	// RootContents returns the initial contents of the root node.
	RootContents() T
	// LocateHalfspace reports whether coord lies in the upper half of a node
	// split at center along one axis.
	LocateHalfspace(center, coord float64) bool
	// Distribute is called right after n has been split. It must move or copy
	// the contents of n into its children, which already exist.
	Distribute(n NodeIndex, t *Tree[T], center geom.Point)
}

// UpperHalfspace is the default half-space rule: coordinates equal to the
// center belong to the upper half.
func UpperHalfspace(center, coord float64) bool { return coord >= center }

// FuncTraits builds Traits out of plain values and functions. Nil functions
// fall back to zero contents, UpperHalfspace and no distribution.
type FuncTraits[T any] struct {
	Dim            int
	Bbox           geom.Bbox
	Contents       func() T
	Halfspace      func(center, coord float64) bool
	DistributeFunc func(n NodeIndex, t *Tree[T], center geom.Point)
}

func (f FuncTraits[T]) Dimension() int      { return f.Dim }
func (f FuncTraits[T]) RootBbox() geom.Bbox { return f.Bbox }

func (f FuncTraits[T]) RootContents() T {
	if f.Contents == nil {
		var zero T
		return zero
	}
	return f.Contents()
}

func (f FuncTraits[T]) LocateHalfspace(center, coord float64) bool {
	if f.Halfspace == nil {
		return UpperHalfspace(center, coord)
	}
	return f.Halfspace(center, coord)
}

func (f FuncTraits[T]) Distribute(n NodeIndex, t *Tree[T], center geom.Point) {
	if f.DistributeFunc != nil {
		f.DistributeFunc(n, t, center)
	}
}

const (
	propContents    = "contents"
	propDepths      = "depths"
	propCoordinates = "coordinates"
	propParents     = "parents"
	propChildren    = "children"
)

// Tree is an orthtree whose nodes carry contents of type T.
type Tree[T any] struct {
	traits Traits[T]
	dim    int
	degree int

	props    *properties.Container
	contents *properties.Array[T]
	depths   *properties.Array[uint8]
	coords   *properties.Array[GlobalCoordinates]
	parents  *properties.Array[NodeIndex]
	children *properties.Array[NodeIndex]

	bbox geom.Bbox
	// side lengths of a node per depth, one entry per depth reached so far
	sidePerDepth [][]float64
}

// New creates a tree made of a single root node covering traits.RootBbox()
// and holding traits.RootContents().
func New[T any](traits Traits[T]) (*Tree[T], error) {
	dim := traits.Dimension()
	if dim < 1 || dim > MaxDimension {
		return nil, fmt.Errorf("%w: %d (supported: 1 to %d)", ErrInvalidDimension, dim, MaxDimension)
	}
	root := traits.RootBbox()
	bbox, err := geom.NewBbox(root.Min, root.Max)
	if err != nil {
		return nil, fmt.Errorf("invalid root bounding box: %w", err)
	}
	if bbox.Dim() != dim {
		return nil, fmt.Errorf("%w: root bounding box has dimension %d, traits declare %d", ErrInvalidDimension, bbox.Dim(), dim)
	}

	t := &Tree[T]{
		traits: traits,
		dim:    dim,
		degree: 1 << dim,
		bbox:   bbox,
	}
	t.reset()
	return t, nil
}

// reset installs a fresh node store holding only the root.
func (t *Tree[T]) reset() {
	var zero T
	t.props = properties.NewContainer()
	t.contents, _ = properties.Add(t.props, propContents, zero)
	t.depths, _ = properties.Add[uint8](t.props, propDepths, 0)
	t.coords, _ = properties.Add(t.props, propCoordinates, GlobalCoordinates{})
	t.parents, _ = properties.Add(t.props, propParents, noNode)
	t.children, _ = properties.Add(t.props, propChildren, noNode)

	t.props.Emplace()
	t.sidePerDepth = [][]float64{t.bbox.Size()}
	t.contents.Set(t.Root(), t.traits.RootContents())
}

// bind looks the built-in arrays up in t.props.
func (t *Tree[T]) bind() {
	t.contents = mustGet[T](t.props, propContents)
	t.depths = mustGet[uint8](t.props, propDepths)
	t.coords = mustGet[GlobalCoordinates](t.props, propCoordinates)
	t.parents = mustGet[NodeIndex](t.props, propParents)
	t.children = mustGet[NodeIndex](t.props, propChildren)
}

func mustGet[V any](c *properties.Container, name string) *properties.Array[V] {
	a, err := properties.Get[V](c, name)
	if err != nil {
		panic(err)
	}
	return a
}

// Clone returns a deep copy of the node store and geometry. Contents are
// copied by assignment, so slices or maps held in T are shared.
func (t *Tree[T]) Clone() *Tree[T] {
	out := &Tree[T]{
		traits: t.traits,
		dim:    t.dim,
		degree: t.degree,
		props:  t.props.Clone(),
		bbox:   geom.Bbox{Min: t.bbox.Min.Clone(), Max: t.bbox.Max.Clone()},
	}
	out.bind()
	out.sidePerDepth = make([][]float64, len(t.sidePerDepth))
	for i, side := range t.sidePerDepth {
		out.sidePerDepth[i] = append([]float64(nil), side...)
	}
	return out
}

// Move transfers the whole node store, custom properties included, to a new
// tree. t is left as a valid single-root tree with fresh root contents.
func (t *Tree[T]) Move() *Tree[T] {
	out := &Tree[T]{
		traits:       t.traits,
		dim:          t.dim,
		degree:       t.degree,
		props:        t.props,
		bbox:         t.bbox,
		sidePerDepth: t.sidePerDepth,
	}
	out.bind()
	t.bbox = geom.Bbox{Min: t.bbox.Min.Clone(), Max: t.bbox.Max.Clone()}
	t.reset()
	return out
}

// Traits returns the traits the tree was built with.
func (t *Tree[T]) Traits() Traits[T] { return t.traits }

// Dimension returns the number of axes.
func (t *Tree[T]) Dimension() int { return t.dim }

// Degree returns the number of children of an internal node (2^D).
func (t *Tree[T]) Degree() int { return t.degree }

// Root returns the index of the root node.
func (t *Tree[T]) Root() NodeIndex { return 0 }

// IsRoot reports whether n is the root.
func (t *Tree[T]) IsRoot(n NodeIndex) bool { return n == 0 }

// MaxDepthReached returns the depth of the deepest node (0 for a lone root).
func (t *Tree[T]) MaxDepthReached() int { return len(t.sidePerDepth) - 1 }

// NodeCount returns the number of nodes, internal nodes included.
func (t *Tree[T]) NodeCount() int { return t.props.Len() }

// LeafCount returns the number of leaves.
func (t *Tree[T]) LeafCount() int {
	// every split turns one leaf into degree leaves
	return 1 + (t.NodeCount()-1)/t.degree*(t.degree-1)
}

// Properties exposes the node store so callers can attach their own per-node
// arrays with properties.Add. Arrays grow with the tree.
func (t *Tree[T]) Properties() *properties.Container { return t.props }

// Data returns the contents of n.
func (t *Tree[T]) Data(n NodeIndex) T { return t.contents.At(n) }

// SetData replaces the contents of n.
func (t *Tree[T]) SetData(n NodeIndex, v T) { t.contents.Set(n, v) }

// DataPtr returns a pointer to the contents of n. It is invalidated by the
// next split.
func (t *Tree[T]) DataPtr(n NodeIndex) *T { return t.contents.Ptr(n) }

// extendSides appends the side lengths of a newly reached depth.
func (t *Tree[T]) extendSides() {
	last := t.sidePerDepth[len(t.sidePerDepth)-1]
	t.sidePerDepth = append(t.sidePerDepth, floats.ScaleTo(make([]float64, t.dim), 0.5, last))
}
