package orthtree

import "fmt"

// SplitPredicate decides whether a leaf must be split during Refine.
type SplitPredicate[T any] func(n NodeIndex, t *Tree[T]) bool

// Split turns the leaf n into an internal node with 2^D children, then lets
// the traits distribute the contents of n around its barycenter.
//
// Indices of existing nodes are unchanged, but pointers from DataPtr or
// properties.Array.Ptr taken before the call are invalidated.
func (t *Tree[T]) Split(n NodeIndex) error {
	if !t.IsLeaf(n) {
		return fmt.Errorf("%w: node %d", ErrInvalidSplit, n)
	}
	if t.Depth(n) >= MaxDepth {
		return fmt.Errorf("%w: node %d is at depth %d", ErrDepthLimit, n, t.Depth(n))
	}
	t.split(n)
	return nil
}

// split assumes n is a leaf below MaxDepth.
func (t *Tree[T]) split(n NodeIndex) {
	first := t.props.EmplaceGroup(t.degree)
	t.children.Set(n, first)

	parent := t.coords.At(n)
	depth := t.depths.At(n) + 1
	for i := 0; i < t.degree; i++ {
		c := first + NodeIndex(i)
		var gc GlobalCoordinates
		for a := 0; a < t.dim; a++ {
			gc[a] = 2*parent[a] + uint32(i>>a&1)
		}
		t.coords.Set(c, gc)
		t.depths.Set(c, depth)
		t.parents.Set(c, n)
	}

	if int(depth) == len(t.sidePerDepth) {
		t.extendSides()
	}

	t.traits.Distribute(n, t, t.Barycenter(n))
}

// Refine walks the tree breadth-first from the root and splits every leaf for
// which pred holds, including the leaves it creates along the way. Internal
// nodes are never split again but their subtrees are still visited, so Refine
// can be called repeatedly with different predicates to deepen a tree.
//
// A predicate that keeps asking for splits ends with ErrDepthLimit once a
// node at MaxDepth is reached.
func (t *Tree[T]) Refine(pred SplitPredicate[T]) error {
	todo := []NodeIndex{t.Root()}
	for head := 0; head < len(todo); head++ {
		n := todo[head]
		if t.IsLeaf(n) && pred(n, t) {
			if err := t.Split(n); err != nil {
				return err
			}
		}
		if t.IsLeaf(n) {
			continue
		}
		for i := 0; i < t.degree; i++ {
			todo = append(todo, t.Child(n, i))
		}
	}
	return nil
}

// Grade splits leaves until no two face-adjacent leaves differ in depth by
// more than one. Nodes are only added. It returns the number of splits.
func (t *Tree[T]) Grade() int {
	queue := t.Collect(Leaves(t))
	dirs := t.Directions()
	splits := 0

	for head := 0; head < len(queue); head++ {
		n := queue[head]
		// an earlier iteration may have split it
		if !t.IsLeaf(n) {
			continue
		}
		for _, dir := range dirs {
			for {
				nb, ok := t.AdjacentNode(n, dir)
				if !ok || !t.IsLeaf(nb) {
					break
				}
				// siblings share the depth of n
				if t.Parent(nb) == t.Parent(n) {
					break
				}
				if t.Depth(n)-t.Depth(nb) <= 1 {
					break
				}
				t.split(nb)
				splits++
				for i := 0; i < t.degree; i++ {
					queue = append(queue, t.Child(nb, i))
				}
			}
		}
	}
	return splits
}

// MaxDepthPredicate splits every node shallower than depth.
func MaxDepthPredicate[T any](depth int) SplitPredicate[T] {
	return func(n NodeIndex, t *Tree[T]) bool {
		return t.Depth(n) < depth
	}
}

// MaxInliers splits nodes holding more than bucket items.
func MaxInliers[E any](bucket int) SplitPredicate[[]E] {
	return func(n NodeIndex, t *Tree[[]E]) bool {
		return len(t.Data(n)) > bucket
	}
}

// MaxDepthAndMaxInliers splits nodes holding more than bucket items as long
// as they are shallower than depth.
func MaxDepthAndMaxInliers[E any](depth, bucket int) SplitPredicate[[]E] {
	return func(n NodeIndex, t *Tree[[]E]) bool {
		return t.Depth(n) < depth && len(t.Data(n)) > bucket
	}
}
