package orthtree

import (
	"errors"
	"fmt"
)

// ErrCorrupted is returned by Validate.
var ErrCorrupted = errors.New("corrupted tree")

// Validate checks the structural invariants of the node store: every node is
// reachable from the root exactly once, children form contiguous blocks whose
// parent, depth and coordinates agree with the parent, and the side table
// covers the deepest node. It is meant for tests and debugging.
func (t *Tree[T]) Validate() error {
	count := t.NodeCount()
	if count == 0 {
		return fmt.Errorf("%w: empty node store", ErrCorrupted)
	}
	if (count-1)%t.degree != 0 {
		return fmt.Errorf("%w: %d nodes is not 1 + k*%d", ErrCorrupted, count, t.degree)
	}
	if t.parents.At(t.Root()) != noNode || t.Depth(t.Root()) != 0 {
		return fmt.Errorf("%w: root has a parent or non-zero depth", ErrCorrupted)
	}

	seen := newNodeSet(count)
	seen.add(t.Root())
	deepest := 0
	todo := []NodeIndex{t.Root()}
	for head := 0; head < len(todo); head++ {
		n := todo[head]
		deepest = max(deepest, t.Depth(n))
		first := t.children.At(n)
		if first == noNode {
			continue
		}
		if int(first)+t.degree > count {
			return fmt.Errorf("%w: children of %d start at %d past the end", ErrCorrupted, n, first)
		}
		pc := t.coords.At(n)
		for i := 0; i < t.degree; i++ {
			c := first + NodeIndex(i)
			if seen.has(c) {
				return fmt.Errorf("%w: node %d reached twice", ErrCorrupted, c)
			}
			seen.add(c)
			if t.parents.At(c) != n {
				return fmt.Errorf("%w: node %d has parent %d, expected %d", ErrCorrupted, c, t.parents.At(c), n)
			}
			if t.Depth(c) != t.Depth(n)+1 {
				return fmt.Errorf("%w: node %d has depth %d under a node of depth %d", ErrCorrupted, c, t.Depth(c), t.Depth(n))
			}
			gc := t.coords.At(c)
			for a := 0; a < MaxDimension; a++ {
				want := uint32(0)
				if a < t.dim {
					want = 2*pc[a] + uint32(i>>a&1)
				}
				if gc[a] != want {
					return fmt.Errorf("%w: node %d has coordinate %d on axis %d, expected %d", ErrCorrupted, c, gc[a], a, want)
				}
			}
			todo = append(todo, c)
		}
	}

	if len(todo) != count {
		return fmt.Errorf("%w: %d of %d nodes reachable from the root", ErrCorrupted, len(todo), count)
	}
	if deepest != t.MaxDepthReached() {
		return fmt.Errorf("%w: deepest node at %d, side table covers %d", ErrCorrupted, deepest, t.MaxDepthReached())
	}
	return nil
}
