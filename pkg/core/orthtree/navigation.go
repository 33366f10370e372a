package orthtree

import "fmt"

// IsLeaf reports whether n has no children.
func (t *Tree[T]) IsLeaf(n NodeIndex) bool { return t.children.At(n) == noNode }

// Depth returns the depth of n, 0 for the root.
func (t *Tree[T]) Depth(n NodeIndex) int { return int(t.depths.At(n)) }

// GlobalCoordinates returns the position of n among the nodes of its depth.
func (t *Tree[T]) GlobalCoordinates(n NodeIndex) GlobalCoordinates { return t.coords.At(n) }

// LocalCoordinates returns the position of n relative to its parent.
func (t *Tree[T]) LocalCoordinates(n NodeIndex) LocalCoordinates {
	gc := t.coords.At(n)
	var local LocalCoordinates
	for i := 0; i < t.dim; i++ {
		local |= LocalCoordinates(gc[i]&1) << i
	}
	return local
}

// Parent returns the parent of n. It panics if n is the root.
func (t *Tree[T]) Parent(n NodeIndex) NodeIndex {
	if t.IsRoot(n) {
		panic(fmt.Errorf("%w: node %d", ErrInvalidParentAccess, n))
	}
	return t.parents.At(n)
}

// Child returns the i-th child of n. It panics if n is a leaf or i is not in
// [0, 2^D).
func (t *Tree[T]) Child(n NodeIndex, i int) NodeIndex {
	first := t.children.At(n)
	if first == noNode {
		panic(fmt.Errorf("%w: node %d is a leaf", ErrInvalidChildAccess, n))
	}
	if i < 0 || i >= t.degree {
		panic(fmt.Errorf("%w: child %d of node %d, degree is %d", ErrInvalidChildAccess, i, n, t.degree))
	}
	return first + NodeIndex(i)
}

// Descendant follows path from n, each entry selecting a child.
// Descendant(n, 0, 1) is the second child of the first child of n.
func (t *Tree[T]) Descendant(n NodeIndex, path ...int) NodeIndex {
	for _, i := range path {
		n = t.Child(n, i)
	}
	return n
}

// Node is Descendant starting at the root.
func (t *Tree[T]) Node(path ...int) NodeIndex {
	return t.Descendant(t.Root(), path...)
}

// NextSibling returns the sibling that follows n in child order.
func (t *Tree[T]) NextSibling(n NodeIndex) (NodeIndex, bool) {
	if t.IsRoot(n) {
		return 0, false
	}
	local := int(t.LocalCoordinates(n))
	if local == t.degree-1 {
		return 0, false
	}
	return t.Child(t.Parent(n), local+1), true
}

// NextSiblingUp returns the next sibling of the closest ancestor of n that
// has one.
func (t *Tree[T]) NextSiblingUp(n NodeIndex) (NodeIndex, bool) {
	if t.IsRoot(n) {
		return 0, false
	}
	up := t.Parent(n)
	for {
		if next, ok := t.NextSibling(up); ok {
			return next, true
		}
		if t.IsRoot(up) {
			return 0, false
		}
		up = t.Parent(up)
	}
}

// DeepestFirstChild descends from n always taking child 0 until a leaf.
func (t *Tree[T]) DeepestFirstChild(n NodeIndex) NodeIndex {
	for !t.IsLeaf(n) {
		n = t.Child(n, 0)
	}
	return n
}

// FirstChildAtDepth returns the first node at depth d in the subtree of n,
// searching breadth-first.
func (t *Tree[T]) FirstChildAtDepth(n NodeIndex, d int) (NodeIndex, bool) {
	todo := []NodeIndex{n}
	for head := 0; head < len(todo); head++ {
		node := todo[head]
		depth := t.Depth(node)
		if depth == d {
			return node, true
		}
		if depth > d || t.IsLeaf(node) {
			continue
		}
		for i := 0; i < t.degree; i++ {
			todo = append(todo, t.Child(node, i))
		}
	}
	return 0, false
}
