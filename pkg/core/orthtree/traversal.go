package orthtree

import (
	"iter"
	"slices"
)

// Navigator is the read-only topology a traversal walks over. *Tree[T]
// implements it for every T.
type Navigator interface {
	Root() NodeIndex
	IsRoot(n NodeIndex) bool
	IsLeaf(n NodeIndex) bool
	Depth(n NodeIndex) int
	Parent(n NodeIndex) NodeIndex
	Child(n NodeIndex, i int) NodeIndex
	NextSibling(n NodeIndex) (NodeIndex, bool)
	NextSiblingUp(n NodeIndex) (NodeIndex, bool)
	DeepestFirstChild(n NodeIndex) NodeIndex
	FirstChildAtDepth(n NodeIndex, d int) (NodeIndex, bool)
}

// Traversal is a stateless iteration policy over node indices. First gives the
// starting node, Next the node following n. Both report false when the
// sequence is over.
type Traversal interface {
	First() (NodeIndex, bool)
	Next(n NodeIndex) (NodeIndex, bool)
}

// Walk turns a traversal into a lazy sequence. The sequence can be ranged over
// any number of times; each range restarts from First.
func Walk(tr Traversal) iter.Seq[NodeIndex] {
	return func(yield func(NodeIndex) bool) {
		n, ok := tr.First()
		for ok {
			if !yield(n) {
				return
			}
			n, ok = tr.Next(n)
		}
	}
}

// Traverse is Walk; it exists so call sites read tree.Traverse(Leaves(tree)).
func (t *Tree[T]) Traverse(tr Traversal) iter.Seq[NodeIndex] { return Walk(tr) }

// Collect gathers the whole traversal into a slice.
func (t *Tree[T]) Collect(tr Traversal) []NodeIndex { return slices.Collect(Walk(tr)) }

// PreorderTraversal visits a node before its children, children in order.
type PreorderTraversal struct{ nav Navigator }

// Preorder starts at the root and goes depth-first, parents first.
func Preorder(nav Navigator) PreorderTraversal { return PreorderTraversal{nav: nav} }

func (p PreorderTraversal) First() (NodeIndex, bool) { return p.nav.Root(), true }

func (p PreorderTraversal) Next(n NodeIndex) (NodeIndex, bool) {
	if !p.nav.IsLeaf(n) {
		return p.nav.Child(n, 0), true
	}
	if next, ok := p.nav.NextSibling(n); ok {
		return next, true
	}
	return p.nav.NextSiblingUp(n)
}

// PostorderTraversal visits every child before its parent.
type PostorderTraversal struct{ nav Navigator }

// Postorder starts at the deepest first child and ends at the root.
func Postorder(nav Navigator) PostorderTraversal { return PostorderTraversal{nav: nav} }

func (p PostorderTraversal) First() (NodeIndex, bool) {
	return p.nav.DeepestFirstChild(p.nav.Root()), true
}

func (p PostorderTraversal) Next(n NodeIndex) (NodeIndex, bool) {
	if p.nav.IsRoot(n) {
		return 0, false
	}
	if next, ok := p.nav.NextSibling(n); ok {
		return p.nav.DeepestFirstChild(next), true
	}
	return p.nav.Parent(n), true
}

// LeavesTraversal visits leaves only, left to right.
type LeavesTraversal struct{ nav Navigator }

// Leaves skips every internal node.
func Leaves(nav Navigator) LeavesTraversal { return LeavesTraversal{nav: nav} }

func (l LeavesTraversal) First() (NodeIndex, bool) {
	return l.nav.DeepestFirstChild(l.nav.Root()), true
}

func (l LeavesTraversal) Next(n NodeIndex) (NodeIndex, bool) {
	if next, ok := l.nav.NextSibling(n); ok {
		return l.nav.DeepestFirstChild(next), true
	}
	if up, ok := l.nav.NextSiblingUp(n); ok {
		return l.nav.DeepestFirstChild(up), true
	}
	return 0, false
}

// LevelTraversal visits the nodes of a single depth, left to right.
type LevelTraversal struct {
	nav   Navigator
	depth int
}

// Level visits the nodes at exactly depth d. The sequence is empty when the
// tree never reaches d.
func Level(nav Navigator, d int) LevelTraversal { return LevelTraversal{nav: nav, depth: d} }

func (l LevelTraversal) First() (NodeIndex, bool) {
	return l.nav.FirstChildAtDepth(l.nav.Root(), l.depth)
}

func (l LevelTraversal) Next(n NodeIndex) (NodeIndex, bool) {
	if next, ok := l.nav.NextSibling(n); ok {
		return next, true
	}
	// n was the last of its block: scan the following subtrees, from the
	// closest ancestor outwards, for one that reaches the depth.
	up, ok := l.nav.NextSiblingUp(n)
	for ok {
		if next, found := l.nav.FirstChildAtDepth(up, l.depth); found {
			return next, true
		}
		if sib, more := l.nav.NextSibling(up); more {
			up = sib
			continue
		}
		up, ok = l.nav.NextSiblingUp(up)
	}
	return 0, false
}
