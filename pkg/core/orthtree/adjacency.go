package orthtree

import (
	"fmt"
	"strconv"
)

// Direction selects one face of a node. Bit 0 is the sign (set means towards
// increasing coordinates), the remaining bits are the axis.
type Direction uint8

// Named directions for the first three axes.
const (
	Left Direction = iota
	Right
	Down
	Up
	Back
	Front
)

// NewDirection builds the direction along axis, towards increasing
// coordinates when positive is true.
func NewDirection(axis int, positive bool) Direction {
	d := Direction(axis << 1)
	if positive {
		d |= 1
	}
	return d
}

// Axis returns the axis the direction runs along.
func (d Direction) Axis() int { return int(d >> 1) }

// Positive reports whether the direction points towards increasing coordinates.
func (d Direction) Positive() bool { return d&1 == 1 }

// Opposite returns the direction facing the other way on the same axis.
func (d Direction) Opposite() Direction { return d ^ 1 }

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	case Up:
		return "up"
	case Back:
		return "back"
	case Front:
		return "front"
	}
	sign := "-"
	if d.Positive() {
		sign = "+"
	}
	return sign + "axis" + strconv.Itoa(d.Axis())
}

// Directions returns the 2*D directions valid for this tree.
func (t *Tree[T]) Directions() []Direction {
	dirs := make([]Direction, 2*t.dim)
	for i := range dirs {
		dirs[i] = Direction(i)
	}
	return dirs
}

// AdjacentNode returns the node sharing the face of n in direction dir, of the
// same size as n or larger. It reports false when n touches the root boundary
// on that side. The result is not necessarily a leaf.
//
// It panics if the axis of dir is not below the tree dimension.
func (t *Tree[T]) AdjacentNode(n NodeIndex, dir Direction) (NodeIndex, bool) {
	axis := dir.Axis()
	if axis >= t.dim {
		panic(fmt.Errorf("%w: %s on a tree of dimension %d", ErrInvalidDirection, dir, t.dim))
	}
	return t.adjacent(n, axis, dir.Positive())
}

func (t *Tree[T]) adjacent(n NodeIndex, axis int, positive bool) (NodeIndex, bool) {
	if t.IsRoot(n) {
		return 0, false
	}
	local := t.LocalCoordinates(n)
	mirror := int(local.Flip(axis))

	// n faces away from dir inside its parent: the neighbour is a sibling.
	if local.Bit(axis) != positive {
		return t.Child(t.Parent(n), mirror), true
	}

	// Otherwise it lives under the parent's neighbour.
	up, ok := t.adjacent(t.Parent(n), axis, positive)
	if !ok {
		return 0, false
	}
	if t.IsLeaf(up) {
		return up, true
	}
	return t.Child(up, mirror), true
}
