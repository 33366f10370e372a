package orthtree

import (
	"math"
	"strconv"
	"strings"
)

// NodeIndex identifies a node of a tree. The root is always 0.
type NodeIndex = uint32

// noNode marks an absent parent or child in the node store.
const noNode NodeIndex = math.MaxUint32

const (
	// MaxDimension is the largest supported dimension (256 children per node).
	MaxDimension = 8
	// MaxDepth is the deepest level a node can reach. Global coordinates are
	// uint32, so a node at depth 32 can no longer be split.
	MaxDepth = 32
)

// LocalCoordinates locates a node relative to the center of its parent.
// Bit i is set when the node lies in the upper half along axis i. The value is
// also the position of the node among its siblings.
type LocalCoordinates uint8

// Bit reports whether the node is in the upper half along axis.
func (l LocalCoordinates) Bit(axis int) bool { return l>>axis&1 == 1 }

// Flip returns the coordinates with the bit of axis inverted.
func (l LocalCoordinates) Flip(axis int) LocalCoordinates { return l ^ 1<<axis }

// GlobalCoordinates locates a node among all the nodes of its depth. Only the
// first Dimension entries are used; the others are always zero.
//
// Each coordinate of a child is twice the coordinate of its parent plus the
// matching bit of its local coordinates.
type GlobalCoordinates [MaxDimension]uint32

func (g GlobalCoordinates) format(dim int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 0; i < dim; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(uint64(g[i]), 10))
	}
	sb.WriteByte(')')
	return sb.String()
}
