package orthtree

import (
	"fmt"
	"io"
	"strings"
)

// NodeString describes a single node.
func (t *Tree[T]) NodeString(n NodeIndex) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s depth=%d", n, t.coords.At(n).format(t.dim), t.Depth(n))
	switch {
	case t.IsRoot(n) && t.IsLeaf(n):
		sb.WriteString(" root leaf")
	case t.IsRoot(n):
		sb.WriteString(" root")
	case t.IsLeaf(n):
		sb.WriteString(" leaf")
	}
	return sb.String()
}

// Dump writes one line per node in preorder, indented by depth.
func (t *Tree[T]) Dump(w io.Writer) error {
	for n := range t.Traverse(Preorder(t)) {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat(". ", t.Depth(n)), t.NodeString(n)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree[T]) String() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}
