package orthtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektortree/pkg/core/geom"
)

func box(min, max geom.Point) geom.Bbox { return geom.Bbox{Min: min, Max: max} }

// newQuadtree returns an unrefined 2D tree over [0,4]x[0,4].
func newQuadtree(t testing.TB) *Tree[struct{}] {
	t.Helper()
	tree, err := New[struct{}](FuncTraits[struct{}]{
		Dim:  2,
		Bbox: box(geom.Point{0, 0}, geom.Point{4, 4}),
	})
	require.NoError(t, err)
	return tree
}

// uniformQuadtree returns newQuadtree refined to the given depth.
func uniformQuadtree(t testing.TB, depth int) *Tree[struct{}] {
	t.Helper()
	tree := newQuadtree(t)
	require.NoError(t, tree.Refine(MaxDepthPredicate[struct{}](depth)))
	return tree
}

// recoverError runs fn and returns the error it panicked with, or nil.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
