package orthtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektortree/pkg/core/geom"
)

// assertGraded checks that face-adjacent leaves differ in depth by at most one.
// Looking from the deeper leaf is enough: AdjacentNode returns the shallower
// leaf itself.
func assertGraded(t *testing.T, tree *Tree[struct{}]) {
	t.Helper()
	for n := range tree.Traverse(Leaves(tree)) {
		for _, dir := range tree.Directions() {
			nb, ok := tree.AdjacentNode(n, dir)
			if !ok || !tree.IsLeaf(nb) {
				continue
			}
			assert.LessOrEqual(t, tree.Depth(n)-tree.Depth(nb), 1, "%s %s of %s", tree.NodeString(nb), dir, tree.NodeString(n))
		}
	}
}

func TestGradeDeepQuadrant(t *testing.T) {
	tree := newQuadtree(t)
	require.NoError(t, tree.Split(tree.Root()))
	topLeft := tree.Node(2)
	require.NoError(t, tree.Refine(func(n NodeIndex, tr *Tree[struct{}]) bool {
		if tr.Depth(n) == 0 || tr.Depth(n) >= 3 {
			return false
		}
		for up := n; !tr.IsRoot(up); up = tr.Parent(up) {
			if up == topLeft {
				return true
			}
		}
		return false
	}))
	require.Equal(t, 3, tree.MaxDepthReached())
	for _, q := range []int{0, 1, 3} {
		require.True(t, tree.IsLeaf(tree.Node(q)))
	}

	splits := tree.Grade()
	require.NoError(t, tree.Validate())
	assert.Equal(t, 2, splits)

	// quadrants sharing a face with the deep one are now at depth 2
	for _, q := range []int{0, 3} {
		require.False(t, tree.IsLeaf(tree.Node(q)))
		for i := 0; i < tree.Degree(); i++ {
			assert.True(t, tree.IsLeaf(tree.Node(q, i)))
		}
	}
	// the diagonal one only touches a corner
	assert.True(t, tree.IsLeaf(tree.Node(1)))
	assertGraded(t, tree)

	assert.Zero(t, tree.Grade())
}

func TestGradeCascades(t *testing.T) {
	tree := newQuadtree(t)
	// a chain of upper right corners inside the lower left quadrant, down to
	// depth 6 at the root center, next to the depth 1 quadrants
	require.NoError(t, tree.Refine(func(n NodeIndex, tr *Tree[struct{}]) bool {
		d := tr.Depth(n)
		if d == 0 {
			return true
		}
		gc := tr.GlobalCoordinates(n)
		corner := uint32(1)<<(d-1) - 1
		return d < 6 && gc[0] == corner && gc[1] == corner
	}))
	require.Equal(t, 6, tree.MaxDepthReached())
	before := tree.NodeCount()
	require.Equal(t, 1+6*tree.Degree(), before)

	deep := tree.Node(0, 3, 3, 3, 3, 3)
	nb, ok := tree.AdjacentNode(deep, Right)
	require.True(t, ok)
	require.Equal(t, tree.Node(1), nb)
	require.Equal(t, 5, tree.Depth(deep)-tree.Depth(nb))

	splits := tree.Grade()
	assert.Greater(t, splits, 1)
	assert.Equal(t, before+splits*tree.Degree(), tree.NodeCount())
	require.NoError(t, tree.Validate())
	assertGraded(t, tree)

	// the large quadrants had to be split more than once
	for _, q := range []int{1, 2} {
		require.False(t, tree.IsLeaf(tree.Node(q)))
	}
	nb, ok = tree.AdjacentNode(deep, Right)
	require.True(t, ok)
	assert.GreaterOrEqual(t, tree.Depth(nb), 5)

	assert.Zero(t, tree.Grade())
}

func TestGradeUniformIsNoop(t *testing.T) {
	tree := uniformQuadtree(t, 3)
	assert.Zero(t, tree.Grade())
	assert.Equal(t, 85, tree.NodeCount())
}

func TestInlierPredicates(t *testing.T) {
	tree, err := New[[]int](FuncTraits[[]int]{
		Dim:      1,
		Bbox:     box(geom.Point{0}, geom.Point{1}),
		Contents: func() []int { return []int{1, 2, 3, 4, 5} },
		DistributeFunc: func(n NodeIndex, tr *Tree[[]int], _ geom.Point) {
			items := tr.Data(n)
			half := len(items) / 2
			tr.SetData(tr.Child(n, 0), items[:half])
			tr.SetData(tr.Child(n, 1), items[half:])
		},
	})
	require.NoError(t, err)

	require.NoError(t, tree.Refine(MaxDepthAndMaxInliers[int](1, 1)))
	assert.Equal(t, 3, tree.NodeCount())

	require.NoError(t, tree.Refine(MaxInliers[int](1)))
	for n := range tree.Traverse(Leaves(tree)) {
		assert.LessOrEqual(t, len(tree.Data(n)), 1)
	}
	total := 0
	for n := range tree.Traverse(Leaves(tree)) {
		total += len(tree.Data(n))
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 5, tree.LeafCount())
}
