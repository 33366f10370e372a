package orthtree

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/properties"
)

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		traits FuncTraits[int]
		want   error
	}{
		{"zero dimension", FuncTraits[int]{Dim: 0, Bbox: box(geom.Point{}, geom.Point{})}, ErrInvalidDimension},
		{"too many axes", FuncTraits[int]{Dim: 9, Bbox: box(make(geom.Point, 9), make(geom.Point, 9))}, ErrInvalidDimension},
		{"bbox dimension", FuncTraits[int]{Dim: 3, Bbox: box(geom.Point{0, 0}, geom.Point{1, 1})}, ErrInvalidDimension},
		{"inverted bbox", FuncTraits[int]{Dim: 2, Bbox: box(geom.Point{1, 0}, geom.Point{0, 1})}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[int](tt.traits)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestNewSingleRoot(t *testing.T) {
	tree, err := New[int](FuncTraits[int]{
		Dim:      3,
		Bbox:     box(geom.Point{-1, -1, -1}, geom.Point{1, 1, 1}),
		Contents: func() int { return 42 },
	})
	require.NoError(t, err)

	assert.Equal(t, 8, tree.Degree())
	assert.Equal(t, 1, tree.NodeCount())
	assert.Equal(t, 1, tree.LeafCount())
	assert.Equal(t, 0, tree.MaxDepthReached())
	assert.True(t, tree.IsLeaf(tree.Root()))
	assert.Equal(t, 42, tree.Data(tree.Root()))
	require.NoError(t, tree.Validate())
}

func TestRefineUniformQuadtree(t *testing.T) {
	tree := uniformQuadtree(t, 2)

	assert.Equal(t, 21, tree.NodeCount())
	assert.Equal(t, 16, tree.LeafCount())
	assert.Len(t, tree.Collect(Leaves(tree)), 16)
	assert.Equal(t, 2, tree.MaxDepthReached())
	require.NoError(t, tree.Validate())

	for n := range tree.Traverse(Leaves(tree)) {
		assert.Equal(t, 2, tree.Depth(n))
	}
}

func TestCoordinateAndDepthInvariants(t *testing.T) {
	tree := newQuadtree(t)
	// uneven refinement: only nodes touching the lower-left corner split
	require.NoError(t, tree.Refine(func(n NodeIndex, tr *Tree[struct{}]) bool {
		gc := tr.GlobalCoordinates(n)
		return tr.Depth(n) < 5 && gc[0] == 0
	}))
	require.NoError(t, tree.Validate())

	assert.Equal(t, 0, tree.Depth(tree.Root()))
	for n := range tree.Traverse(Preorder(tree)) {
		if tree.IsRoot(n) {
			continue
		}
		p := tree.Parent(n)
		local := tree.LocalCoordinates(n)
		assert.Equal(t, tree.Depth(p)+1, tree.Depth(n))
		for axis := 0; axis < tree.Dimension(); axis++ {
			bit := uint32(0)
			if local.Bit(axis) {
				bit = 1
			}
			assert.Equal(t, 2*tree.GlobalCoordinates(p)[axis]+bit, tree.GlobalCoordinates(n)[axis])
		}
		assert.Equal(t, n, tree.Child(p, int(local)))
	}
}

func TestRefineDoesNotSplitTwice(t *testing.T) {
	tree := uniformQuadtree(t, 2)
	require.NoError(t, tree.Refine(MaxDepthPredicate[struct{}](2)))
	assert.Equal(t, 21, tree.NodeCount())

	require.NoError(t, tree.Refine(MaxDepthPredicate[struct{}](3)))
	assert.Equal(t, 85, tree.NodeCount())
	require.NoError(t, tree.Refine(MaxDepthPredicate[struct{}](3)))
	assert.Equal(t, 85, tree.NodeCount())
}

func TestSplitErrors(t *testing.T) {
	tree := uniformQuadtree(t, 1)
	err := tree.Split(tree.Root())
	require.ErrorIs(t, err, ErrInvalidSplit)
	assert.Equal(t, 5, tree.NodeCount())
}

func TestRefineStopsAtDepthLimit(t *testing.T) {
	tree, err := New[struct{}](FuncTraits[struct{}]{Dim: 1, Bbox: box(geom.Point{0}, geom.Point{1})})
	require.NoError(t, err)

	leftmost := func(n NodeIndex, tr *Tree[struct{}]) bool { return tr.GlobalCoordinates(n)[0] == 0 }
	err = tree.Refine(leftmost)
	require.ErrorIs(t, err, ErrDepthLimit)

	assert.Equal(t, MaxDepth, tree.MaxDepthReached())
	assert.Equal(t, 1+2*MaxDepth, tree.NodeCount())
	require.NoError(t, tree.Validate())

	deepest := tree.DeepestFirstChild(tree.Root())
	assert.Equal(t, MaxDepth, tree.Depth(deepest))
	require.ErrorIs(t, tree.Split(deepest), ErrDepthLimit)
}

func TestAccessorPanics(t *testing.T) {
	tree := uniformQuadtree(t, 1)
	leaf := tree.Node(0)

	assert.ErrorIs(t, recoverError(func() { tree.Parent(tree.Root()) }), ErrInvalidParentAccess)
	assert.ErrorIs(t, recoverError(func() { tree.Child(leaf, 0) }), ErrInvalidChildAccess)
	assert.ErrorIs(t, recoverError(func() { tree.Child(tree.Root(), 4) }), ErrInvalidChildAccess)
	assert.ErrorIs(t, recoverError(func() { tree.Child(tree.Root(), -1) }), ErrInvalidChildAccess)
	assert.ErrorIs(t, recoverError(func() { tree.AdjacentNode(leaf, Back) }), ErrInvalidDirection)
	assert.NoError(t, recoverError(func() { tree.AdjacentNode(leaf, Up) }))
}

func TestGeometry(t *testing.T) {
	tree := uniformQuadtree(t, 2)

	assert.Equal(t, []float64{4, 4}, tree.SideLength(0))
	assert.Equal(t, []float64{1, 1}, tree.SideLength(2))
	assert.Nil(t, tree.SideLength(3))

	n := tree.Node(3, 0)
	assert.Equal(t, box(geom.Point{2, 2}, geom.Point{3, 3}), tree.Bbox(n))
	assert.Equal(t, geom.Point{2.5, 2.5}, tree.Barycenter(n))
	assert.Equal(t, geom.Point{2, 2}, tree.Barycenter(tree.Root()))

	// the child split around the barycenter starts exactly there
	assert.Equal(t, tree.Barycenter(tree.Root()), tree.Bbox(tree.Node(3)).Min)
}

func TestBboxSnapsOuterMaxEdge(t *testing.T) {
	root := box(geom.Point{0.1, -0.3}, geom.Point{0.7, 0.9})
	tree, err := New[struct{}](FuncTraits[struct{}]{Dim: 2, Bbox: root})
	require.NoError(t, err)
	require.NoError(t, tree.Refine(MaxDepthPredicate[struct{}](6)))

	last := tree.Collect(Leaves(tree))
	corner := last[len(last)-1]
	assert.Equal(t, root.Max, tree.Bbox(corner).Max)

	n, err := tree.Locate(root.Max)
	require.NoError(t, err)
	assert.Equal(t, corner, n)
}

func TestLocate(t *testing.T) {
	tree := uniformQuadtree(t, 2)

	tests := []struct {
		name string
		p    geom.Point
		want NodeIndex
	}{
		{"min corner", geom.Point{0, 0}, tree.Node(0, 0)},
		{"max corner", geom.Point{4, 4}, tree.Node(3, 3)},
		{"root center goes up", geom.Point{2, 2}, tree.Node(3, 0)},
		{"inner split plane", geom.Point{1, 0.5}, tree.Node(0, 1)},
		{"interior", geom.Point{3.5, 0.5}, tree.Node(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tree.Locate(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			assert.True(t, tree.Bbox(n).Contains(tt.p))
		})
	}

	_, err := tree.Locate(geom.Point{4.01, 1})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = tree.Locate(geom.Point{1, 1, 1})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestLocatedLeafContainsPoint(t *testing.T) {
	tree := newQuadtree(t)
	rng := rand.New(rand.NewPCG(7, 11))
	require.NoError(t, tree.Refine(func(n NodeIndex, tr *Tree[struct{}]) bool {
		return tr.Depth(n) < 7 && rng.IntN(3) > 0
	}))

	for i := 0; i < 2000; i++ {
		p := geom.Point{4 * rng.Float64(), 4 * rng.Float64()}
		n, err := tree.Locate(p)
		require.NoError(t, err)
		require.True(t, tree.IsLeaf(n))
		require.True(t, tree.Bbox(n).Contains(p), "point %v, leaf %s", p, tree.NodeString(n))
	}
}

func TestIntersectedNodes(t *testing.T) {
	tree := uniformQuadtree(t, 2)

	got := tree.IntersectedNodes(box(geom.Point{0.5, 0.5}, geom.Point{1.5, 1.5}), nil)
	assert.Equal(t, []NodeIndex{tree.Node(0, 0), tree.Node(0, 1), tree.Node(0, 2), tree.Node(0, 3)}, got)

	got = tree.IntersectedNodes(geom.Sphere{Center: geom.Point{2, 2}, Radius: 0.5}, got[:0])
	assert.ElementsMatch(t, []NodeIndex{tree.Node(0, 3), tree.Node(1, 2), tree.Node(2, 1), tree.Node(3, 0)}, got)

	all := tree.IntersectedNodesFunc(func(geom.Bbox) bool { return true }, nil)
	assert.Equal(t, tree.Collect(Leaves(tree)), all)

	assert.Empty(t, tree.IntersectedNodes(geom.Point{5, 5}, nil))
}

func TestCloneAndMove(t *testing.T) {
	tree := uniformQuadtree(t, 2)
	cp := tree.Clone()
	require.True(t, cp.Equal(tree))

	require.NoError(t, cp.Split(cp.Node(0, 0)))
	assert.Equal(t, 25, cp.NodeCount())
	assert.Equal(t, 21, tree.NodeCount())
	assert.False(t, cp.Equal(tree))

	moved := tree.Move()
	assert.Equal(t, 21, moved.NodeCount())
	require.NoError(t, moved.Validate())
	assert.Equal(t, 1, tree.NodeCount())
	require.NoError(t, tree.Validate())
	assert.Equal(t, geom.Point{4, 4}, tree.RootBbox().Max)
}

func TestTopologyEqualAcrossContentTypes(t *testing.T) {
	a, err := New[int](FuncTraits[int]{Dim: 2, Bbox: box(geom.Point{0, 0}, geom.Point{1, 1})})
	require.NoError(t, err)
	b, err := New[string](FuncTraits[string]{Dim: 2, Bbox: box(geom.Point{-5, -5}, geom.Point{5, 5})})
	require.NoError(t, err)

	require.NoError(t, a.Split(a.Root()))
	require.NoError(t, b.Split(b.Root()))
	require.NoError(t, a.Split(a.Node(2)))
	require.NoError(t, b.Split(b.Node(2)))
	assert.True(t, IsTopologyEqual(a, b))

	require.NoError(t, b.Split(b.Node(1)))
	assert.False(t, IsTopologyEqual(a, b))
}

func TestCustomPropertiesGrowWithTree(t *testing.T) {
	tree := newQuadtree(t)
	weight, err := properties.Add(tree.Properties(), "weight", 1.5)
	require.NoError(t, err)

	require.NoError(t, tree.Split(tree.Root()))
	weight.Set(tree.Node(2), 3)
	require.NoError(t, tree.Split(tree.Node(2)))

	assert.Equal(t, tree.NodeCount(), weight.Len())
	assert.Equal(t, 3.0, weight.At(tree.Node(2)))
	assert.Equal(t, 1.5, weight.At(tree.Node(2, 3)))
}

func TestDistributeReceivesBarycenter(t *testing.T) {
	var centers []geom.Point
	tree, err := New[int](FuncTraits[int]{
		Dim:      2,
		Bbox:     box(geom.Point{0, 0}, geom.Point{8, 8}),
		Contents: func() int { return 100 },
		DistributeFunc: func(n NodeIndex, tr *Tree[int], center geom.Point) {
			centers = append(centers, center)
			for i := 0; i < tr.Degree(); i++ {
				tr.SetData(tr.Child(n, i), tr.Data(n)/tr.Degree())
			}
		},
	})
	require.NoError(t, err)
	require.NoError(t, tree.Split(tree.Root()))
	require.NoError(t, tree.Split(tree.Node(1)))

	assert.Equal(t, []geom.Point{{4, 4}, {6, 2}}, centers)
	assert.Equal(t, 25, tree.Data(tree.Node(1)))
	assert.Equal(t, 6, tree.Data(tree.Node(1, 3)))
}

func TestDump(t *testing.T) {
	tree := newQuadtree(t)
	assert.Equal(t, "#0 (0, 0) depth=0 root leaf\n", tree.String())

	require.NoError(t, tree.Split(tree.Root()))
	require.NoError(t, tree.Split(tree.Node(3)))

	var buf bytes.Buffer
	require.NoError(t, tree.Dump(&buf))
	want := "#0 (0, 0) depth=0 root\n" +
		". #1 (0, 0) depth=1 leaf\n" +
		". #2 (1, 0) depth=1 leaf\n" +
		". #3 (0, 1) depth=1 leaf\n" +
		". #4 (1, 1) depth=1\n" +
		". . #5 (2, 2) depth=2 leaf\n" +
		". . #6 (3, 2) depth=2 leaf\n" +
		". . #7 (2, 3) depth=2 leaf\n" +
		". . #8 (3, 3) depth=2 leaf\n"
	assert.Equal(t, want, buf.String())
}

func BenchmarkLocate(b *testing.B) {
	tree := uniformQuadtree(b, 7)
	rng := rand.New(rand.NewPCG(1, 2))
	pts := make([]geom.Point, 1024)
	for i := range pts {
		pts[i] = geom.Point{4 * rng.Float64(), 4 * rng.Float64()}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.Locate(pts[i%len(pts)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRefine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		tree := newQuadtree(b)
		if err := tree.Refine(MaxDepthPredicate[struct{}](6)); err != nil {
			b.Fatal(err)
		}
	}
}
