package geom

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Bbox is a closed axis-aligned box.
type Bbox struct {
	Min Point
	Max Point
}

// NewBbox validates and builds a box from its two corners.
func NewBbox(min, max Point) (Bbox, error) {
	if len(min) != len(max) {
		return Bbox{}, fmt.Errorf("%w: min has %d coordinates, max has %d", ErrDimensionMismatch, len(min), len(max))
	}
	if len(min) == 0 {
		return Bbox{}, fmt.Errorf("%w: empty corners", ErrDimensionMismatch)
	}
	for i := range min {
		if min[i] > max[i] {
			return Bbox{}, fmt.Errorf("inverted box on axis %d: %v > %v", i, min[i], max[i])
		}
	}
	return Bbox{Min: min.Clone(), Max: max.Clone()}, nil
}

// BoundingBox returns the smallest box enclosing every point.
func BoundingBox(points []Point) (Bbox, error) {
	if len(points) == 0 {
		return Bbox{}, fmt.Errorf("bounding box of an empty point set")
	}
	dim := len(points[0])
	b := Bbox{Min: points[0].Clone(), Max: points[0].Clone()}
	for i, p := range points[1:] {
		if len(p) != dim {
			return Bbox{}, fmt.Errorf("%w: point %d has %d coordinates, expected %d", ErrDimensionMismatch, i+1, len(p), dim)
		}
		for a := range p {
			b.Min[a] = min(b.Min[a], p[a])
			b.Max[a] = max(b.Max[a], p[a])
		}
	}
	return b, nil
}

// Dim returns the dimension of the box.
func (b Bbox) Dim() int { return len(b.Min) }

// Size returns the extent of the box along each axis.
func (b Bbox) Size() []float64 {
	return floats.SubTo(make([]float64, len(b.Min)), b.Max, b.Min)
}

// Center returns the midpoint of the box.
func (b Bbox) Center() Point {
	c := floats.AddTo(make([]float64, len(b.Min)), b.Min, b.Max)
	floats.Scale(0.5, c)
	return c
}

// Contains reports whether p lies in the closed box.
func (b Bbox) Contains(p Point) bool {
	if len(p) != len(b.Min) {
		return false
	}
	for i, v := range p {
		// written so that NaN is rejected
		if !(v >= b.Min[i] && v <= b.Max[i]) {
			return false
		}
	}
	return true
}

// Intersects reports whether the two closed boxes overlap.
func (b Bbox) Intersects(o Bbox) bool {
	for i := range b.Min {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// IntersectsBbox makes a box usable as a query primitive.
func (b Bbox) IntersectsBbox(o Bbox) bool { return b.Intersects(o) }

// SquaredDistance returns the squared distance from p to the nearest point of
// the box, zero when p is inside.
func (b Bbox) SquaredDistance(p Point) float64 {
	var sum float64
	for i, v := range p {
		var d float64
		switch {
		case v < b.Min[i]:
			d = b.Min[i] - v
		case v > b.Max[i]:
			d = v - b.Max[i]
		}
		sum += d * d
	}
	return sum
}

// Equal reports whether both boxes have identical corners.
func (b Bbox) Equal(o Bbox) bool {
	return b.Min.Equal(o.Min) && b.Max.Equal(o.Max)
}

// Cubic returns the box grown around its center so that every side has the
// length of its longest side.
func (b Bbox) Cubic() Bbox {
	size := b.Size()
	side := floats.Max(size)
	center := b.Center()
	out := Bbox{Min: make(Point, len(b.Min)), Max: make(Point, len(b.Min))}
	for i := range center {
		if size[i] == side {
			out.Min[i], out.Max[i] = b.Min[i], b.Max[i]
			continue
		}
		out.Min[i] = center[i] - side/2
		out.Max[i] = center[i] + side/2
	}
	return out
}

// Pad returns the box grown on every side by ratio times its longest side.
// A degenerate box is grown by ratio in absolute units.
func (b Bbox) Pad(ratio float64) Bbox {
	margin := ratio * floats.Max(b.Size())
	if margin == 0 {
		margin = ratio
	}
	out := Bbox{Min: b.Min.Clone(), Max: b.Max.Clone()}
	for i := range out.Min {
		out.Min[i] -= margin
		out.Max[i] += margin
	}
	return out
}

func (b Bbox) String() string {
	return fmt.Sprintf("[%v %v]", b.Min, b.Max)
}
