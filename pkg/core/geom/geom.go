// Package geom provides the minimal d-dimensional geometry kernel used by the
// orthtree: points, axis-aligned boxes and the query primitives that can be
// tested against a box.
//
// All types are dimension-agnostic slices of float64; the dimension of a value
// is the length of its coordinate slice. Vector arithmetic is delegated to
// gonum's floats package.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when two geometric values do not share a dimension.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Point is a location in d-dimensional space.
type Point []float64

// Dim returns the dimension of the point.
func (p Point) Dim() int { return len(p) }

// Clone returns a copy of the point.
func (p Point) Clone() Point {
	out := make(Point, len(p))
	copy(out, p)
	return out
}

// Equal reports whether both points have identical coordinates.
func (p Point) Equal(q Point) bool {
	return len(p) == len(q) && floats.Equal(p, q)
}

// IntersectsBbox reports whether the point lies inside the closed box.
func (p Point) IntersectsBbox(b Bbox) bool { return b.Contains(p) }

func (p Point) String() string {
	return fmt.Sprint([]float64(p))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b Point) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Intersector is a query primitive that can be tested against a box.
type Intersector interface {
	IntersectsBbox(b Bbox) bool
}

// IntersectorFunc adapts an ordinary function to the Intersector interface.
type IntersectorFunc func(b Bbox) bool

// IntersectsBbox calls f(b).
func (f IntersectorFunc) IntersectsBbox(b Bbox) bool { return f(b) }

// Sphere is a closed ball.
type Sphere struct {
	Center Point
	Radius float64
}

// IntersectsBbox reports whether the ball and the box share at least one point.
func (s Sphere) IntersectsBbox(b Bbox) bool {
	return b.SquaredDistance(s.Center) <= s.Radius*s.Radius
}

// Contains reports whether p lies inside the closed ball.
func (s Sphere) Contains(p Point) bool {
	return SquaredDistance(s.Center, p) <= s.Radius*s.Radius
}

// Ray is a half-line starting at Origin.
type Ray struct {
	Origin    Point
	Direction []float64
}

// IntersectsBbox implements the slab test.
func (r Ray) IntersectsBbox(b Bbox) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for i := range r.Origin {
		o, d := r.Origin[i], r.Direction[i]
		if d == 0 {
			if o < b.Min[i] || o > b.Max[i] {
				return false
			}
			continue
		}
		t1 := (b.Min[i] - o) / d
		t2 := (b.Max[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}
