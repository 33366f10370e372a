package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromR2 converts a gonum planar vector.
func FromR2(v r2.Vec) Point { return Point{v.X, v.Y} }

// FromR3 converts a gonum spatial vector.
func FromR3(v r3.Vec) Point { return Point{v.X, v.Y, v.Z} }

// ToR2 converts a 2D point. Extra coordinates are ignored; it panics when p
// has fewer than two.
func (p Point) ToR2() r2.Vec { return r2.Vec{X: p[0], Y: p[1]} }

// ToR3 converts a 3D point. Extra coordinates are ignored; it panics when p
// has fewer than three.
func (p Point) ToR3() r3.Vec { return r3.Vec{X: p[0], Y: p[1], Z: p[2]} }

// BboxFromR2 converts a gonum planar box.
func BboxFromR2(b r2.Box) Bbox { return Bbox{Min: FromR2(b.Min), Max: FromR2(b.Max)} }

// BboxFromR3 converts a gonum spatial box.
func BboxFromR3(b r3.Box) Bbox { return Bbox{Min: FromR3(b.Min), Max: FromR3(b.Max)} }

// ToR2 converts a 2D box. It panics like Point.ToR2.
func (b Bbox) ToR2() r2.Box { return r2.Box{Min: b.Min.ToR2(), Max: b.Max.ToR2()} }

// ToR3 converts a 3D box. It panics like Point.ToR3.
func (b Bbox) ToR3() r3.Box { return r3.Box{Min: b.Min.ToR3(), Max: b.Max.ToR3()} }
