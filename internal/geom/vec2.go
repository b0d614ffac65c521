// Package geom provides the 2D vector, rectangle, segment, and circle
// primitives the simulation is built on, plus the swept-shape intersection
// and time-of-impact queries the collision stage needs.
package geom

import "math"

// Vec2 is a 2D vector with float64 components.
type Vec2 struct {
	X, Y float64
}

// Zero is the additive identity.
var Zero = Vec2{}

// UnitX is the unit vector along the X axis.
var UnitX = Vec2{X: 1}

// NewVec2 builds a vector from components.
func NewVec2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Both returns a vector with both components equal to value.
func Both(value float64) Vec2 { return Vec2{X: value, Y: value} }

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 { return Vec2{v.X + other.X, v.Y + other.Y} }

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 { return Vec2{v.X - other.X, v.Y - other.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Div returns v / s.
func (v Vec2) Div(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product of v and other.
func (v Vec2) Dot(other Vec2) float64 { return v.X*other.X + v.Y*other.Y }

// DotSelf returns v.Dot(v), the squared norm.
func (v Vec2) DotSelf() float64 { return v.X*v.X + v.Y*v.Y }

// Norm returns the Euclidean length of v.
func (v Vec2) Norm() float64 { return math.Sqrt(v.DotSelf()) }

// Normalized returns v scaled to unit length. Dividing the zero vector
// yields NaN components, matching the source's unchecked division.
func (v Vec2) Normalized() Vec2 {
	n := v.Norm()
	return Vec2{v.X / n, v.Y / n}
}

// Rotated returns v rotated by angle radians (counter-clockwise).
func (v Vec2) Rotated(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.Y*cos + v.X*sin}
}

// Cos returns the cosine of the angle between v and other, clamped to
// [-1, 1] to absorb floating-point drift near the unit boundary.
func (v Vec2) Cos(other Vec2) float64 {
	c := v.Dot(other) / (v.Norm() * other.Norm())
	if c < -1 {
		return -1
	}
	if c > 1 {
		return 1
	}
	return c
}

// Angle returns the angle of v from the positive X axis.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Distance returns the Euclidean distance between v and other.
func (v Vec2) Distance(other Vec2) float64 { return other.Sub(v).Norm() }

// Cross returns the scalar (Z-component) cross product of v and other.
func (v Vec2) Cross(other Vec2) float64 { return v.X*other.Y - v.Y*other.X }

// AlmostEqual reports whether v and other differ by no more than eps in
// each component, used by delta synthesis to avoid churn on denormal
// floating point noise.
func (v Vec2) AlmostEqual(other Vec2, eps float64) bool {
	return math.Abs(v.X-other.X) <= eps && math.Abs(v.Y-other.Y) <= eps
}
