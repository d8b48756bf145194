// Package physics provides the straight-line geometry used by the simulation:
// vectors, distances, radius tests and clamping.
package physics

import "math"

// Vec is a 2D point or direction in play-area units.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector of v and its original length.
// A zero vector is returned unchanged with length 0.
func (v Vec) Normalize() (Vec, float64) {
	l := v.Len()
	if l == 0 {
		return v, 0
	}
	return Vec{X: v.X / l, Y: v.Y / l}, l
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is strictly within radius of a center.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) < radius*radius
}

// PointInRect checks if a point lies inside the square of side size whose
// top-left corner is (rx, ry).
func PointInRect(px, py, rx, ry, size float64) bool {
	return px >= rx && px < rx+size && py >= ry && py < ry+size
}

// Clamp restricts v to [lo, hi]. When hi < lo (an area smaller than the
// object) the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
