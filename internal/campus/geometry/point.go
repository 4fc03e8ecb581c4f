package geometry

import "math"

// Point is a position in floor-plan coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scale returns p * s on both axes.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Cross returns the z-component of the 3D cross product.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the Euclidean distance from p to q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ============================================================
// Bounds
// ============================================================

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Contains reports whether pt lies inside the box, edges included.
func (b Bounds) Contains(pt Point) bool {
	return pt.X >= b.MinX && pt.X <= b.MaxX && pt.Y >= b.MinY && pt.Y <= b.MaxY
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Scale returns the box with both corners multiplied by s.
func (b Bounds) Scale(s float64) Bounds {
	return Bounds{b.MinX * s, b.MinY * s, b.MaxX * s, b.MaxY * s}
}
