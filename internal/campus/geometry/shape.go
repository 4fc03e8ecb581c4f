package geometry

import "math"

// Shape is a closed region that supports exact containment tests.
type Shape interface {
	Contains(pt Point) bool
	Bounds() Bounds
}

// ============================================================
// Polygon
// ============================================================

// Polygon is a closed polygon defined by its vertices in order.
// The closing edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point, Point) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// Bounds returns the tight axis-aligned bounding box of all vertices.
func (p Polygon) Bounds() Bounds {
	if len(p.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: p.Vertices[0].X, MinY: p.Vertices[0].Y,
		MaxX: p.Vertices[0].X, MaxY: p.Vertices[0].Y,
	}
	for _, v := range p.Vertices[1:] {
		b.MinX = math.Min(b.MinX, v.X)
		b.MinY = math.Min(b.MinY, v.Y)
		b.MaxX = math.Max(b.MaxX, v.X)
		b.MaxY = math.Max(b.MaxY, v.Y)
	}
	return b
}

// Contains returns true if the point is inside the polygon (even-odd rule,
// ray casting).
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Scale returns the polygon with every vertex multiplied by s.
func (p Polygon) Scale(s float64) Polygon {
	out := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Scale(s)
	}
	return Polygon{Vertices: out}
}

// SelfIntersects reports whether any two non-adjacent edges cross or touch.
func (p Polygon) SelfIntersects() bool {
	n := len(p.Vertices)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := p.Edge(i)
		for j := i + 2; j < n; j++ {
			// первое и последнее ребро смежные через замыкание
			if i == 0 && j == n-1 {
				continue
			}
			b1, b2 := p.Edge(j)
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

func orientation(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p Point) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// ============================================================
// Circle
// ============================================================

// Circle is an exact circle; containment is tested against the curve,
// not a polygonal approximation.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether pt lies inside or on the circle.
func (c Circle) Contains(pt Point) bool {
	return c.Center.Distance(pt) <= c.Radius
}

// Bounds returns the square of side 2r centered on the circle.
func (c Circle) Bounds() Bounds {
	return Bounds{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

// Scale returns the circle with center and radius multiplied by s.
func (c Circle) Scale(s float64) Circle {
	return Circle{Center: c.Center.Scale(s), Radius: c.Radius * s}
}
