package geometry

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Bounds tests ---

func TestBoundsContainsEdges(t *testing.T) {
	b := Bounds{0, 0, 100, 50}
	for _, pt := range []Point{Pt(0, 0), Pt(100, 50), Pt(50, 25)} {
		if !b.Contains(pt) {
			t.Errorf("expected %v inside %v", pt, b)
		}
	}
	if b.Contains(Pt(100.1, 10)) {
		t.Error("expected point right of box to be outside")
	}
}

// --- Polygon tests ---

func TestPolygonContainsSquare(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	if !sq.Contains(Pt(5, 5)) {
		t.Error("expected (5,5) inside square")
	}
	if sq.Contains(Pt(15, 5)) {
		t.Error("expected (15,5) outside square")
	}
}

func TestPolygonContainsConcave(t *testing.T) {
	// L-shape: the notch at top-right is outside.
	l := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(5, 5), Pt(5, 10), Pt(0, 10))
	if !l.Contains(Pt(2, 8)) {
		t.Error("expected (2,8) inside L")
	}
	if l.Contains(Pt(8, 8)) {
		t.Error("expected (8,8) in the notch to be outside")
	}
}

func TestPolygonDegenerate(t *testing.T) {
	p := NewPolygon(Pt(0, 0), Pt(10, 0))
	if p.Contains(Pt(5, 0)) {
		t.Error("two-vertex polygon must not contain anything")
	}
}

func TestPolygonBounds(t *testing.T) {
	p := NewPolygon(Pt(3, 7), Pt(-2, 4), Pt(8, -1))
	b := p.Bounds()
	want := Bounds{-2, -1, 8, 7}
	if b != want {
		t.Errorf("expected %v, got %v", want, b)
	}
}

func TestPolygonScale(t *testing.T) {
	p := NewPolygon(Pt(10, 20), Pt(30, 20), Pt(30, 40)).Scale(0.5)
	if !approxEqual(p.Vertices[2].X, 15, tolerance) || !approxEqual(p.Vertices[2].Y, 20, tolerance) {
		t.Errorf("expected (15,20), got %v", p.Vertices[2])
	}
}

func TestPolygonSelfIntersects(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want bool
	}{
		{"triangle", NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10)), false},
		{"square", NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)), false},
		{"bowtie", NewPolygon(Pt(0, 0), Pt(10, 10), Pt(10, 0), Pt(0, 10)), true},
		{"concave", NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(5, 5), Pt(5, 10), Pt(0, 10)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.SelfIntersects(); got != tt.want {
				t.Errorf("SelfIntersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Circle tests ---

func TestCircleContains(t *testing.T) {
	c := Circle{Center: Pt(50, 50), Radius: 10}
	if !c.Contains(Pt(57, 57)) {
		t.Error("expected (57,57) inside circle")
	}
	// inside the bounding square but outside the curve
	if c.Contains(Pt(59, 59)) {
		t.Error("expected (59,59) outside circle")
	}
	b := c.Bounds()
	if b.Width() != 20 || b.Height() != 20 {
		t.Errorf("expected 20x20 bounds, got %fx%f", b.Width(), b.Height())
	}
}
