package areas

import (
	"errors"
	"fmt"

	"campus-map/internal/campus/geometry"
	"campus-map/internal/campus/parser"
)

// ErrInvalidArgument marks malformed construction input. It means a mistake
// in authored data, not a runtime condition.
var ErrInvalidArgument = errors.New("invalid argument")

// ============================================================
// Room Area
// ============================================================

// RoomArea связывает идентификатор кабинета с его контуром на плане этажа.
type RoomArea struct {
	RoomID string
	Shape  geometry.Shape
	Bounds geometry.Bounds
}

// Contains runs the cheap bounding-box reject first, then the exact test.
func (a RoomArea) Contains(pt geometry.Point) bool {
	if !a.Bounds.Contains(pt) {
		return false
	}
	return a.Shape.Contains(pt)
}

// ============================================================
// Constructors
// ============================================================

// RectArea создает прямоугольную область по левому верхнему и правому
// нижнему углам.
func RectArea(roomID string, x1, y1, x2, y2 float64) (RoomArea, error) {
	if x1 >= x2 || y1 >= y2 {
		return RoomArea{}, fmt.Errorf("%w: rect %q needs x1<x2 and y1<y2, got (%v,%v)-(%v,%v)",
			ErrInvalidArgument, roomID, x1, y1, x2, y2)
	}

	poly := geometry.NewPolygon(
		geometry.Pt(x1, y1),
		geometry.Pt(x2, y1),
		geometry.Pt(x2, y2),
		geometry.Pt(x1, y2),
	)
	return RoomArea{
		RoomID: roomID,
		Shape:  poly,
		Bounds: geometry.Bounds{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2},
	}, nil
}

// PolygonArea создает многоугольную область из плоского массива
// [x1, y1, x2, y2, ...].
func PolygonArea(roomID string, points []float64) (RoomArea, error) {
	if len(points) < 6 || len(points)%2 != 0 {
		return RoomArea{}, fmt.Errorf("%w: polygon %q needs at least 3 points and an even number of values, got %d values",
			ErrInvalidArgument, roomID, len(points))
	}

	vertices := make([]geometry.Point, 0, len(points)/2)
	for i := 0; i < len(points); i += 2 {
		vertices = append(vertices, geometry.Pt(points[i], points[i+1]))
	}
	// явно замкнутый контур: последняя вершина повторяет первую
	if n := len(vertices); n > 1 && vertices[n-1] == vertices[0] {
		vertices = vertices[:n-1]
	}
	return polygonFromVertices(roomID, vertices)
}

// CircleArea создает круглую область. Попадание проверяется по окружности,
// а не по многоугольнику.
func CircleArea(roomID string, centerX, centerY, radius float64) (RoomArea, error) {
	if radius <= 0 {
		return RoomArea{}, fmt.Errorf("%w: circle %q needs a positive radius, got %v",
			ErrInvalidArgument, roomID, radius)
	}

	circle := geometry.Circle{Center: geometry.Pt(centerX, centerY), Radius: radius}
	return RoomArea{
		RoomID: roomID,
		Shape:  circle,
		Bounds: circle.Bounds(),
	}, nil
}

// PathArea создает область из атрибута d элемента <path> (только прямые
// отрезки).
func PathArea(roomID, d string) (RoomArea, error) {
	vertices, err := parser.ParsePath(d)
	if err != nil {
		return RoomArea{}, fmt.Errorf("%w: path %q: %v", ErrInvalidArgument, roomID, err)
	}
	return polygonFromVertices(roomID, vertices)
}

func polygonFromVertices(roomID string, vertices []geometry.Point) (RoomArea, error) {
	if len(vertices) < 3 {
		return RoomArea{}, fmt.Errorf("%w: polygon %q has %d vertices, need at least 3",
			ErrInvalidArgument, roomID, len(vertices))
	}

	poly := geometry.NewPolygon(vertices...)
	if poly.SelfIntersects() {
		return RoomArea{}, fmt.Errorf("%w: polygon %q is self-intersecting", ErrInvalidArgument, roomID)
	}

	return RoomArea{
		RoomID: roomID,
		Shape:  poly,
		Bounds: poly.Bounds(),
	}, nil
}
