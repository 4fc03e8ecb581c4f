package areas

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"campus-map/internal/campus/geometry"
)

// ============================================================
// Overlay Renderer
// ============================================================

// RenderOverlay собирает SVG с контурами областей в координатах плана.
// Файл накладывается поверх исходного плана в редакторе, чтобы сверить
// координаты областей.
func RenderOverlay(width, height float64, list []RoomArea) string {
	width, height = overlaySize(width, height, list)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for i, area := range list {
		builder.WriteString("  ")
		builder.WriteString(renderShape(area))
		builder.WriteString("\n  ")
		builder.WriteString(renderLabel(i, area))
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// overlaySize falls back to the union of area bounds when the plan size is
// unknown.
func overlaySize(width, height float64, list []RoomArea) (float64, float64) {
	if width > 0 && height > 0 {
		return width, height
	}

	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, a := range list {
		maxX = math.Max(maxX, a.Bounds.MaxX)
		maxY = math.Max(maxY, a.Bounds.MaxY)
	}

	if maxX <= 0 {
		maxX = 1000
	}
	if maxY <= 0 {
		maxY = 1000
	}
	return maxX, maxY
}

func renderShape(area RoomArea) string {
	id := html.EscapeString(area.RoomID)

	switch s := area.Shape.(type) {
	case geometry.Circle:
		return fmt.Sprintf(`<circle id="%s" cx="%s" cy="%s" r="%s" fill="none" stroke="#d62728" />`,
			id, formatFloat(s.Center.X), formatFloat(s.Center.Y), formatFloat(s.Radius))
	case geometry.Polygon:
		var path strings.Builder
		path.WriteString(`<path id="`)
		path.WriteString(id)
		path.WriteString(`" d="M `)
		path.WriteString(formatPoint(s.Vertices[0]))
		for _, p := range s.Vertices[1:] {
			path.WriteString(" L ")
			path.WriteString(formatPoint(p))
		}
		path.WriteString(` Z" fill="none" stroke="#d62728" />`)
		return path.String()
	}

	b := area.Bounds
	return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#d62728" />`,
		id, formatFloat(b.MinX), formatFloat(b.MinY), formatFloat(b.Width()), formatFloat(b.Height()))
}

// renderLabel подписывает область её идентификатором и порядковым номером
// (порядок определяет победителя при перекрытии).
func renderLabel(index int, area RoomArea) string {
	cx := area.Bounds.MinX + area.Bounds.Width()/2
	cy := area.Bounds.MinY + area.Bounds.Height()/2
	return fmt.Sprintf(`<text x="%s" y="%s" font-size="14" text-anchor="middle" fill="#d62728">%d: %s</text>`,
		formatFloat(cx), formatFloat(cy), index, html.EscapeString(area.RoomID))
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p geometry.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
