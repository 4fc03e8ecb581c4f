package render

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"campus-map/internal/campus/geometry"
)

var (
	// HighlightColor: полупрозрачный красный для выбранного кабинета.
	HighlightColor = color.NRGBA{R: 0xFF, A: 0x40}
	// DebugColor is used for the crosshair and the coordinate readout.
	DebugColor = color.NRGBA{R: 0xFF, A: 0xFF}
)

// ============================================================
// Shapes
// ============================================================

// FillShape заливает фигуру, заданную в координатах плана, умножая
// координаты на scale по обеим осям.
func FillShape(dst *image.RGBA, shape geometry.Shape, scale float64, c color.Color) {
	filler := newFiller(dst, c)

	switch s := shape.(type) {
	case geometry.Polygon:
		if s.Len() < 3 {
			return
		}
		sp := s.Scale(scale)
		filler.Start(rasterx.ToFixedP(sp.Vertices[0].X, sp.Vertices[0].Y))
		for _, v := range sp.Vertices[1:] {
			filler.Line(rasterx.ToFixedP(v.X, v.Y))
		}
		filler.Stop(true)
	case geometry.Circle:
		sc := s.Scale(scale)
		rasterx.AddCircle(sc.Center.X, sc.Center.Y, sc.Radius, filler)
	default:
		b := shape.Bounds().Scale(scale)
		rasterx.AddRect(b.MinX, b.MinY, b.MaxX, b.MaxY, 0, filler)
	}

	filler.Draw()
}

// DrawCrosshair рисует крестик с полудлиной arm и толщиной thickness
// в координатах устройства.
func DrawCrosshair(dst *image.RGBA, x, y, arm, thickness float64, c color.Color) {
	filler := newFiller(dst, c)
	half := thickness / 2
	rasterx.AddRect(x-arm, y-half, x+arm, y+half, 0, filler)
	rasterx.AddRect(x-half, y-arm, x+half, y+arm, 0, filler)
	filler.Draw()
}

// DrawText пишет строки моноширинным шрифтом, первая строка ложится на базовую
// линию y.
func DrawText(dst *image.RGBA, x, y int, lines []string, c color.Color) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 3

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(x, y+i*lineHeight)
		d.DrawString(line)
	}
}

func newFiller(dst *image.RGBA, c color.Color) *rasterx.Filler {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(c)
	return filler
}
