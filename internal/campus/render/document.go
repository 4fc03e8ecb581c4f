package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"campus-map/internal/campus/parser"
)

// ============================================================
// SVG Document
// ============================================================

// Document: разобранный SVG-план, готовый к растеризации в любом размере.
type Document struct {
	icon   *oksvg.SvgIcon
	header parser.Header
}

// Parse читает SVG целиком: размеры берутся из корневого элемента,
// растеризацией занимается oksvg.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}

	header, err := parser.ParseHeader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg header: %w", err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	return &Document{icon: icon, header: header}, nil
}

// DocumentSize returns the explicit width/height attributes, zero when absent.
func (d *Document) DocumentSize() (float64, float64) {
	return d.header.Width, d.header.Height
}

// ViewBox returns the declared view-box size.
func (d *Document) ViewBox() (float64, float64) {
	if d.header.ViewBox.Width > 0 && d.header.ViewBox.Height > 0 {
		return d.header.ViewBox.Width, d.header.ViewBox.Height
	}
	return d.icon.ViewBox.W, d.icon.ViewBox.H
}

// Render rasterizes the document into dst at the given size, anchored at
// the top-left corner.
func (d *Document) Render(dst *image.RGBA, width, height float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rasterize svg: %v", r)
		}
	}()

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	d.icon.SetTarget(0, 0, width, height)
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	d.icon.Draw(raster, 1.0)
	return nil
}

// NewCanvas returns a white RGBA image of the given size.
func NewCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}
