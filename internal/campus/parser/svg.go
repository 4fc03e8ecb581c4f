package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

// Header: атрибуты корневого <svg>, нужные для определения размеров плана.
type Header struct {
	Width   float64 // 0, если атрибут не задан или не в абсолютных единицах
	Height  float64
	ViewBox ViewBox
}

// ViewBox: разобранный атрибут viewBox.
type ViewBox struct {
	MinX   float64
	MinY   float64
	Width  float64
	Height float64
}

var ErrNotSVG = errors.New("root element is not <svg>")

// ============================================================
// Parser
// ============================================================

// ParseHeader читает только корневой элемент документа.
func ParseHeader(r io.Reader) (Header, error) {
	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Header{}, ErrNotSVG
			}
			return Header{}, fmt.Errorf("decode svg: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return Header{}, ErrNotSVG
		}

		var h Header
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				h.Width = parseLength(attr.Value)
			case "height":
				h.Height = parseLength(attr.Value)
			case "viewBox":
				h.ViewBox = parseViewBox(attr.Value)
			}
		}
		return h, nil
	}
}

// parseLength понимает числа без единиц и с px; проценты и прочие единицы
// считаются отсутствующими.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}

func parseViewBox(s string) ViewBox {
	coords, err := parseCoords(s)
	if err != nil || len(coords) != 4 {
		return ViewBox{}
	}
	return ViewBox{MinX: coords[0], MinY: coords[1], Width: coords[2], Height: coords[3]}
}
