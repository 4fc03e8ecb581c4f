package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element: фигура плана, помеченная как кабинет через id.
type Element struct {
	ID     string
	Kind   string // rect | circle | polygon | path
	Coords []float64
	D      string
}

// ParseElements собирает фигуры кабинетов на любой глубине вложенности
// в порядке документа. Кабинетом считается элемент с id вида room_* или *_room.
func ParseElements(r io.Reader) ([]Element, error) {
	decoder := xml.NewDecoder(r)
	var elements []Element

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return elements, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode svg: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
		if !IsRoomID(attrs["id"]) {
			continue
		}

		el, ok := elementFrom(start.Name.Local, attrs)
		if ok {
			elements = append(elements, el)
		}
	}
}

// IsRoomID reports whether an element id marks a room.
func IsRoomID(id string) bool {
	lower := strings.ToLower(id)
	return strings.HasPrefix(lower, "room_") || strings.HasSuffix(lower, "_room")
}

func elementFrom(tag string, attrs map[string]string) (Element, bool) {
	el := Element{ID: attrs["id"], Kind: tag}

	switch tag {
	case "rect":
		x, y := parseLength(attrs["x"]), parseLength(attrs["y"])
		w, h := parseLength(attrs["width"]), parseLength(attrs["height"])
		if w <= 0 || h <= 0 {
			return Element{}, false
		}
		el.Coords = []float64{x, y, x + w, y + h}
	case "circle":
		r := parseLength(attrs["r"])
		if r <= 0 {
			return Element{}, false
		}
		el.Coords = []float64{parseLength(attrs["cx"]), parseLength(attrs["cy"]), r}
	case "polygon":
		coords, err := parseCoords(attrs["points"])
		if err != nil || len(coords) < 6 {
			return Element{}, false
		}
		el.Coords = coords
	case "path":
		if strings.TrimSpace(attrs["d"]) == "" {
			return Element{}, false
		}
		el.D = attrs["d"]
	default:
		return Element{}, false
	}
	return el, true
}
