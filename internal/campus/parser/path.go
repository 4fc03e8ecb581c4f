package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"campus-map/internal/campus/geometry"
)

// ============================================================
// Path Parser
// ============================================================

// e/E не команда: это экспонента числа
var (
	commandRe = regexp.MustCompile(`([A-DF-Za-df-z])([^A-DF-Za-df-z]*)`)
	numberRe  = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// ParsePath парсит SVG path в список вершин контура.
// Поддерживаются команды M, m, L, l, H, h, V, v, Z. Повторные пары координат
// после M/L трактуются как неявные LineTo. Замыкающая вершина не дублируется.
// Кривые, дуги и нечитаемые числа дают ошибку.
func ParsePath(d string) ([]geometry.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geometry.Point
	var currentX, currentY float64

	matches := commandRe.FindAllStringSubmatchIndex(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands in %q", d)
	}
	if matches[0][0] != 0 {
		return nil, fmt.Errorf("path must start with a command, got %q", d[:matches[0][0]])
	}

	for _, m := range matches {
		cmd := d[m[2]:m[3]]
		coords, err := parseCoords(d[m[4]:m[5]])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", cmd, err)
		}

		switch cmd {
		case "M", "L", "m", "l":
			if len(coords) == 0 || len(coords)%2 != 0 {
				return nil, fmt.Errorf("command %s needs coordinate pairs, got %d values", cmd, len(coords))
			}
		case "H", "h", "V", "v":
			if len(coords) == 0 {
				return nil, fmt.Errorf("command %s needs at least one value", cmd)
			}
		case "Z", "z":
			if len(coords) != 0 {
				return nil, fmt.Errorf("command %s takes no values, got %d", cmd, len(coords))
			}
		default:
			return nil, fmt.Errorf("unsupported path command %q", cmd)
		}

		switch cmd {
		case "M", "L": // absolute
			for i := 0; i+1 < len(coords); i += 2 {
				currentX, currentY = coords[i], coords[i+1]
				points = append(points, geometry.Pt(currentX, currentY))
			}

		case "m", "l": // relative
			for i := 0; i+1 < len(coords); i += 2 {
				currentX += coords[i]
				currentY += coords[i+1]
				points = append(points, geometry.Pt(currentX, currentY))
			}

		case "H":
			for _, x := range coords {
				currentX = x
				points = append(points, geometry.Pt(currentX, currentY))
			}

		case "h":
			for _, dx := range coords {
				currentX += dx
				points = append(points, geometry.Pt(currentX, currentY))
			}

		case "V":
			for _, y := range coords {
				currentY = y
				points = append(points, geometry.Pt(currentX, currentY))
			}

		case "v":
			for _, dy := range coords {
				currentY += dy
				points = append(points, geometry.Pt(currentX, currentY))
			}

		case "Z", "z":
			// контур замкнут неявно, возвращаемся к первой точке
			if len(points) > 0 {
				currentX, currentY = points[0].X, points[0].Y
			}
		}
	}

	// убираем дубль замыкания
	if len(points) > 1 {
		first, last := points[0], points[len(points)-1]
		if first == last {
			points = points[:len(points)-1]
		}
	}

	return points, nil
}

// parseCoords разбирает список чисел через пробелы и запятые, включая
// слитную запись вида "0-100" или "1.5.5". Любой посторонний символ дает
// ошибку.
func parseCoords(s string) ([]float64, error) {
	var coords []float64
	prev := 0
	for _, loc := range numberRe.FindAllStringIndex(s, -1) {
		if gap := strings.Trim(s[prev:loc[0]], " \t\r\n,"); gap != "" {
			return nil, fmt.Errorf("bad number %q", gap)
		}
		val, err := strconv.ParseFloat(s[loc[0]:loc[1]], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", s[loc[0]:loc[1]], err)
		}
		coords = append(coords, val)
		prev = loc[1]
	}
	if gap := strings.Trim(s[prev:], " \t\r\n,"); gap != "" {
		return nil, fmt.Errorf("bad number %q", gap)
	}
	return coords, nil
}
