package areas

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"campus-map/internal/campus/models"
)

// ============================================================
// Records
// ============================================================

// AreaRecord: одна запись о кабинете в floors.yaml.
//
//	rect:    coords [x1, y1, x2, y2]
//	polygon: coords [x1, y1, x2, y2, x3, y3, ...]
//	circle:  coords [cx, cy, r]
//	path:    path "M ... Z"
type AreaRecord struct {
	ID     string    `json:"id" yaml:"id" validate:"required"`
	Kind   string    `json:"kind" yaml:"kind" validate:"required,oneof=rect polygon circle path"`
	Coords []float64 `json:"coords,omitempty" yaml:"coords,omitempty"`
	Path   string    `json:"path,omitempty" yaml:"path,omitempty" validate:"required_if=Kind path"`
}

// Floor describes one floor plan and the ordered hit-test areas on it.
// Order matters: on overlap the earlier record wins.
type Floor struct {
	Number int          `yaml:"number"`
	Name   string       `yaml:"name"`
	Asset  string       `yaml:"asset" validate:"required"`
	Areas  []AreaRecord `yaml:"areas" validate:"dive"`

	built []RoomArea
}

type catalogFile struct {
	DefaultFloor *int    `yaml:"default_floor"`
	Floors       []Floor `yaml:"floors" validate:"required,min=1,dive"`
}

// Build converts a record into a RoomArea.
func (r AreaRecord) Build() (RoomArea, error) {
	switch r.Kind {
	case "rect":
		if len(r.Coords) != 4 {
			return RoomArea{}, fmt.Errorf("%w: rect %q needs 4 coords, got %d", ErrInvalidArgument, r.ID, len(r.Coords))
		}
		return RectArea(r.ID, r.Coords[0], r.Coords[1], r.Coords[2], r.Coords[3])
	case "polygon":
		return PolygonArea(r.ID, r.Coords)
	case "circle":
		if len(r.Coords) != 3 {
			return RoomArea{}, fmt.Errorf("%w: circle %q needs 3 coords, got %d", ErrInvalidArgument, r.ID, len(r.Coords))
		}
		return CircleArea(r.ID, r.Coords[0], r.Coords[1], r.Coords[2])
	case "path":
		return PathArea(r.ID, r.Path)
	}
	return RoomArea{}, fmt.Errorf("%w: unknown area kind %q for %q", ErrInvalidArgument, r.Kind, r.ID)
}

// RoomAreas returns a fresh copy of the floor's built area list.
func (f *Floor) RoomAreas() []RoomArea {
	out := make([]RoomArea, len(f.built))
	copy(out, f.built)
	return out
}

func (f *Floor) build() error {
	seen := make(map[string]bool, len(f.Areas))
	f.built = make([]RoomArea, 0, len(f.Areas))
	for _, rec := range f.Areas {
		if seen[rec.ID] {
			return fmt.Errorf("%w: duplicate area %q on floor %d", ErrInvalidArgument, rec.ID, f.Number)
		}
		seen[rec.ID] = true

		area, err := rec.Build()
		if err != nil {
			return fmt.Errorf("floor %d: %w", f.Number, err)
		}
		f.built = append(f.built, area)
	}
	return nil
}

// ============================================================
// Catalog
// ============================================================

// Catalog: набор этажей. Все области строятся при загрузке, поэтому ошибка
// в координатах останавливает запуск, а не всплывает при клике.
type Catalog struct {
	defaultFloor int
	floors       []*Floor
	byNumber     map[int]*Floor
}

// LoadCatalog reads floors.yaml from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading floors file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates a floors document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing floors YAML: %w", err)
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	defaultFloor := file.Floors[0].Number
	if file.DefaultFloor != nil {
		defaultFloor = *file.DefaultFloor
	}
	return NewCatalog(defaultFloor, file.Floors...)
}

// NewCatalog builds a catalog from floors given in code.
func NewCatalog(defaultFloor int, floors ...Floor) (*Catalog, error) {
	c := &Catalog{
		defaultFloor: defaultFloor,
		byNumber:     make(map[int]*Floor, len(floors)),
	}

	for i := range floors {
		f := new(Floor)
		*f = floors[i]
		if _, dup := c.byNumber[f.Number]; dup {
			return nil, fmt.Errorf("%w: duplicate floor %d", ErrInvalidArgument, f.Number)
		}
		if err := f.build(); err != nil {
			return nil, err
		}
		c.floors = append(c.floors, f)
		c.byNumber[f.Number] = f
	}

	if _, ok := c.byNumber[defaultFloor]; !ok {
		return nil, fmt.Errorf("%w: default floor %d is not in the catalog", ErrInvalidArgument, defaultFloor)
	}

	sort.SliceStable(c.floors, func(i, j int) bool {
		return c.floors[i].Number < c.floors[j].Number
	})
	return c, nil
}

// Floor returns the floor with the given number.
func (c *Catalog) Floor(number int) (*Floor, bool) {
	f, ok := c.byNumber[number]
	return f, ok
}

// DefaultFloor returns the number of the floor shown first.
func (c *Catalog) DefaultFloor() int {
	return c.defaultFloor
}

// SetDefaultFloor overrides the floor shown first.
func (c *Catalog) SetDefaultFloor(number int) error {
	if _, ok := c.byNumber[number]; !ok {
		return fmt.Errorf("%w: default floor %d is not in the catalog", ErrInvalidArgument, number)
	}
	c.defaultFloor = number
	return nil
}

// Floors lists the catalog sorted by floor number.
func (c *Catalog) Floors() []models.FloorSummary {
	out := make([]models.FloorSummary, 0, len(c.floors))
	for _, f := range c.floors {
		out = append(out, models.FloorSummary{
			Number:    f.Number,
			Name:      f.Name,
			Asset:     f.Asset,
			AreaCount: len(f.built),
		})
	}
	return out
}
