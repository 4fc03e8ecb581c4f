package areas

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"campus-map/internal/campus/parser"
)

// ExtractRecords читает фигуры кабинетов прямо из SVG плана и возвращает
// готовые записи для floors.yaml. Каждая запись проверяется сборкой;
// негодные фигуры пропускаются и возвращаются во втором списке.
func ExtractRecords(r io.Reader) ([]AreaRecord, []error, error) {
	elements, err := parser.ParseElements(r)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []AreaRecord
		skipped []error
	)
	for _, el := range elements {
		rec := AreaRecord{ID: el.ID, Kind: el.Kind, Coords: el.Coords, Path: el.D}
		if _, err := rec.Build(); err != nil {
			skipped = append(skipped, fmt.Errorf("%s: %w", el.ID, err))
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// MarshalRecords renders records as a floors.yaml "areas:" block.
func MarshalRecords(records []AreaRecord) ([]byte, error) {
	return yaml.Marshal(struct {
		Areas []AreaRecord `yaml:"areas"`
	}{Areas: records})
}
