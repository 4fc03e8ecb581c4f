package schedule

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"campus-map/internal/campus/models"
)

type seedFile struct {
	Rooms []models.Room `yaml:"rooms" validate:"dive"`
}

// ParseSeed разбирает YAML со списком кабинетов.
func ParseSeed(data []byte) ([]models.Room, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rooms: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validate rooms: %w", err)
	}
	return f.Rooms, nil
}

// Seed заполняет репозиторий кабинетами из файла.
func Seed(ctx context.Context, repo *Repository, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rooms: %w", err)
	}
	rooms, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}

	for _, room := range rooms {
		if err := repo.AddRoom(ctx, room); err != nil {
			return 0, err
		}
	}

	log.Info().Str("component", "schedule").Str("path", path).Int("rooms", len(rooms)).Msg("rooms seeded")
	return len(rooms), nil
}
