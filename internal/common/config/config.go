package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	AssetsDir  string
	FloorsFile string
	RoomsFile  string
	DBPath     string
	LogLevel   string

	// DefaultFloor переопределяет default_floor из floors.yaml.
	DefaultFloor *int

	ViewportWidth  int
	ViewportHeight int
}

// Ключи совпадают с именами переменных окружения в нижнем регистре.
var defaults = map[string]any{
	"port":            "3000",
	"env":             "development",
	"read_timeout":    10,
	"write_timeout":   10,
	"assets_dir":      "data/assets",
	"floors_file":     "data/floors.yaml",
	"rooms_file":      "data/rooms.yaml",
	"db_path":         ":memory:",
	"log_level":       "info",
	"viewport_width":  1080,
	"viewport_height": 600,
}

// Load загружает конфигурацию: значения по умолчанию, затем файл
// configFile (если задан), затем переменные окружения, в том числе из .env.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else {
		log.Debug().Msg(".env loaded")
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv не видит ключи без значения по умолчанию
	if err := v.BindEnv("default_floor"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("config file loaded")
	}

	cfg := &Config{
		Port:           v.GetString("port"),
		Environment:    v.GetString("env"),
		ReadTimeout:    v.GetInt("read_timeout"),
		WriteTimeout:   v.GetInt("write_timeout"),
		AssetsDir:      v.GetString("assets_dir"),
		FloorsFile:     v.GetString("floors_file"),
		RoomsFile:      v.GetString("rooms_file"),
		DBPath:         v.GetString("db_path"),
		LogLevel:       v.GetString("log_level"),
		ViewportWidth:  v.GetInt("viewport_width"),
		ViewportHeight: v.GetInt("viewport_height"),
	}
	if v.IsSet("default_floor") {
		n := v.GetInt("default_floor")
		cfg.DefaultFloor = &n
	}

	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %dx%d", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	return cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
