package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup настраивает глобальный логгер: в development читаемый вывод в
// консоль, иначе JSON. Неизвестный уровень считается info.
func Setup(level, env string) zerolog.Level {
	return SetupWriter(os.Stderr, level, env)
}

// SetupWriter is Setup with an explicit output.
func SetupWriter(w io.Writer, level, env string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !strings.EqualFold(env, "production") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return lvl
}
