package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

const (
	devFormat  = "[${time}] ${status} - ${latency} ${method} ${path}?${queryParams} | ${bytesSent}B\n"
	jsonFormat = `{"time":"${time}","status":${status},"latency":"${latency}","method":"${method}","path":"${path}","bytes":${bytesSent}}` + "\n"
)

// Logger пишет строку доступа на каждый запрос; в production пишет JSON,
// как и остальной лог.
func Logger(production bool) fiber.Handler {
	cfg := logger.Config{
		Format:     devFormat,
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}
	if production {
		cfg.Format = jsonFormat
		cfg.TimeFormat = "2006-01-02T15:04:05Z07:00"
		cfg.TimeZone = "UTC"
	}
	return logger.New(cfg)
}
