package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет базу расписаний и число открытых экранов.
func (h *MapHandler) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.rooms.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("readiness: schedule store unavailable")
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  "schedule store unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "ready",
		"floors":   len(h.catalog.Floors()),
		"sessions": h.sessions.Len(),
	})
}
