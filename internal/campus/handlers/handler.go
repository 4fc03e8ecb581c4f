package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/controller"
	"campus-map/internal/campus/detail"
	"campus-map/internal/campus/mapview"
	"campus-map/internal/campus/models"
	"campus-map/internal/campus/render"
	"campus-map/internal/campus/service"
)

// RoomStore is the schedule data the API serves.
type RoomStore interface {
	detail.RoomFinder
	GetAllRooms(ctx context.Context) ([]models.Room, error)
	GetRoomsByFloor(ctx context.Context, floor int) ([]models.Room, error)
	Ping(ctx context.Context) error
}

// ============================================================
// Map Handler
// ============================================================

type MapHandler struct {
	rooms    RoomStore
	catalog  *areas.Catalog
	assets   mapview.AssetOpener
	sessions *service.SessionManager
	validate *validator.Validate
	log      zerolog.Logger
}

func NewMapHandler(rooms RoomStore, catalog *areas.Catalog, assets mapview.AssetOpener, sessions *service.SessionManager) *MapHandler {
	return &MapHandler{
		rooms:    rooms,
		catalog:  catalog,
		assets:   assets,
		sessions: sessions,
		validate: validator.New(),
		log:      log.With().Str("component", "http").Logger(),
	}
}

// Register вешает маршруты API на роутер.
func (h *MapHandler) Register(r fiber.Router) {
	r.Get("/floors", h.ListFloors)
	r.Get("/floors/:floor/rooms", h.ListFloorRooms)
	r.Get("/floors/:floor/areas.svg", h.FloorAreasSVG)

	r.Get("/rooms", h.ListRooms)
	r.Get("/rooms/:id/schedule", h.RoomSchedule)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.DeleteSession)
	r.Put("/sessions/:id/floor", h.SelectFloor)
	r.Put("/sessions/:id/viewport", h.SetViewport)
	r.Put("/sessions/:id/debug", h.SetDebug)
	r.Put("/sessions/:id/selection", h.SetSelection)
	r.Post("/sessions/:id/tap", h.Tap)
	r.Get("/sessions/:id/map", h.RenderMap)
	r.Get("/sessions/:id/thumbnail", h.Thumbnail)
}

// ============================================================
// Helpers
// ============================================================

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail переводит доменные ошибки в HTTP-статусы.
func (h *MapHandler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return errorJSON(c, http.StatusNotFound, "session not found")
	case errors.Is(err, controller.ErrUnknownFloor):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidViewport),
		errors.Is(err, render.ErrUnsupportedFormat):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, mapview.ErrLoad):
		h.log.Error().Err(err).Str("path", c.Path()).Msg("floor plan unavailable")
		return errorJSON(c, http.StatusInternalServerError, "floor plan unavailable")
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}

// ErrorHandler отдаёт ошибки fiber в том же JSON-виде, что и обработчики.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := err.Error()
	if fe != nil {
		msg = fe.Message
	}
	return errorJSON(c, code, msg)
}

// decode разбирает JSON-тело и проверяет его тегами validate. Ошибкой возвращается
// *fiber.Error с кодом 400.
func (h *MapHandler) decode(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(http.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	if err := h.validate.Struct(dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (h *MapHandler) session(c fiber.Ctx) (*service.Session, error) {
	return h.sessions.Resolve(c.Params("id"))
}

func floorParam(c fiber.Ctx) (int, bool) {
	n, err := strconv.Atoi(c.Params("floor"))
	return n, err == nil
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > service.MaxViewportSide {
		return 0, fmt.Errorf("%w: %s=%q", service.ErrInvalidViewport, key, raw)
	}
	return n, nil
}
