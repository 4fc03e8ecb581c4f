package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/detail"
	"campus-map/internal/campus/parser"
)

// ============================================================
// Floors & Rooms
// ============================================================

// ListFloors возвращает каталог этажей.
func (h *MapHandler) ListFloors(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default_floor": h.catalog.DefaultFloor(),
		"floors":        h.catalog.Floors(),
	})
}

// ListFloorRooms возвращает кабинеты этажа в порядке добавления.
func (h *MapHandler) ListFloorRooms(c fiber.Ctx) error {
	n, ok := floorParam(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "floor must be a number")
	}

	rooms, err := h.rooms.GetRoomsByFloor(context.Background(), n)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rooms)
}

// FloorAreasSVG отдаёт контуры областей этажа поверх размеров плана,
// чтобы сверить их с картой.
func (h *MapHandler) FloorAreasSVG(c fiber.Ctx) error {
	n, ok := floorParam(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "floor must be a number")
	}
	floor, ok := h.catalog.Floor(n)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "floor not found")
	}

	width, height := h.planSize(floor.Asset)
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(areas.RenderOverlay(width, height, floor.RoomAreas()))
}

// planSize читает размеры из заголовка SVG; при ошибке нули, и оверлей
// сам подбирает размер по областям.
func (h *MapHandler) planSize(asset string) (float64, float64) {
	rc, err := h.assets.Open(asset)
	if err != nil {
		h.log.Warn().Err(err).Str("asset", asset).Msg("plan size unavailable")
		return 0, 0
	}
	defer rc.Close()

	header, err := parser.ParseHeader(rc)
	if err != nil {
		h.log.Warn().Err(err).Str("asset", asset).Msg("plan size unavailable")
		return 0, 0
	}

	w, hh := header.Width, header.Height
	if w <= 0 || hh <= 0 {
		w, hh = header.ViewBox.Width, header.ViewBox.Height
	}
	return w, hh
}

// ListRooms возвращает все кабинеты.
func (h *MapHandler) ListRooms(c fiber.Ctx) error {
	rooms, err := h.rooms.GetAllRooms(context.Background())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rooms)
}

// RoomSchedule: экран расписания. Неизвестный кабинет отдаётся с
// заглушкой в заголовке и пустым списком, как и на экране.
func (h *MapHandler) RoomSchedule(c fiber.Ctx) error {
	view, err := detail.Build(context.Background(), h.rooms, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}
