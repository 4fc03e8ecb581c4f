package handlers

import (
	"bytes"
	"errors"
	"image"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"campus-map/internal/campus/mapview"
	"campus-map/internal/campus/render"
	"campus-map/internal/campus/service"
)

const (
	defaultThumbWidth  = 320
	defaultThumbHeight = 180
)

type floorRequest struct {
	Floor *int `json:"floor" validate:"required"`
}

type viewportRequest struct {
	Width  int `json:"width" validate:"required,gt=0,lte=8192"`
	Height int `json:"height" validate:"required,gt=0,lte=8192"`
}

type debugRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type selectionRequest struct {
	RoomID string `json:"room_id"`
}

type tapRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type tapResponse struct {
	service.TapOutcome
	ScheduleURL string `json:"schedule_url,omitempty"`
}

// ============================================================
// Sessions
// ============================================================

// CreateSession открывает экран карты на этаже по умолчанию.
func (h *MapHandler) CreateSession(c fiber.Ctx) error {
	sess := h.sessions.Create()
	return c.Status(http.StatusCreated).JSON(sess.State())
}

func (h *MapHandler) GetSession(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.State())
}

func (h *MapHandler) DeleteSession(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SelectFloor переключает этаж; при ошибке загрузки остаётся прежний.
func (h *MapHandler) SelectFloor(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req floorRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	if err := sess.SelectFloor(*req.Floor); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.State())
}

func (h *MapHandler) SetViewport(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req viewportRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	if err := sess.SetViewport(req.Width, req.Height); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.State())
}

func (h *MapHandler) SetDebug(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req debugRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	sess.SetDebug(*req.Enabled)
	return c.JSON(sess.State())
}

// SetSelection подсвечивает кабинет; пустой room_id снимает выделение.
// Кабинет не с текущего этажа: 409.
func (h *MapHandler) SetSelection(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req selectionRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	if !sess.Select(req.RoomID) {
		return errorJSON(c, http.StatusConflict, "room is not on the current floor")
	}
	return c.JSON(sess.State())
}

// Tap обрабатывает нажатие в координатах устройства.
func (h *MapHandler) Tap(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req tapRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	out := sess.Tap(*req.X, *req.Y)
	resp := tapResponse{TapOutcome: out}
	if out.NavigateTo != "" {
		resp.ScheduleURL = "/api/v1/rooms/" + out.NavigateTo + "/schedule"
	}
	return c.JSON(resp)
}

// ============================================================
// Rendering
// ============================================================

// RenderMap отдаёт кадр карты; width/height в запросе меняют область
// вывода сессии.
func (h *MapHandler) RenderMap(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	format, err := render.ParseFormat(c.Query("format"))
	if err != nil {
		return h.fail(c, err)
	}

	w, hh := sess.Surface().Viewport()
	if w, err = queryInt(c, "width", w); err != nil {
		return h.fail(c, err)
	}
	if hh, err = queryInt(c, "height", hh); err != nil {
		return h.fail(c, err)
	}
	if err := sess.SetViewport(w, hh); err != nil {
		return h.fail(c, err)
	}

	img, err := h.frame(c, sess)
	if err != nil {
		return h.fail(c, err)
	}
	return h.send(c, img, format)
}

// Thumbnail: уменьшенный кадр текущего вида, PNG.
func (h *MapHandler) Thumbnail(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	tw, err := queryInt(c, "width", defaultThumbWidth)
	if err != nil {
		return h.fail(c, err)
	}
	th, err := queryInt(c, "height", defaultThumbHeight)
	if err != nil {
		return h.fail(c, err)
	}

	img, err := h.frame(c, sess)
	if err != nil {
		return h.fail(c, err)
	}
	return h.send(c, render.Thumbnail(img, tw, th), render.FormatPNG)
}

// frame рисует кадр. Сбой растеризации не прерывает ответ: кадр уходит с
// подсветкой и заголовком X-Render-Error.
func (h *MapHandler) frame(c fiber.Ctx, sess *service.Session) (*image.RGBA, error) {
	img, err := sess.Render()
	if err != nil {
		if img == nil || !errors.Is(err, mapview.ErrRender) {
			return nil, err
		}
		h.log.Warn().Err(err).Str("session", sess.ID).Msg("partial frame")
		c.Set("X-Render-Error", err.Error())
	}
	return img, nil
}

func (h *MapHandler) send(c fiber.Ctx, img image.Image, format render.Format) error {
	var buf bytes.Buffer
	if err := render.Encode(&buf, img, format); err != nil {
		return h.fail(c, err)
	}
	c.Set("Content-Type", format.ContentType())
	return c.Send(buf.Bytes())
}
