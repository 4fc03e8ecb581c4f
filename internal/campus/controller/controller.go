package controller

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/mapview"
)

var ErrUnknownFloor = errors.New("unknown floor")

// Тексты экрана.
const (
	InstructionNormal = "Нажмите на кабинет для просмотра расписания"
	InstructionDebug  = "Кликайте на карте, чтобы увидеть координаты. Скопируйте их в floors.yaml"

	DebugButtonOff = "Режим отладки"
	DebugButtonOn  = "Выключить отладку"
)

// hintHalfSize: полуразмер прямоугольника, предлагаемого в подсказке.
const hintHalfSize = 50

// Navigator opens the schedule screen for a room.
type Navigator interface {
	OpenSchedule(roomID string)
}

// ============================================================
// Controller
// ============================================================

// Controller: экран с картой: выбор этажа, кнопка отладки, подсказки и
// переход к расписанию по нажатию на кабинет.
type Controller struct {
	surface *mapview.Surface
	catalog *areas.Catalog
	nav     Navigator
	log     zerolog.Logger

	mu    sync.Mutex
	floor int
	debug bool
	hint  *DebugHint
}

// DebugHint: результат нажатия в режиме отладки.
type DebugHint struct {
	PlanX     float64          `json:"plan_x"`
	PlanY     float64          `json:"plan_y"`
	Suggested areas.AreaRecord `json:"suggested"`
	Text      string           `json:"text"`
}

// State: то, что показывает экран.
type State struct {
	Floor       int        `json:"floor"`
	Debug       bool       `json:"debug"`
	DebugButton string     `json:"debug_button"`
	Instruction string     `json:"instruction"`
	Selected    string     `json:"selected,omitempty"`
	Hint        *DebugHint `json:"hint,omitempty"`
}

// TapResult describes what a tap did.
type TapResult struct {
	RoomID string     `json:"room_id,omitempty"`
	Hit    bool       `json:"hit"`
	Hint   *DebugHint `json:"hint,omitempty"`
}

// New wires the surface hooks to the controller. No floor is installed
// until SelectFloor or Start is called.
func New(surface *mapview.Surface, catalog *areas.Catalog, nav Navigator) *Controller {
	c := &Controller{
		surface: surface,
		catalog: catalog,
		nav:     nav,
		log:     log.With().Str("component", "controller").Logger(),
	}
	surface.OnRoomTapped(c.roomTapped)
	surface.OnDebugTap(c.debugTapped)
	return c
}

// Start selects the catalog's default floor.
func (c *Controller) Start() error {
	return c.SelectFloor(c.catalog.DefaultFloor())
}

// SelectFloor загружает план этажа и ставит его вместе с областями
// кабинетов. При ошибке остаётся прежний этаж.
func (c *Controller) SelectFloor(number int) error {
	f, ok := c.catalog.Floor(number)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFloor, number)
	}

	plan, err := c.surface.PrepareFloorPlan(f.Asset)
	if err != nil {
		c.log.Error().Err(err).Int("floor", number).Msg("floor switch failed, keeping previous floor")
		return err
	}
	c.surface.InstallFloor(plan, f.RoomAreas())

	c.mu.Lock()
	c.floor = number
	c.hint = nil
	c.mu.Unlock()

	c.log.Info().Int("floor", number).Str("asset", f.Asset).Int("areas", len(f.Areas)).Msg("floor installed")
	return nil
}

// Floor returns the installed floor number, 0 before the first switch.
func (c *Controller) Floor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.floor
}

// SetDebug переключает режим отладки на карте и тексты экрана.
func (c *Controller) SetDebug(enabled bool) {
	c.mu.Lock()
	c.debug = enabled
	c.mu.Unlock()

	c.surface.SetDebugMode(enabled)
}

// ToggleDebug flips debug mode and returns the new value.
func (c *Controller) ToggleDebug() bool {
	c.mu.Lock()
	enabled := !c.debug
	c.debug = enabled
	c.mu.Unlock()

	c.surface.SetDebugMode(enabled)
	return enabled
}

// Tap передаёт нажатие карте. Блокировка контроллера здесь не берётся:
// хуки карты сами заходят в контроллер.
func (c *Controller) Tap(x, y float64) TapResult {
	id, ok := c.surface.ResolveTap(x, y)
	if ok {
		return TapResult{RoomID: id, Hit: true}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debug && c.hint != nil {
		h := *c.hint
		return TapResult{Hint: &h}
	}
	return TapResult{}
}

// State returns a snapshot of the screen.
func (c *Controller) State() State {
	selected := c.surface.SelectedRoom()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Floor:       c.floor,
		Debug:       c.debug,
		DebugButton: DebugButtonOff,
		Instruction: InstructionNormal,
		Selected:    selected,
	}
	if c.debug {
		s.DebugButton = DebugButtonOn
		s.Instruction = InstructionDebug
		if c.hint != nil {
			h := *c.hint
			s.Hint = &h
		}
	}
	return s
}

// ============================================================
// Surface hooks
// ============================================================

func (c *Controller) roomTapped(roomID string) {
	c.mu.Lock()
	debug := c.debug
	c.mu.Unlock()

	if debug || c.nav == nil {
		return
	}
	c.nav.OpenSchedule(roomID)
}

func (c *Controller) debugTapped(x, y float64) {
	hint := NewDebugHint(x, y)

	c.mu.Lock()
	c.hint = &hint
	c.mu.Unlock()

	c.log.Debug().Float64("x", x).Float64("y", y).Msg("click at plan coordinates")
}

// NewDebugHint строит подсказку: координаты плана и готовую запись rect
// на ±50 единиц вокруг точки.
func NewDebugHint(x, y float64) DebugHint {
	x1, y1 := float64(int(x-hintHalfSize)), float64(int(y-hintHalfSize))
	x2, y2 := float64(int(x+hintHalfSize)), float64(int(y+hintHalfSize))

	rec := areas.AreaRecord{
		ID:     "room_XXX",
		Kind:   "rect",
		Coords: []float64{x1, y1, x2, y2},
	}

	text := fmt.Sprintf("Координаты SVG: X=%d, Y=%d\n", int(x), int(y)) +
		"Используйте эти координаты в floors.yaml\n\n" +
		"Пример для прямоугольного кабинета:\n" +
		fmt.Sprintf("- id: %s\n  kind: %s\n  coords: [%d, %d, %d, %d]",
			rec.ID, rec.Kind, int(x1), int(y1), int(x2), int(y2))

	return DebugHint{PlanX: x, PlanY: y, Suggested: rec, Text: text}
}
