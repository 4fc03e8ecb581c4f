package mapview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/geometry"
	"campus-map/internal/campus/render"
)

// Размер плана по умолчанию, если в документе нет ни width/height, ни viewBox.
const (
	DefaultPlanWidth  = 1800
	DefaultPlanHeight = 1000
)

const (
	crosshairArm       = 20
	crosshairThickness = 3
	readoutOffset      = 30
)

var (
	ErrLoad   = errors.New("floor plan load failed")
	ErrRender = errors.New("floor plan render failed")
)

// LoadError reports an asset that could not be opened or parsed.
type LoadError struct {
	Asset string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load floor plan %q: %v", e.Asset, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// ============================================================
// Collaborators
// ============================================================

// AssetOpener resolves a floor-plan asset name to a byte stream.
type AssetOpener interface {
	Open(name string) (io.ReadCloser, error)
}

// Document is a parsed vector floor plan.
type Document interface {
	DocumentSize() (width, height float64)
	ViewBox() (width, height float64)
	Render(dst *image.RGBA, width, height float64) error
}

// ParseFunc turns a byte stream into a Document.
type ParseFunc func(r io.Reader) (Document, error)

func parseSVG(r io.Reader) (Document, error) {
	doc, err := render.Parse(r)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ============================================================
// Surface
// ============================================================

// FloorPlan: загруженный план этажа с его размерами в единицах плана.
type FloorPlan struct {
	Asset    string
	Document Document
	Width    float64
	Height   float64
}

// Tap is the last debug tap in both coordinate spaces.
type Tap struct {
	DeviceX float64 `json:"device_x"`
	DeviceY float64 `json:"device_y"`
	PlanX   float64 `json:"plan_x"`
	PlanY   float64 `json:"plan_y"`
}

// Surface: интерактивная карта этажа: масштабирует план под область
// вывода, подсвечивает выбранный кабинет и переводит координаты нажатия в
// идентификатор кабинета.
//
// План и список областей всегда меняются вместе под одной блокировкой,
// поэтому нажатие не может проверяться по областям другого этажа.
type Surface struct {
	mu     sync.Mutex
	assets AssetOpener
	parse  ParseFunc
	log    zerolog.Logger

	plan     *FloorPlan
	areas    []areas.RoomArea
	selected string
	debug    bool
	lastTap  *Tap
	viewW    int
	viewH    int
	scale    float64

	onRoomTapped func(roomID string)
	onDebugTap   func(x, y float64)
}

// Option configures a Surface.
type Option func(*Surface)

// WithParser replaces the SVG parser.
func WithParser(fn ParseFunc) Option {
	return func(s *Surface) { s.parse = fn }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Surface) { s.log = l }
}

// New creates an empty surface. Nothing is drawn until a floor plan is
// loaded.
func New(assets AssetOpener, opts ...Option) *Surface {
	s := &Surface{
		assets: assets,
		parse:  parseSVG,
		log:    log.With().Str("component", "mapview").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnRoomTapped registers the hook fired when a tap resolves to a room.
func (s *Surface) OnRoomTapped(fn func(roomID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRoomTapped = fn
}

// OnDebugTap registers the hook fired with plan coordinates in debug mode.
func (s *Surface) OnDebugTap(fn func(x, y float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDebugTap = fn
}

// ============================================================
// Loading
// ============================================================

// PrepareFloorPlan opens and parses an asset without touching the surface.
func (s *Surface) PrepareFloorPlan(name string) (*FloorPlan, error) {
	rc, err := s.assets.Open(name)
	if err != nil {
		return nil, &LoadError{Asset: name, Err: err}
	}
	defer rc.Close()

	doc, err := s.parse(rc)
	if err != nil {
		return nil, &LoadError{Asset: name, Err: err}
	}

	w, h, fallback := NativeSize(doc)
	if fallback {
		s.log.Warn().Str("asset", name).
			Float64("width", w).Float64("height", h).
			Msg("floor plan declares no size, using default")
	}

	s.log.Debug().Str("asset", name).Float64("width", w).Float64("height", h).Msg("floor plan parsed")
	return &FloorPlan{Asset: name, Document: doc, Width: w, Height: h}, nil
}

// LoadFloorPlan replaces the rendered plan. On failure the previous plan
// stays in place and the error is returned to the caller.
func (s *Surface) LoadFloorPlan(name string) error {
	plan, err := s.PrepareFloorPlan(name)
	if err != nil {
		s.log.Error().Err(err).Str("asset", name).Msg("floor plan not loaded")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = plan
	s.relayout()
	return nil
}

// InstallFloor atomically swaps in a plan together with its areas and
// clears the selection and the last debug tap.
func (s *Surface) InstallFloor(plan *FloorPlan, list []areas.RoomArea) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan = plan
	s.areas = list
	s.selected = ""
	s.lastTap = nil
	s.relayout()
}

// NativeSize picks the plan size: explicit document size first, then the
// view box, then DefaultPlanWidth×DefaultPlanHeight.
func NativeSize(doc Document) (width, height float64, fallback bool) {
	docW, docH := doc.DocumentSize()
	vbW, vbH := doc.ViewBox()

	width, height = docW, docH
	if width <= 0 {
		width = vbW
	}
	if height <= 0 {
		height = vbH
	}

	if width <= 0 || height <= 0 {
		width, height = vbW, vbH
	}

	if width <= 0 || height <= 0 {
		return DefaultPlanWidth, DefaultPlanHeight, true
	}
	return width, height, false
}

// ============================================================
// State
// ============================================================

// SetRoomAreas replaces the hit-test set. Shapes are not re-validated here.
func (s *Surface) SetRoomAreas(list []areas.RoomArea) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.areas = list
}

// RoomAreas returns a copy of the active hit-test set.
func (s *Surface) RoomAreas() []areas.RoomArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]areas.RoomArea, len(s.areas))
	copy(out, s.areas)
	return out
}

// SetSelectedRoom highlights a room. An empty id clears the selection; an
// id with no matching area is ignored and reported as false.
func (s *Surface) SetSelectedRoom(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if roomID == "" {
		s.selected = ""
		return true
	}
	if _, ok := s.findArea(roomID); !ok {
		return false
	}
	s.selected = roomID
	return true
}

// SelectedRoom returns the highlighted room id, or "".
func (s *Surface) SelectedRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetDebugMode switches the coordinate inspector on or off.
func (s *Surface) SetDebugMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = enabled
}

// DebugMode reports whether the coordinate inspector is on.
func (s *Surface) DebugMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debug
}

// LastTap returns the last tap recorded in debug mode.
func (s *Surface) LastTap() (Tap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastTap == nil {
		return Tap{}, false
	}
	return *s.lastTap, true
}

// Plan returns the active floor plan, if any.
func (s *Surface) Plan() (FloorPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return FloorPlan{}, false
	}
	return *s.plan, true
}

// SetViewport records a size change and recomputes the scale.
func (s *Surface) SetViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewW, s.viewH = width, height
	s.relayout()
}

// Viewport returns the last known display size.
func (s *Surface) Viewport() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewW, s.viewH
}

// Scale returns the current plan-to-device factor.
func (s *Surface) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// Measure returns the preferred size for the given parent constraints.
func (s *Surface) Measure(width, height MeasureSpec) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var nw, nh float64
	if s.plan != nil {
		nw, nh = s.plan.Width, s.plan.Height
	}
	return measure(width, height, nw, nh)
}

func (s *Surface) relayout() {
	if s.plan == nil {
		s.scale = 0
		return
	}
	s.scale = FitScale(float64(s.viewW), float64(s.viewH), s.plan.Width, s.plan.Height)
}

func (s *Surface) findArea(roomID string) (areas.RoomArea, bool) {
	for _, a := range s.areas {
		if a.RoomID == roomID {
			return a, true
		}
	}
	return areas.RoomArea{}, false
}

// ============================================================
// Coordinates
// ============================================================

// ToPlan converts device coordinates to plan coordinates. With no scale yet
// the coordinates pass through unchanged.
func (s *Surface) ToPlan(x, y float64) (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toPlan(s.scale, x, y)
}

// ToDevice converts plan coordinates to device coordinates.
func (s *Surface) ToDevice(x, y float64) (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scale <= 0 {
		return x, y
	}
	return x * s.scale, y * s.scale
}

func toPlan(scale, x, y float64) (float64, float64) {
	if scale <= 0 {
		return x, y
	}
	return x / scale, y / scale
}

// ============================================================
// Tap
// ============================================================

// ResolveTap переводит нажатие в координаты плана и ищет кабинет.
//
// В режиме отладки поиск не выполняется: нажатие запоминается для
// перекрестья, а координаты плана уходят в OnDebugTap.
// Иначе области проверяются в порядке списка, побеждает первая
// содержащая точку; она же становится выбранной.
func (s *Surface) ResolveTap(x, y float64) (string, bool) {
	s.mu.Lock()
	px, py := toPlan(s.scale, x, y)

	if s.debug {
		s.lastTap = &Tap{DeviceX: x, DeviceY: y, PlanX: px, PlanY: py}
		hook := s.onDebugTap
		s.mu.Unlock()

		s.log.Debug().Float64("x", px).Float64("y", py).Msg("debug tap")
		if hook != nil {
			hook(px, py)
		}
		return "", false
	}

	pt := geometry.Pt(px, py)
	for _, a := range s.areas {
		if !a.Contains(pt) {
			continue
		}
		s.selected = a.RoomID
		hook := s.onRoomTapped
		s.mu.Unlock()

		s.log.Debug().Str("room", a.RoomID).Float64("x", px).Float64("y", py).Msg("room tapped")
		if hook != nil {
			hook(a.RoomID)
		}
		return a.RoomID, true
	}

	s.mu.Unlock()
	return "", false
}

// ============================================================
// Render
// ============================================================

// Render рисует план в dst, размер dst считается областью вывода.
// Пустая область, отсутствие плана или нулевые размеры плана не считаются ошибкой,
// кадр просто пропускается.
func (s *Surface) Render(dst *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	s.viewW, s.viewH = w, h

	if w <= 0 || h <= 0 {
		s.log.Debug().Int("width", w).Int("height", h).Msg("empty viewport, skipping render")
		return nil
	}
	if s.plan == nil {
		s.log.Debug().Msg("no floor plan loaded, skipping render")
		return nil
	}
	if s.plan.Width <= 0 || s.plan.Height <= 0 {
		s.log.Debug().Str("asset", s.plan.Asset).Msg("floor plan has no size, skipping render")
		return nil
	}

	s.relayout()
	scale := s.scale

	var renderErr error
	if err := s.plan.Document.Render(dst, s.plan.Width*scale, s.plan.Height*scale); err != nil {
		s.log.Error().Err(err).Str("asset", s.plan.Asset).Msg("floor plan render failed")
		renderErr = fmt.Errorf("%w: %s: %v", ErrRender, s.plan.Asset, err)
	}

	if area, ok := s.findArea(s.selected); ok {
		render.FillShape(dst, area.Shape, scale, render.HighlightColor)
	}

	if s.debug && s.lastTap != nil {
		s.drawDebugOverlay(dst, *s.lastTap, scale)
	}

	return renderErr
}

func (s *Surface) drawDebugOverlay(dst *image.RGBA, tap Tap, scale float64) {
	render.DrawCrosshair(dst, tap.DeviceX, tap.DeviceY, crosshairArm, crosshairThickness, render.DebugColor)

	px, py := toPlan(scale, tap.DeviceX, tap.DeviceY)
	lines := []string{
		fmt.Sprintf("View: X=%d, Y=%d", int(tap.DeviceX), int(tap.DeviceY)),
		fmt.Sprintf("SVG: X=%d, Y=%d", int(px), int(py)),
	}
	render.DrawText(dst, int(tap.DeviceX)+readoutOffset, int(tap.DeviceY)-readoutOffset, lines, render.DebugColor)
}
