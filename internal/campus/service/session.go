package service

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/controller"
	"campus-map/internal/campus/mapview"
	"campus-map/internal/campus/render"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidViewport = errors.New("invalid viewport")
)

// MaxViewportSide ограничивает сторону кадра, который сессия согласна рисовать.
const MaxViewportSide = 8192

// ValidViewport reports whether a width/height pair can be rendered.
func ValidViewport(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxViewportSide && height <= MaxViewportSide
}

// ============================================================
// Session
// ============================================================

// Session: один открытый экран карты со своим масштабом, этажом,
// выделением и режимом отладки.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	surface    *mapview.Surface
	controller *controller.Controller
	nav        *navRecorder
}

// navRecorder запоминает последний переход к расписанию.
type navRecorder struct {
	last string
}

func (n *navRecorder) OpenSchedule(roomID string) { n.last = roomID }

// TapOutcome is a tap plus the schedule it navigated to, if any.
type TapOutcome struct {
	controller.TapResult
	NavigateTo string `json:"navigate_to,omitempty"`
}

// Surface exposes the map surface for read-only helpers.
func (s *Session) Surface() *mapview.Surface { return s.surface }

// State returns the screen snapshot together with the viewport.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// SessionState is the JSON view of a session.
type SessionState struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Scale     float64          `json:"scale"`
	Screen    controller.State `json:"screen"`
}

func (s *Session) stateLocked() SessionState {
	w, h := s.surface.Viewport()
	return SessionState{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Width:     w,
		Height:    h,
		Scale:     s.surface.Scale(),
		Screen:    s.controller.State(),
	}
}

// SelectFloor switches the session to another floor.
func (s *Session) SelectFloor(number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.SelectFloor(number)
}

// SetViewport records a new display size.
func (s *Session) SetViewport(width, height int) error {
	if !ValidViewport(width, height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.SetViewport(width, height)
	return nil
}

// SetDebug switches debug mode.
func (s *Session) SetDebug(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.SetDebug(enabled)
}

// Select highlights a room; "" clears. Reports false for unknown rooms.
func (s *Session) Select(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.SetSelectedRoom(roomID)
}

// Tap resolves a device-space tap.
func (s *Session) Tap(x, y float64) TapOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nav.last = ""
	res := s.controller.Tap(x, y)
	return TapOutcome{TapResult: res, NavigateTo: s.nav.last}
}

// Render рисует кадр размером с текущую область вывода. Ошибка
// растеризации возвращается вместе с кадром: подсветка и отладочный
// слой на нём уже есть.
func (s *Session) Render() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.surface.Viewport()
	if !ValidViewport(w, h) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, w, h)
	}
	img := render.NewCanvas(w, h)
	return img, s.surface.Render(img)
}

// ============================================================
// Session Manager
// ============================================================

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	assets  mapview.AssetOpener
	catalog *areas.Catalog
	width   int
	height  int
	opts    []mapview.Option
	log     zerolog.Logger
}

// NewSessionManager creates a manager whose sessions start at the given
// viewport on the catalog's default floor.
func NewSessionManager(assets mapview.AssetOpener, catalog *areas.Catalog, width, height int, opts ...mapview.Option) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		assets:   assets,
		catalog:  catalog,
		width:    width,
		height:   height,
		opts:     opts,
		log:      log.With().Str("component", "sessions").Logger(),
	}
}

// Create открывает новый экран. Если план этажа по умолчанию не
// загрузился, экран всё равно создаётся пустым, ошибка пишется в лог.
func (m *SessionManager) Create() *Session {
	surface := mapview.New(m.assets, m.opts...)
	surface.SetViewport(m.width, m.height)

	nav := &navRecorder{}
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		surface:    surface,
		controller: controller.New(surface, m.catalog, nav),
		nav:        nav,
	}
	if err := sess.controller.Start(); err != nil {
		m.log.Warn().Err(err).Str("session", sess.ID).Msg("default floor not loaded")
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.log.Debug().Str("session", sess.ID).Msg("session created")
	return sess
}

func (m *SessionManager) Resolve(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of open sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
