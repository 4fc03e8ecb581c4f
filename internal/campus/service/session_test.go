package service

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"

	"campus-map/internal/campus/areas"
	"campus-map/internal/campus/assets"
	"campus-map/internal/campus/mapview"
)

const planSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1800" height="1000">
  <rect x="0" y="0" width="1800" height="1000" fill="#ffffff"/>
</svg>`

func newTestManager(t *testing.T, asset string) *SessionManager {
	t.Helper()
	catalog, err := areas.NewCatalog(2, areas.Floor{
		Number: 2,
		Asset:  asset,
		Areas: []areas.AreaRecord{
			{ID: "room_201", Kind: "rect", Coords: []float64{213, 585, 380, 816.5}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	files := fstest.MapFS{"floor2.svg": {Data: []byte(planSVG)}}
	return NewSessionManager(assets.NewFSStorage(files), catalog, 900, 500, mapview.WithLogger(zerolog.Nop()))
}

func TestSessionLifecycle(t *testing.T) {
	m := newTestManager(t, "floor2.svg")

	a, b := m.Create(), m.Create()
	if a.ID == b.ID {
		t.Fatal("session ids must be unique")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Len())
	}

	got, err := m.Resolve(a.ID)
	if err != nil || got != a {
		t.Fatalf("Resolve = %v, %v", got, err)
	}

	if err := m.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Resolve(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Delete(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestSessionStartsOnDefaultFloor(t *testing.T) {
	m := newTestManager(t, "floor2.svg")
	st := m.Create().State()

	if st.Screen.Floor != 2 {
		t.Errorf("expected floor 2, got %d", st.Screen.Floor)
	}
	if st.Width != 900 || st.Height != 500 || st.Scale != 0.5 {
		t.Errorf("unexpected viewport %+v", st)
	}
}

func TestSessionWithMissingPlanStillOpens(t *testing.T) {
	m := newTestManager(t, "missing.svg")
	sess := m.Create()

	if st := sess.State(); st.Screen.Floor != 0 {
		t.Errorf("expected no floor installed, got %d", st.Screen.Floor)
	}
	img, err := sess.Render()
	if err != nil || img == nil {
		t.Fatalf("blank render expected, got %v", err)
	}
}

func TestSessionTapNavigates(t *testing.T) {
	sess := newTestManager(t, "floor2.svg").Create()

	out := sess.Tap(150, 350)
	if !out.Hit || out.NavigateTo != "room_201" {
		t.Fatalf("expected navigation to room_201, got %+v", out)
	}

	out = sess.Tap(5, 5)
	if out.Hit || out.NavigateTo != "" {
		t.Errorf("miss must not navigate, got %+v", out)
	}

	sess.SetDebug(true)
	out = sess.Tap(150, 350)
	if out.Hit || out.NavigateTo != "" || out.Hint == nil {
		t.Errorf("debug tap must return a hint only, got %+v", out)
	}
}

func TestSessionViewport(t *testing.T) {
	sess := newTestManager(t, "floor2.svg").Create()

	for _, size := range [][2]int{{0, 100}, {100, -1}, {MaxViewportSide + 1, 20}, {20, MaxViewportSide + 1}} {
		if err := sess.SetViewport(size[0], size[1]); !errors.Is(err, ErrInvalidViewport) {
			t.Errorf("%dx%d: expected ErrInvalidViewport, got %v", size[0], size[1], err)
		}
	}
	if err := sess.SetViewport(360, 640); err != nil {
		t.Fatal(err)
	}
	img, err := sess.Render()
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 640 {
		t.Errorf("expected 360x640 frame, got %v", b)
	}
	if sc := sess.State().Scale; sc != 0.2 {
		t.Errorf("expected scale 0.2, got %v", sc)
	}
}

func TestSessionSelect(t *testing.T) {
	sess := newTestManager(t, "floor2.svg").Create()

	if !sess.Select("room_201") {
		t.Fatal("expected known room to be selectable")
	}
	if sess.Select("room_999") {
		t.Error("unknown room must be rejected")
	}
	if st := sess.State(); st.Screen.Selected != "room_201" {
		t.Errorf("expected selection kept, got %q", st.Screen.Selected)
	}
}
