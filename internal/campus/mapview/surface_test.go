package mapview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"campus-map/internal/campus/areas"
)

// --- Fakes ---

type fakeDoc struct {
	docW, docH float64
	vbW, vbH   float64
	err        error
	renders    [][2]float64
}

func (d *fakeDoc) DocumentSize() (float64, float64) { return d.docW, d.docH }
func (d *fakeDoc) ViewBox() (float64, float64)      { return d.vbW, d.vbH }

func (d *fakeDoc) Render(_ *image.RGBA, w, h float64) error {
	d.renders = append(d.renders, [2]float64{w, h})
	return d.err
}

// fakeAssets отдаёт имя ресурса как содержимое, а парсер ищет документ по
// этому имени; nil-документ означает ошибку разбора.
type fakeAssets map[string]*fakeDoc

func (a fakeAssets) Open(name string) (io.ReadCloser, error) {
	if _, ok := a[name]; !ok {
		return nil, fmt.Errorf("open %s: %w", name, fs.ErrNotExist)
	}
	return io.NopCloser(strings.NewReader(name)), nil
}

func newTestSurface(t *testing.T, docs fakeAssets) *Surface {
	t.Helper()
	parse := func(r io.Reader) (Document, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		doc := docs[string(b)]
		if doc == nil {
			return nil, errors.New("malformed svg")
		}
		return doc, nil
	}
	return New(docs, WithParser(parse), WithLogger(zerolog.Nop()))
}

func mustRect(t *testing.T, id string, x1, y1, x2, y2 float64) areas.RoomArea {
	t.Helper()
	a, err := areas.RectArea(id, x1, y1, x2, y2)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// --- Loading ---

func TestNativeSize(t *testing.T) {
	tests := []struct {
		name         string
		doc          fakeDoc
		wantW, wantH float64
		wantFallback bool
	}{
		{"explicit", fakeDoc{docW: 1800, docH: 1000, vbW: 900, vbH: 500}, 1800, 1000, false},
		{"view box", fakeDoc{vbW: 900, vbH: 500}, 900, 500, false},
		{"mixed", fakeDoc{docW: 1200, vbW: 900, vbH: 500}, 1200, 500, false},
		{"nothing", fakeDoc{}, DefaultPlanWidth, DefaultPlanHeight, true},
		{"negative", fakeDoc{docW: -1, docH: -1, vbW: -5}, DefaultPlanWidth, DefaultPlanHeight, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, fb := NativeSize(&tt.doc)
			if w != tt.wantW || h != tt.wantH || fb != tt.wantFallback {
				t.Errorf("NativeSize = %v, %v, %v; want %v, %v, %v", w, h, fb, tt.wantW, tt.wantH, tt.wantFallback)
			}
		})
	}
}

func TestLoadFloorPlan(t *testing.T) {
	s := newTestSurface(t, fakeAssets{"floor2.svg": {docW: 1800, docH: 1000}})
	s.SetViewport(900, 900)

	if err := s.LoadFloorPlan("floor2.svg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan, ok := s.Plan()
	if !ok || plan.Asset != "floor2.svg" || plan.Width != 1800 || plan.Height != 1000 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if !approxEqual(s.Scale(), 0.5, tolerance) {
		t.Errorf("expected scale 0.5, got %v", s.Scale())
	}
}

func TestLoadFloorPlanFailureKeepsPreviousState(t *testing.T) {
	s := newTestSurface(t, fakeAssets{
		"floor2.svg": {docW: 1800, docH: 1000},
		"broken.svg": nil,
	})
	if err := s.LoadFloorPlan("floor2.svg"); err != nil {
		t.Fatal(err)
	}

	err := s.LoadFloorPlan("broken.svg")
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Asset != "broken.svg" {
		t.Fatalf("expected *LoadError for broken.svg, got %v", err)
	}

	err = s.LoadFloorPlan("missing.svg")
	if !errors.Is(err, fs.ErrNotExist) || !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad wrapping fs.ErrNotExist, got %v", err)
	}

	plan, ok := s.Plan()
	if !ok || plan.Asset != "floor2.svg" {
		t.Errorf("previous plan must survive failed loads, got %+v", plan)
	}
}

// --- Tap resolution ---

func TestResolveTapDisjointAreas(t *testing.T) {
	s := newTestSurface(t, fakeAssets{"p.svg": {docW: 1000, docH: 1000}})
	plan, err := s.PrepareFloorPlan("p.svg")
	if err != nil {
		t.Fatal(err)
	}
	s.InstallFloor(plan, []areas.RoomArea{
		mustRect(t, "a", 0, 0, 100, 100),
		mustRect(t, "b", 200, 0, 300, 100),
	})
	s.SetViewport(500, 500) // scale 0.5

	var tapped []string
	s.OnRoomTapped(func(id string) { tapped = append(tapped, id) })

	tests := []struct {
		x, y   float64
		wantID string
		wantOK bool
	}{
		{25, 25, "a", true},   // plan (50,50)
		{125, 25, "b", true},  // plan (250,50)
		{75, 25, "", false},   // plan (150,50), between rooms
		{25, 200, "", false},  // plan (50,400), below rooms
	}
	for _, tt := range tests {
		id, ok := s.ResolveTap(tt.x, tt.y)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ResolveTap(%v,%v) = %q,%v; want %q,%v", tt.x, tt.y, id, ok, tt.wantID, tt.wantOK)
		}
	}

	if strings.Join(tapped, ",") != "a,b" {
		t.Errorf("expected hooks for a,b, got %v", tapped)
	}
	if s.SelectedRoom() != "b" {
		t.Errorf("expected last match to stay selected, got %q", s.SelectedRoom())
	}
}

func TestResolveTapOverlapFirstWins(t *testing.T) {
	s := newTestSurface(t, fakeAssets{})
	s.SetRoomAreas([]areas.RoomArea{
		mustRect(t, "first", 0, 0, 100, 100),
		mustRect(t, "second", 50, 50, 150, 150),
	})

	// без плана масштаб нулевой, координаты идут как есть
	id, ok := s.ResolveTap(75, 75)
	if !ok || id != "first" {
		t.Fatalf("expected earlier-registered area to win, got %q", id)
	}

	id, ok = s.ResolveTap(125, 125)
	if !ok || id != "second" {
		t.Fatalf("expected second outside the overlap, got %q", id)
	}
}

func TestResolveTapDebugMode(t *testing.T) {
	s := newTestSurface(t, fakeAssets{"p.svg": {docW: 1800, docH: 1000}})
	if err := s.LoadFloorPlan("p.svg"); err != nil {
		t.Fatal(err)
	}
	s.SetRoomAreas([]areas.RoomArea{mustRect(t, "room_201", 0, 0, 1800, 1000)})
	s.SetViewport(900, 500)
	s.SetDebugMode(true)

	var gotX, gotY float64
	roomHook := false
	s.OnDebugTap(func(x, y float64) { gotX, gotY = x, y })
	s.OnRoomTapped(func(string) { roomHook = true })

	id, ok := s.ResolveTap(150, 350)
	if ok || id != "" {
		t.Fatalf("debug mode must not resolve rooms, got %q", id)
	}
	if roomHook {
		t.Error("room hook must not fire in debug mode")
	}
	if !approxEqual(gotX, 300, tolerance) || !approxEqual(gotY, 700, tolerance) {
		t.Errorf("expected plan coords (300,700), got (%v,%v)", gotX, gotY)
	}

	tap, ok := s.LastTap()
	if !ok || tap.DeviceX != 150 || tap.DeviceY != 350 || !approxEqual(tap.PlanX, 300, tolerance) {
		t.Errorf("unexpected last tap %+v", tap)
	}
	if s.SelectedRoom() != "" {
		t.Errorf("debug tap must not select, got %q", s.SelectedRoom())
	}
}

func TestHooksMayCallBackIntoSurface(t *testing.T) {
	s := newTestSurface(t, fakeAssets{})
	s.SetRoomAreas([]areas.RoomArea{mustRect(t, "a", 0, 0, 10, 10)})

	var seen string
	s.OnRoomTapped(func(string) { seen = s.SelectedRoom() })

	s.ResolveTap(5, 5)
	if seen != "a" {
		t.Errorf("expected hook to observe selection, got %q", seen)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	s := newTestSurface(t, fakeAssets{"p.svg": {docW: 1800, docH: 1000}})
	if err := s.LoadFloorPlan("p.svg"); err != nil {
		t.Fatal(err)
	}

	for _, vp := range [][2]int{{1080, 600}, {333, 777}, {1, 1}, {4096, 2160}} {
		s.SetViewport(vp[0], vp[1])
		if s.Scale() <= 0 {
			t.Fatalf("expected positive scale for viewport %v", vp)
		}
		for _, pt := range [][2]float64{{0, 0}, {12.5, 99.75}, {1799.9, 999.1}} {
			dx, dy := s.ToDevice(pt[0], pt[1])
			px, py := s.ToPlan(dx, dy)
			if !approxEqual(px, pt[0], 1e-6) || !approxEqual(py, pt[1], 1e-6) {
				t.Errorf("viewport %v: round trip %v -> (%v,%v)", vp, pt, px, py)
			}
		}
	}
}

// --- Floor switching ---

func TestInstallFloorIsAtomic(t *testing.T) {
	s := newTestSurface(t, fakeAssets{
		"floor2.svg": {docW: 1000, docH: 1000},
		"floor3.svg": {docW: 1000, docH: 1000},
	})

	p2, _ := s.PrepareFloorPlan("floor2.svg")
	s.InstallFloor(p2, []areas.RoomArea{mustRect(t, "room_201", 0, 0, 100, 100)})
	s.SetViewport(1000, 1000)

	if id, _ := s.ResolveTap(50, 50); id != "room_201" {
		t.Fatalf("expected room_201 before switch, got %q", id)
	}

	p3, _ := s.PrepareFloorPlan("floor3.svg")
	s.InstallFloor(p3, []areas.RoomArea{mustRect(t, "room_301", 500, 500, 600, 600)})

	plan, _ := s.Plan()
	if plan.Asset != "floor3.svg" {
		t.Fatalf("expected floor3 installed, got %q", plan.Asset)
	}
	if s.SelectedRoom() != "" {
		t.Errorf("selection must reset on floor switch, got %q", s.SelectedRoom())
	}
	if id, ok := s.ResolveTap(50, 50); ok {
		t.Errorf("tap after switch matched previous floor's area %q", id)
	}
	if id, _ := s.ResolveTap(550, 550); id != "room_301" {
		t.Errorf("expected room_301 after switch, got %q", id)
	}
}

// --- Selection ---

func TestSetSelectedRoom(t *testing.T) {
	s := newTestSurface(t, fakeAssets{})
	s.SetRoomAreas([]areas.RoomArea{mustRect(t, "a", 0, 0, 10, 10)})

	if !s.SetSelectedRoom("a") || s.SelectedRoom() != "a" {
		t.Fatal("expected a selected")
	}
	if s.SetSelectedRoom("ghost") {
		t.Error("unknown id must be rejected")
	}
	if s.SelectedRoom() != "a" {
		t.Errorf("unknown id must be a no-op, got %q", s.SelectedRoom())
	}
	s.SetSelectedRoom("")
	if s.SelectedRoom() != "" {
		t.Error("empty id must clear the selection")
	}
}

// --- Render ---

func TestRenderSkipsWithoutPrerequisites(t *testing.T) {
	doc := &fakeDoc{docW: 1800, docH: 1000}
	s := newTestSurface(t, fakeAssets{"p.svg": doc})

	if err := s.Render(image.NewRGBA(image.Rect(0, 0, 100, 100))); err != nil {
		t.Fatalf("no plan must be a silent skip, got %v", err)
	}

	if err := s.LoadFloorPlan("p.svg"); err != nil {
		t.Fatal(err)
	}
	if err := s.Render(image.NewRGBA(image.Rect(0, 0, 0, 100))); err != nil {
		t.Fatalf("empty viewport must be a silent skip, got %v", err)
	}
	if len(doc.renders) != 0 {
		t.Errorf("document must not be rasterized, got %v", doc.renders)
	}
}

func TestRenderScalesDocumentAndHighlights(t *testing.T) {
	doc := &fakeDoc{docW: 1800, docH: 1000}
	s := newTestSurface(t, fakeAssets{"p.svg": doc})
	plan, _ := s.PrepareFloorPlan("p.svg")
	s.InstallFloor(plan, []areas.RoomArea{mustRect(t, "room_201", 200, 200, 600, 600)})
	s.SetSelectedRoom("room_201")

	dst := image.NewRGBA(image.Rect(0, 0, 900, 900))
	if err := s.Render(dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.renders) != 1 || doc.renders[0] != [2]float64{900, 500} {
		t.Fatalf("expected rasterization at 900x500, got %v", doc.renders)
	}
	if !approxEqual(s.Scale(), 0.5, tolerance) {
		t.Errorf("expected scale 0.5, got %v", s.Scale())
	}
	if px := dst.RGBAAt(200, 200); px.R == 0 || px.A == 0 {
		t.Errorf("expected highlight at device (200,200), got %+v", px)
	}
	if px := dst.RGBAAt(50, 50); px.A != 0 {
		t.Errorf("expected nothing outside highlight, got %+v", px)
	}
}

func TestRenderDebugOverlay(t *testing.T) {
	doc := &fakeDoc{docW: 100, docH: 100}
	s := newTestSurface(t, fakeAssets{"p.svg": doc})
	if err := s.LoadFloorPlan("p.svg"); err != nil {
		t.Fatal(err)
	}
	s.SetViewport(200, 200)
	s.SetDebugMode(true)
	s.ResolveTap(50, 100)

	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	if err := s.Render(dst); err != nil {
		t.Fatal(err)
	}
	if px := dst.RGBAAt(40, 100); px.R != 0xFF {
		t.Errorf("expected crosshair at (40,100), got %+v", px)
	}
}

func TestRenderDebugOverlayAtEdge(t *testing.T) {
	doc := &fakeDoc{docW: 100, docH: 100}
	s := newTestSurface(t, fakeAssets{"p.svg": doc})
	if err := s.LoadFloorPlan("p.svg"); err != nil {
		t.Fatal(err)
	}
	s.SetViewport(200, 200)
	s.SetDebugMode(true)

	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	if err := s.Render(dst); err != nil {
		t.Fatal(err)
	}
	if px := dst.RGBAAt(5, 100); px.A != 0 {
		t.Errorf("expected no crosshair before the first tap, got %+v", px)
	}

	// нажатие на левой кромке тоже отмечается
	s.ResolveTap(0, 100)
	if err := s.Render(dst); err != nil {
		t.Fatal(err)
	}
	if px := dst.RGBAAt(5, 100); px.R != 0xFF {
		t.Errorf("expected crosshair at (5,100), got %+v", px)
	}
}

func TestRenderErrorIsSurfaced(t *testing.T) {
	doc := &fakeDoc{docW: 100, docH: 100, err: errors.New("bad gradient")}
	s := newTestSurface(t, fakeAssets{"p.svg": doc})
	plan, _ := s.PrepareFloorPlan("p.svg")
	s.InstallFloor(plan, []areas.RoomArea{mustRect(t, "a", 0, 0, 50, 50)})
	s.SetSelectedRoom("a")

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	err := s.Render(dst)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
	if px := dst.RGBAAt(10, 10); px.A == 0 {
		t.Error("highlight should still be drawn after a rasterization failure")
	}
}
