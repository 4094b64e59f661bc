package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"quadmap/internal/geo"
)

var startView = geo.ViewState{Center: geo.LatLng{Lat: 21, Lng: 105.75}, Zoom: 2}

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	app, err := NewApp(screen, startView, nil, nil)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(app.cleanup)

	screen.SetSize(80, 40)
	app.handleEvent(tcell.NewEventResize(80, 40))
	return app, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func special(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func click(app *App, x, y int) {
	app.handleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(runes[0])
	}
	return b.String()
}

// Four corners of the upper-right quadrant, clear of every panel
var corners = [][2]int{{60, 10}, {70, 10}, {70, 20}, {60, 20}}

func TestPlaceAndSaveRegion(t *testing.T) {
	app, screen := newTestApp(t)

	app.handleEvent(key('m'))
	if app.mode != ModePlacement {
		t.Fatalf("mode = %v, want placement", app.mode)
	}

	vp := app.mapView.Viewport()
	for i, c := range corners {
		click(app, c[0], c[1])
		if app.placement.Len() != i+1 {
			t.Fatalf("after click %d store has %d points", i+1, app.placement.Len())
		}
	}

	// fifth click is ignored
	click(app, 65, 15)
	if app.placement.Len() != 4 {
		t.Fatalf("fifth click accepted, store has %d", app.placement.Len())
	}

	placed := app.placement.Snapshot()
	for i, c := range corners {
		want := geo.ToCoordinate(geo.Pixel{X: float64(c[0]) + 0.5, Y: float64(c[1]) + 0.5}, vp, startView)
		got := placed[i]
		wantID := []string{"D1", "D2", "D3", "D4"}[i]
		if got.ID != wantID || got.Lat != want.Lat || got.Lng != want.Lng {
			t.Errorf("point %d = %+v, want %s at %+v", i, got, wantID, want)
		}
	}

	app.handleEvent(special(tcell.KeyEnter))
	if app.mode != ModeDisplay {
		t.Fatalf("mode = %v after save", app.mode)
	}
	saved := app.display.Snapshot()
	if len(saved) != 4 || saved[0] != placed[0] || saved[3] != placed[3] {
		t.Errorf("display store = %+v, want placed points", saved)
	}

	app.render()
	if row := rowText(screen, 10); !strings.Contains(row, "D1") || !strings.Contains(row, "D2") {
		t.Errorf("row 10 = %q, want D1 and D2 markers", row)
	}
}

func TestSaveNeedsFourPoints(t *testing.T) {
	app, screen := newTestApp(t)

	app.handleEvent(key('m'))
	click(app, 60, 10)
	app.handleEvent(special(tcell.KeyEnter))

	if app.mode != ModePlacement {
		t.Error("saved with one point")
	}
	if app.display.Len() != 0 {
		t.Errorf("display store has %d points", app.display.Len())
	}

	app.render()
	if row := rowText(screen, 0); !strings.Contains(row, "need 4 points") {
		t.Errorf("status = %q", row)
	}
}

func TestCancelKeepsSavedRegion(t *testing.T) {
	app, _ := newTestApp(t)

	app.handleEvent(key('m'))
	for _, c := range corners {
		click(app, c[0], c[1])
	}
	app.handleEvent(special(tcell.KeyEnter))
	saved := app.display.Snapshot()

	// reopening starts from an empty store
	app.handleEvent(key('m'))
	if app.placement.Len() != 0 {
		t.Fatalf("placement store not reset, has %d", app.placement.Len())
	}
	click(app, 65, 15)
	app.handleEvent(special(tcell.KeyEscape))

	if app.mode != ModeDisplay {
		t.Fatalf("mode = %v after cancel", app.mode)
	}
	if got := app.display.Snapshot(); len(got) != 4 || got[0] != saved[0] {
		t.Errorf("cancel changed the saved region: %+v", got)
	}

	if app.handleEvent(special(tcell.KeyEscape)) {
		t.Error("escape in display mode should quit")
	}
}

func TestResetClearsPlacement(t *testing.T) {
	app, _ := newTestApp(t)

	app.handleEvent(key('m'))
	click(app, 60, 10)
	click(app, 70, 10)
	app.handleEvent(key('r'))

	if app.placement.Len() != 0 {
		t.Errorf("store has %d points after reset", app.placement.Len())
	}
	click(app, 60, 10)
	if got := app.placement.Snapshot(); len(got) != 1 || got[0].ID != "D1" {
		t.Errorf("labels did not restart: %+v", got)
	}
}

func TestDragPansWithoutPlacing(t *testing.T) {
	app, _ := newTestApp(t)
	app.handleEvent(key('m'))

	app.handleEvent(tcell.NewEventMouse(50, 15, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(55, 18, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(55, 18, tcell.ButtonNone, tcell.ModNone))

	if app.placement.Len() != 0 {
		t.Errorf("drag placed %d points", app.placement.Len())
	}
	if app.view.Offset != (geo.Offset{X: 5, Y: 3}) {
		t.Errorf("offset = %+v, want {5 3}", app.view.Offset)
	}
	wantLat := 21 - 3*0.0001/2
	wantLng := 105.75 - 5*0.0001/2
	if math.Abs(app.view.Center.Lat-wantLat) > 1e-12 || math.Abs(app.view.Center.Lng-wantLng) > 1e-12 {
		t.Errorf("center = %+v, want %v, %v", app.view.Center, wantLat, wantLng)
	}
	if app.widget.State().String() != "Idle" {
		t.Errorf("state = %v after release", app.widget.State())
	}
}

func TestDragOntoPanelEndsSession(t *testing.T) {
	app, _ := newTestApp(t)
	app.handleEvent(key('m'))

	panel := app.listView.Area()
	app.handleEvent(tcell.NewEventMouse(50, 15, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(panel.x+2, panel.y+2, tcell.Button1, tcell.ModNone))

	if app.widget.State().String() != "Idle" {
		t.Errorf("state = %v after leaving the map", app.widget.State())
	}
	app.handleEvent(tcell.NewEventMouse(panel.x+2, panel.y+2, tcell.ButtonNone, tcell.ModNone))
	if app.placement.Len() != 0 || app.view.Offset != (geo.Offset{}) {
		t.Errorf("leave changed state: %d points, offset %+v", app.placement.Len(), app.view.Offset)
	}
}

func TestDisplayModeIgnoresPointer(t *testing.T) {
	app, _ := newTestApp(t)

	click(app, 60, 10)
	app.handleEvent(tcell.NewEventMouse(50, 15, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(55, 18, tcell.Button1, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(55, 18, tcell.ButtonNone, tcell.ModNone))
	app.handleEvent(special(tcell.KeyLeft))

	if app.placement.Len() != 0 || app.display.Len() != 0 {
		t.Error("display mode accepted a point")
	}
	if app.view != startView {
		t.Errorf("view changed in display mode: %+v", app.view)
	}
}

func TestClicksOnPanelsAndStatusBarAreBlocked(t *testing.T) {
	app, _ := newTestApp(t)
	app.handleEvent(key('m'))

	panel := app.listView.Area()
	click(app, panel.x+3, panel.y+3)
	click(app, 40, 0)

	if app.placement.Len() != 0 {
		t.Errorf("blocked clicks placed %d points", app.placement.Len())
	}
}

func TestZoomButtons(t *testing.T) {
	app, screen := newTestApp(t)
	app.handleEvent(key('m'))
	app.render()

	row := app.mapView.buttonRow()
	if text := rowText(screen, row); !strings.Contains(text, "[+] [-]") {
		t.Fatalf("button row = %q", text)
	}

	click(app, zoomInX+1, row)
	if app.view.Zoom != 3 {
		t.Errorf("zoom = %d after [+], want 3", app.view.Zoom)
	}
	click(app, zoomOutX+1, row)
	click(app, zoomOutX+1, row)
	click(app, zoomOutX+1, row)
	if app.view.Zoom != geo.MinZoom {
		t.Errorf("zoom = %d, want clamp at %d", app.view.Zoom, geo.MinZoom)
	}
	if app.placement.Len() != 0 {
		t.Error("zoom button click placed a point")
	}
}

func TestZoomKeysAndArrows(t *testing.T) {
	app, _ := newTestApp(t)

	app.handleEvent(key('+'))
	if app.view.Zoom != startView.Zoom {
		t.Error("zoom key worked in display mode")
	}

	app.handleEvent(key('m'))
	for i := 0; i < 20; i++ {
		app.handleEvent(key('+'))
	}
	if app.view.Zoom != geo.MaxZoom {
		t.Errorf("zoom = %d, want %d", app.view.Zoom, geo.MaxZoom)
	}

	app.handleEvent(special(tcell.KeyRight))
	if app.view.Center.Lng <= startView.Center.Lng {
		t.Errorf("right arrow moved center to %v", app.view.Center.Lng)
	}
	app.handleEvent(special(tcell.KeyUp))
	if app.view.Center.Lat <= startView.Center.Lat {
		t.Errorf("up arrow moved center to %v", app.view.Center.Lat)
	}
}

func TestDetailPanel(t *testing.T) {
	app, screen := newTestApp(t)

	app.handleEvent(key('i'))
	app.render()

	area := app.detailView.Area()
	found := false
	for y := area.y; y < area.y+area.height; y++ {
		if strings.Contains(rowText(screen, y), "Zoom:       2") {
			found = true
		}
	}
	if !found {
		t.Error("detail panel does not show the zoom level")
	}

	lines := app.detailView.Lines()
	if !strings.Contains(lines[3], "15.4%") {
		t.Errorf("background line = %q, want scale 15.4%%", lines[3])
	}
}

func TestQuitKey(t *testing.T) {
	app, _ := newTestApp(t)
	if app.handleEvent(key('q')) {
		t.Error("q should quit")
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	app, err := NewApp(screen, startView, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestZeroSizedSurface(t *testing.T) {
	app, _ := newTestApp(t)
	app.handleEvent(key('m'))

	app.mapView.UpdateDimensions(0, 0)
	click(app, 10, 10)
	if app.placement.Len() != 0 {
		t.Error("click accepted on an unmeasured surface")
	}
	app.render()
}
