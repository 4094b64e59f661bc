package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"quadmap/internal/debug"
	"quadmap/internal/geo"
	"quadmap/internal/points"
	"quadmap/internal/render"
	"quadmap/internal/widget"
)

// Mode selects which widget configuration the host shows
type Mode int

const (
	// ModeDisplay shows the saved region read-only
	ModeDisplay Mode = iota
	// ModePlacement lets the user pan, zoom and place new points
	ModePlacement
)

func (m Mode) String() string {
	if m == ModePlacement {
		return "placement"
	}
	return "display"
}

// Panel sizes; both panels share the lower-left slot above the zoom buttons
const (
	listWidth    = 36
	listHeight   = 8
	detailWidth  = 44
	detailHeight = 10
	// rows kept free under the panels for the zoom buttons
	bottomMargin = 3
	// pixels per arrow key press
	panStep = 5
)

// App is the host: it owns the view state and both point stores and feeds
// the widget a fresh Props snapshot on every event.
type App struct {
	screen     tcell.Screen
	view       geo.ViewState
	placement  *points.Store
	display    *points.Store
	mode       Mode
	showDetail bool
	message    string
	widget     *widget.Map
	mapView    *MapView
	listView   *ListView
	detailView *DetailView
}

// NewApp initializes screen and builds the views. features and bg may be nil.
func NewApp(screen tcell.Screen, view geo.ViewState, features []*geo.Feature, bg *render.Background) (*App, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()

	view.Zoom = geo.ClampZoom(view.Zoom)

	app := &App{
		screen:    screen,
		view:      view,
		placement: points.NewStore(),
		display:   points.NewStore(),
		mode:      ModeDisplay,
	}

	app.widget = widget.New(widget.Callbacks{
		OnPointAdded:    app.addPoint,
		OnCenterChanged: func(c geo.LatLng) { app.view.Center = c },
		OnZoomChanged:   app.setZoom,
		OnOffsetChanged: func(o geo.Offset) { app.view.Offset = o },
	})

	width, height := screen.Size()
	app.mapView = NewMapView(width, height, app.widget, features, bg)
	app.listView = NewListView(0, 0, listWidth, listHeight)
	app.detailView = NewDetailView(0, 0, detailWidth, detailHeight)
	app.layoutPanels(height)

	return app, nil
}

// Run draws the first frame and processes events until the user quits
func (a *App) Run() error {
	defer a.cleanup()

	a.render()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.handleEvent(ev) {
			return nil
		}
		a.render()
	}
}

// props is the snapshot handed to the widget for a single event
func (a *App) props() widget.Props {
	p := widget.Props{
		View:     a.view,
		Viewport: a.mapView.Viewport(),
	}
	if a.mode == ModePlacement {
		p.Points = a.placement.Snapshot()
		p.Draggable = true
		p.PlacementEnabled = true
	} else {
		p.Points = a.display.Snapshot()
	}
	return p
}

func (a *App) addPoint(c geo.Coordinate) {
	if !a.placement.Add(c) {
		debug.Log("store full, %s dropped", c.ID)
		return
	}
	a.message = ""
}

func (a *App) setZoom(zoom int) {
	if zoom != a.view.Zoom {
		debug.Log("Zoom changed to %d", zoom)
	}
	a.view.Zoom = zoom
}

// openPlacement starts a fresh placement session
func (a *App) openPlacement() {
	a.placement.Reset()
	a.mapView.ResetPointer()
	a.mode = ModePlacement
	a.message = ""
	debug.Log("Mode changed to %s", a.mode)
}

// closePlacement leaves placement mode, keeping the points only when save is set
func (a *App) closePlacement(save bool) {
	if save {
		a.display.Replace(a.placement.Snapshot())
		debug.Log("Saved region with %d points", a.display.Len())
	} else {
		debug.Log("Placement cancelled with %d points", a.placement.Len())
	}
	a.placement.Reset()
	a.mapView.ResetPointer()
	a.mode = ModeDisplay
	a.message = ""
	debug.Log("Mode changed to %s", a.mode)
}

// covered reports whether (x, y) lies under the status bar or the open panel
func (a *App) covered(x, y int) bool {
	if y == 0 {
		return true
	}
	if a.showDetail {
		return a.detailView.Area().contains(x, y)
	}
	return a.listView.Area().contains(x, y)
}

// render renders the current frame to the screen
func (a *App) render() {
	a.screen.Clear()

	p := a.props()
	a.mapView.Draw(a.screen, p.Points, a.view, p.PlacementEnabled)

	if a.showDetail {
		a.detailView.SetState(a.view, p.Viewport, a.widget.State())
		a.detailView.Draw(a.screen)
	} else {
		if a.mode == ModePlacement {
			a.listView.Update("Placing", p.Points)
			if a.placement.Len() < points.Capacity {
				a.listView.SetHint("Click to place " + points.Label(a.placement.Len()))
			}
		} else {
			a.listView.Update("Region", p.Points)
		}
		a.listView.Draw(a.screen)
	}

	width, _ := a.screen.Size()
	drawBar(a.screen, 0, width, a.statusLine(), render.StyleStatus)

	a.screen.Show()
}

func (a *App) statusLine() string {
	s := " quadmap | "
	if a.mode == ModePlacement {
		s += fmt.Sprintf("placing %d/%d | ", a.placement.Len(), points.Capacity)
	}
	if a.message != "" {
		s += a.message + " | "
	}
	if a.mode == ModePlacement {
		return s + "enter save  esc cancel  r reset  +/- zoom  arrows pan  i view"
	}
	return s + "m place points  i view  q quit"
}

// handleEvent processes keyboard, mouse and resize events.
// It returns false when the app should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		x, y := ev.Position()
		a.mapView.HandleMouse(ev, a.props(), a.covered(x, y))

	case *tcell.EventResize:
		a.handleResize()
	}

	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	placing := a.mode == ModePlacement

	switch ev.Key() {
	case tcell.KeyEscape:
		if !placing {
			return false
		}
		a.closePlacement(false)

	case tcell.KeyEnter:
		if !placing {
			break
		}
		if !a.placement.Closed() {
			a.message = fmt.Sprintf("need %d points to save", points.Capacity)
			break
		}
		a.closePlacement(true)

	// Arrows move the view toward that side, like dragging the other way
	case tcell.KeyUp:
		a.widget.PanBy(a.props(), 0, -panStep)
	case tcell.KeyDown:
		a.widget.PanBy(a.props(), 0, panStep)
	case tcell.KeyLeft:
		a.widget.PanBy(a.props(), panStep, 0)
	case tcell.KeyRight:
		a.widget.PanBy(a.props(), -panStep, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false

		case 'm', 'M':
			if !placing {
				a.openPlacement()
			}

		case 'r', 'R':
			if placing {
				a.placement.Reset()
				a.message = ""
			}

		case 'i', 'I':
			a.showDetail = !a.showDetail

		case '+', '=':
			if placing {
				a.widget.ZoomIn(a.props())
			}

		case '-', '_':
			if placing {
				a.widget.ZoomOut(a.props())
			}
		}
	}

	return true
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()

	a.mapView.UpdateDimensions(width, height)
	a.layoutPanels(height)
}

func (a *App) layoutPanels(height int) {
	a.listView.UpdateDimensions(0, panelTop(height, listHeight), listWidth, listHeight)
	a.detailView.UpdateDimensions(0, panelTop(height, detailHeight), detailWidth, detailHeight)
}

// panelTop keeps a panel under the status bar and above the zoom buttons
func panelTop(screenHeight, panelHeight int) int {
	return max(screenHeight-panelHeight-bottomMargin, 1)
}

// cleanup performs cleanup before exit
func (a *App) cleanup() {
	if a.screen != nil {
		a.screen.Fini()
	}
}
