package display

import (
	"errors"
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/render"
)

// ErrNoDisplay indicates that no GDK display is available.
var ErrNoDisplay = errors.New("no display available")

// Window is the layer-shell surface the notification stack lives in.
// It implements render.Window: the engine sizes it, paints a frame
// offscreen and presents it here; the draw func only blits the last
// presented frame.
type Window struct {
	win      *gtk.Window
	area     *gtk.DrawingArea
	display  *gdk.Display
	settings *config.Settings
	logger   *slog.Logger

	frame   *cairo.Surface
	visible bool

	onClick func(x, y int, button uint)
}

// NewWindow creates the stack window on the given application. The
// window starts hidden; the first Present shows it.
func NewWindow(app *gtk.Application, settings *config.Settings, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}

	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil, ErrNoDisplay
	}

	w := &Window{
		display:  display,
		settings: settings,
		logger:   logger,
	}

	w.win = gtk.NewWindow()
	w.win.SetDecorated(false)
	w.win.SetResizable(false)
	if app != nil {
		w.win.SetApplication(app)
	}

	layershell.InitForWindow(w.win)
	layershell.SetLayer(w.win, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(w.win, 0) // Don't reserve space
	layershell.SetKeyboardMode(w.win, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.win, "notui-notification")

	w.area = gtk.NewDrawingArea()
	w.area.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, _, _ int) {
		if w.frame != nil {
			cr.SetSourceSurface(w.frame, 0, 0)
			cr.Paint()
		}
	})
	w.win.SetChild(w.area)

	click := gtk.NewGestureClick()
	click.SetButton(0) // All buttons
	click.ConnectReleased(func(nPress int, x, y float64) {
		if w.onClick != nil {
			w.onClick(int(x), int(y), click.CurrentButton())
		}
	})
	w.win.AddController(click)

	w.applyPlacement()

	return w, nil
}

// OnClick sets the callback for mouse clicks on the window.
// Coordinates are window-relative pixels.
func (w *Window) OnClick(cb func(x, y int, button uint)) {
	w.onClick = cb
}

// Reconfigure re-applies placement after a config reload.
func (w *Window) Reconfigure(settings *config.Settings) {
	w.settings = settings
	w.applyPlacement()
}

// applyPlacement anchors the window to the screen edges selected by
// the geometry offset signs and pins it to the configured monitor.
func (w *Window) applyPlacement() {
	g := w.settings.ParsedGeometry()

	// Reset all anchors first
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(w.win, layershell.LayerShellEdgeRight, false)

	if g.NegativeX {
		layershell.SetAnchor(w.win, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(w.win, layershell.LayerShellEdgeRight, g.X)
	} else {
		layershell.SetAnchor(w.win, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(w.win, layershell.LayerShellEdgeLeft, g.X)
	}

	if g.NegativeY {
		layershell.SetAnchor(w.win, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(w.win, layershell.LayerShellEdgeBottom, g.Y)
	} else {
		layershell.SetAnchor(w.win, layershell.LayerShellEdgeTop, true)
		layershell.SetMargin(w.win, layershell.LayerShellEdgeTop, g.Y)
	}

	if monitor := activeMonitor(w.display, w.settings.Display.Monitor, w.logger); monitor != nil {
		layershell.SetMonitor(w.win, monitor)
	}
}

// ActiveOutput returns the geometry of the monitor the stack is shown
// on.
func (w *Window) ActiveOutput() render.Output {
	monitor := activeMonitor(w.display, w.settings.Display.Monitor, w.logger)
	if monitor == nil {
		w.logger.Warn("no monitor available")
		return render.Output{}
	}
	return outputFor(monitor)
}

// Resize sets the window to the computed stack size.
func (w *Window) Resize(width, height int) {
	w.area.SetContentWidth(width)
	w.area.SetContentHeight(height)
	w.win.SetDefaultSize(width, height)
}

// NewCanvas allocates an offscreen canvas for one repaint.
func (w *Window) NewCanvas(width, height int) render.Canvas {
	return newCanvas(width, height)
}

// Present adopts the finished canvas as the window content and shows
// the window if it was hidden.
func (w *Window) Present(c render.Canvas) {
	canvas, ok := c.(*Canvas)
	if !ok {
		return
	}
	w.frame = canvas.surface
	w.area.QueueDraw()
	if !w.visible {
		w.win.SetVisible(true)
		w.visible = true
	}
}

// Hide hides the window once the last notification is gone. The next
// Present shows it again.
func (w *Window) Hide() {
	if !w.visible {
		return
	}
	w.frame = nil
	w.win.SetVisible(false)
	w.visible = false
}
