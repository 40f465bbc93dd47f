// Package render lays out and paints the notification stack. It
// computes the stack geometry from the shaped text, the icons and the
// display settings, then draws each card top to bottom onto a canvas
// supplied by the platform window.
package render

import (
	"log/slog"

	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/notification"
)

// Engine owns one window and repaints the whole stack on demand. It is
// confined to the main loop: nothing here is safe for concurrent use.
type Engine struct {
	window   Window
	shaper   Shaper
	icons    *icon.Loader
	settings *config.Settings
	geometry config.Geometry
	logger   *slog.Logger
}

// NewEngine creates a render engine for the given window. The geometry
// string from settings is parsed once here; Load has already validated
// it.
func NewEngine(window Window, shaper Shaper, icons *icon.Loader, settings *config.Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		window: window,
		shaper: shaper,
		logger: logger,
	}
	e.Reconfigure(settings, icons)
	return e
}

// Reconfigure swaps the live settings and icon loader, re-deriving the
// parsed geometry. Called from the main loop on config reload.
func (e *Engine) Reconfigure(settings *config.Settings, icons *icon.Loader) {
	e.settings = settings
	e.icons = icons
	e.geometry = settings.ParsedGeometry()
}

// Repaint lays out, sizes and paints the stack. displayed holds the
// notifications to show in order; hidden is the number of queued
// notifications that did not fit on screen.
func (e *Engine) Repaint(displayed []*notification.Notification, hidden int) {
	if len(displayed) == 0 {
		return
	}

	out := e.window.ActiveOutput()
	layouts := e.buildLayouts(displayed, hidden, out)
	defer closeLayouts(layouts)

	dim := e.calculateDimensions(layouts, out)
	e.window.Resize(dim.Width, dim.Height)

	canvas := e.window.NewCanvas(dim.Width, dim.Height)
	defer canvas.Close()

	for i, cl := range layouts {
		var next *ColoredLayout
		if i+1 < len(layouts) {
			next = layouts[i+1]
		}
		dim = e.renderCard(canvas, cl, next, dim, i == 0, i == len(layouts)-1)
	}

	e.window.Present(canvas)
}

// CardAt maps a window y coordinate to the displayed notification
// under it, walking the same heights the last repaint painted. Clicks
// on the frame or a separator map to nothing.
func (e *Engine) CardAt(displayed []*notification.Notification, y int) *notification.Notification {
	d := e.settings.Display
	cursor := d.FrameWidth
	for _, n := range displayed {
		if y >= cursor && y < cursor+n.DisplayedHeight {
			return n
		}
		cursor += n.DisplayedHeight + d.SeparatorHeight
	}
	return nil
}

func closeLayouts(layouts []*ColoredLayout) {
	for _, cl := range layouts {
		cl.Close()
	}
}
