package display

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notui/internal/render"
)

// activeMonitor returns the monitor notifications are shown on.
// Monitor numbers are 1-indexed in the config; 0 and out-of-range
// values fall back to the first monitor.
func activeMonitor(display *gdk.Display, preferred int, logger *slog.Logger) *gdk.Monitor {
	if display == nil {
		return nil
	}

	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}

	index := uint(0)
	if preferred > 0 {
		index = uint(preferred - 1)
		if index >= monitors.NItems() {
			logger.Warn("configured monitor not available, using first",
				"configured", preferred,
				"available", monitors.NItems(),
			)
			index = 0
		}
	}

	obj := monitors.Item(index)
	if obj == nil {
		return nil
	}
	return wrapMonitor(obj)
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// This is necessary because gotk4 doesn't expose the wrapMonitor function.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// The gdk.Monitor struct embeds a *coreglib.Object, so we can create
	// one by casting the native pointer. This is how gotk4 does it internally.
	// We use unsafe to access the internal structure.
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// outputFor converts a monitor's geometry to the render engine's
// output description.
func outputFor(monitor *gdk.Monitor) render.Output {
	geo := monitor.Geometry()
	return render.Output{
		X:      geo.X(),
		Y:      geo.Y(),
		Width:  geo.Width(),
		Height: geo.Height(),
		DPI:    xftDPI(),
	}
}

// xftDPI reads the desktop font dpi. The gtk-xft-dpi setting carries
// the Xft dpi scaled by 1024; unset reports as -1.
func xftDPI() float64 {
	settings := gtk.SettingsGetDefault()
	if settings == nil {
		return 0
	}
	switch v := settings.ObjectProperty("gtk-xft-dpi").(type) {
	case int:
		if v > 0 {
			return float64(v) / 1024
		}
	case int64:
		if v > 0 {
			return float64(v) / 1024
		}
	}
	return 0
}
