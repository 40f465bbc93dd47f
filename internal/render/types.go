package render

import (
	"github.com/jmylchreest/notui/internal/color"
	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/notification"
)

// Output describes the monitor the stack is painted on, in pixels.
type Output struct {
	X      int
	Y      int
	Width  int
	Height int
	DPI    float64
}

// Window is the platform window the notification stack lives in. The
// engine sizes it before painting and hands it a finished canvas to
// present.
type Window interface {
	// ActiveOutput returns the monitor the window is placed on.
	ActiveOutput() Output
	// Resize moves and resizes the window to fit the computed stack.
	Resize(width, height int)
	// NewCanvas allocates an offscreen canvas for one repaint.
	NewCanvas(width, height int) Canvas
	// Present blits the finished canvas onto the window.
	Present(c Canvas)
}

// Canvas is a pixel surface with the primitives a card is painted
// with. Coordinates are in pixels from the top-left corner.
type Canvas interface {
	FillRectangle(x, y, width, height int, c color.RGB)
	DrawLayout(l TextLayout, x, y int, c color.RGB)
	DrawImage(img icon.Image, x, y int)
	// Close releases the canvas after it has been presented.
	Close()
}

// Shaper creates text layouts bound to the window's font map and DPI.
type Shaper interface {
	NewLayout() TextLayout
}

// TextLayout is a shaped paragraph of text. Widths and spacing are in
// pixels; a negative width leaves the layout unbounded.
type TextLayout interface {
	SetWidth(px int)
	SetFont(desc string)
	SetSpacing(px int)
	SetWrapWordChar()
	SetAlignment(a config.Alignment)
	SetEllipsize(mode config.EllipsizeMode)
	// SetText replaces the layout content with plain text.
	SetText(s string)
	// SetMarkup parses s as markup and applies both the text and the
	// attributes. On a parse error the layout content is unspecified
	// and the caller falls back to SetText.
	SetMarkup(s string) error
	PixelSize() (width, height int)
}

// ColoredLayout is one card ready to paint: the shaped text plus the
// resolved colors and icon.
type ColoredLayout struct {
	Layout TextLayout
	FG     color.RGB
	BG     color.RGB
	Frame  color.RGB
	Icon   icon.Image
	N      *notification.Notification
}

// Close releases the card's per-repaint resources.
func (cl *ColoredLayout) Close() {
	if cl.Icon != nil {
		cl.Icon.Close()
	}
}

// Dimension is the cursor threaded through a repaint: the computed
// stack size plus the y position the next card paints at.
type Dimension struct {
	X      int
	Y      int
	Width  int
	Height int
}
