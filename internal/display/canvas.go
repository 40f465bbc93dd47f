package display

import (
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/pangocairo"

	"github.com/jmylchreest/notui/internal/color"
	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/render"
)

// Canvas is a cairo image surface one frame of the stack is painted
// into.
type Canvas struct {
	surface *cairo.Surface
	cr      *cairo.Context
}

func newCanvas(width, height int) *Canvas {
	surface := cairo.CreateImageSurface(cairo.FORMAT_ARGB32, width, height)
	return &Canvas{
		surface: surface,
		cr:      cairo.Create(surface),
	}
}

// FillRectangle fills a pixel-aligned rectangle with a solid color.
func (c *Canvas) FillRectangle(x, y, width, height int, col color.RGB) {
	c.cr.SetSourceRGB(col.R, col.G, col.B)
	c.cr.Rectangle(float64(x), float64(y), float64(width), float64(height))
	c.cr.Fill()
}

// DrawLayout paints a shaped text layout with its top-left corner at
// (x, y).
func (c *Canvas) DrawLayout(l render.TextLayout, x, y int, col color.RGB) {
	tl, ok := l.(*TextLayout)
	if !ok {
		return
	}
	c.cr.MoveTo(float64(x), float64(y))
	c.cr.SetSourceRGB(col.R, col.G, col.B)
	pangocairo.UpdateLayout(c.cr, tl.layout)
	pangocairo.ShowLayout(c.cr, tl.layout)
}

// DrawImage paints a decoded icon with its top-left corner at (x, y).
func (c *Canvas) DrawImage(img icon.Image, x, y int) {
	pb, ok := img.(*Pixbuf)
	if !ok {
		return
	}
	gdk.CairoSetSourcePixbuf(c.cr, pb.pixbuf, float64(x), float64(y))
	c.cr.Rectangle(float64(x), float64(y), float64(pb.Width()), float64(pb.Height()))
	c.cr.Fill()
}

// Close drops the canvas references. The surface stays alive as long
// as the window presents it; the binding finalizes it afterwards.
func (c *Canvas) Close() {
	c.cr = nil
	c.surface = nil
}
