package display

import (
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/pango"
	"github.com/diamondburned/gotk4/pkg/pangocairo"

	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/render"
)

// Shaper creates pango layouts for the render engine. The pango
// context hangs off a 1x1 scratch surface; the canvas rebinds each
// layout to its own surface before painting.
type Shaper struct {
	surface *cairo.Surface
	cr      *cairo.Context
	context *pango.Context
}

// NewShaper creates a Shaper.
func NewShaper() *Shaper {
	surface := cairo.CreateImageSurface(cairo.FORMAT_ARGB32, 1, 1)
	cr := cairo.Create(surface)
	return &Shaper{
		surface: surface,
		cr:      cr,
		context: pangocairo.CreateContext(cr),
	}
}

// NewLayout creates an empty text layout. The font resolution follows
// the current Xft dpi so text sizes track the desktop setting.
func (s *Shaper) NewLayout() render.TextLayout {
	if dpi := xftDPI(); dpi > 0 {
		pangocairo.ContextSetResolution(s.context, dpi)
	}
	return &TextLayout{layout: pango.NewLayout(s.context)}
}

// TextLayout wraps a pango layout behind the render.TextLayout
// interface, converting pixel arguments to pango units.
type TextLayout struct {
	layout *pango.Layout
}

// SetWidth sets the wrap width in pixels; negative leaves the layout
// unbounded.
func (l *TextLayout) SetWidth(px int) {
	if px < 0 {
		l.layout.SetWidth(-1)
		return
	}
	l.layout.SetWidth(px * pango.SCALE)
}

func (l *TextLayout) SetFont(desc string) {
	l.layout.SetFontDescription(pango.FontDescriptionFromString(desc))
}

func (l *TextLayout) SetSpacing(px int) {
	l.layout.SetSpacing(px * pango.SCALE)
}

func (l *TextLayout) SetWrapWordChar() {
	l.layout.SetWrap(pango.WrapWordChar)
}

func (l *TextLayout) SetAlignment(a config.Alignment) {
	switch a {
	case config.AlignCenter:
		l.layout.SetAlignment(pango.AlignCenter)
	case config.AlignRight:
		l.layout.SetAlignment(pango.AlignRight)
	default:
		l.layout.SetAlignment(pango.AlignLeft)
	}
}

func (l *TextLayout) SetEllipsize(mode config.EllipsizeMode) {
	switch mode {
	case config.EllipsizeStart:
		l.layout.SetEllipsize(pango.EllipsizeStart)
	case config.EllipsizeMiddle:
		l.layout.SetEllipsize(pango.EllipsizeMiddle)
	case config.EllipsizeEnd:
		l.layout.SetEllipsize(pango.EllipsizeEnd)
	}
}

// SetText replaces the layout content with plain text.
func (l *TextLayout) SetText(s string) {
	l.layout.SetText(s, -1)
	l.layout.SetAttributes(nil)
}

// SetMarkup parses s as pango markup and applies both the text and
// the attributes. The layout is left untouched on a parse error.
func (l *TextLayout) SetMarkup(s string) error {
	attrs, text, _, err := pango.ParseMarkup(s, -1, 0)
	if err != nil {
		return err
	}
	l.layout.SetText(text, -1)
	l.layout.SetAttributes(attrs)
	return nil
}

func (l *TextLayout) PixelSize() (int, int) {
	return l.layout.PixelSize()
}
