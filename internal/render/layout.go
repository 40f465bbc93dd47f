package render

import (
	"fmt"

	"github.com/jmylchreest/notui/internal/color"
	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/markup"
	"github.com/jmylchreest/notui/internal/notification"
)

// buildLayouts shapes every displayed notification into a card,
// appending the overflow indicator when queued notifications did not
// fit on screen.
func (e *Engine) buildLayouts(displayed []*notification.Notification, hidden int, out Output) []*ColoredLayout {
	d := e.settings.Display
	xmore := hidden > 0 && d.IndicateHidden

	layouts := make([]*ColoredLayout, 0, len(displayed)+1)
	for i, n := range displayed {
		text := n.RenderText(d.ShowAgeThreshold.Duration())
		if xmore && e.geometry.Height == 1 && i == len(displayed)-1 {
			// A single-card stack carries the count on the card itself.
			text = fmt.Sprintf("%s (%d more)", text, hidden)
		}
		layouts = append(layouts, e.buildLayout(n, text, out))
	}

	if xmore && e.geometry.Height != 1 {
		last := displayed[len(displayed)-1]
		layouts = append(layouts, e.buildOverflowLayout(last, hidden, out))
	}

	return layouts
}

// buildLayout shapes one notification. Markup that fails to parse
// falls back to stripped plain text; the failure is logged only the
// first time the notification is rendered.
func (e *Engine) buildLayout(n *notification.Notification, text string, out Output) *ColoredLayout {
	cl := e.initShared(n, out)

	if err := cl.Layout.SetMarkup(text); err != nil {
		if n.FirstRender {
			e.logger.Warn("unable to parse markup", "summary", n.Summary, "error", err)
		}
		cl.Layout.SetText(markup.Strip(text))
	}

	_, h := cl.Layout.PixelSize()
	if cl.Icon != nil {
		h = max(cl.Icon.Height(), h)
	}
	n.DisplayedHeight = max(e.settings.Display.NotificationHeight, h+2*e.settings.Display.Padding)
	n.FirstRender = false

	return cl
}

// buildOverflowLayout builds the trailing "(n more)" card. It borrows
// the colors and icon of the last visible notification.
func (e *Engine) buildOverflowLayout(last *notification.Notification, hidden int, out Output) *ColoredLayout {
	cl := e.initShared(last, out)
	cl.Layout.SetText(fmt.Sprintf("(%d more)", hidden))
	return cl
}

// initShared builds the parts of a card shared by real notifications
// and the overflow card: the shaped layout, the colors and the icon.
func (e *Engine) initShared(n *notification.Notification, out Output) *ColoredLayout {
	s := e.settings
	cl := &ColoredLayout{N: n, Layout: e.shaper.NewLayout()}

	if !s.Display.WordWrap {
		mode := config.EllipsizeMode(s.Display.Ellipsize)
		switch mode {
		case config.EllipsizeStart, config.EllipsizeMiddle, config.EllipsizeEnd:
			cl.Layout.SetEllipsize(mode)
		default:
			panic(fmt.Sprintf("render: ellipsize mode %q escaped config validation", s.Display.Ellipsize))
		}
	}

	if config.IconPosition(s.Icons.Position) != config.IconOff {
		cl.Icon = e.icons.Load(n.Icon, n.RawIcon)
	}

	cl.FG, cl.BG, cl.Frame = e.resolveColors(n)

	if e.geometry.DynamicWidth {
		e.setupLayout(cl.Layout, -1)
	} else {
		width := e.calculateDimensions(nil, out).Width
		width -= 2 * s.Display.HorizontalPadding
		width -= 2 * s.Display.FrameWidth
		if cl.Icon != nil {
			width -= cl.Icon.Width() + s.Display.HorizontalPadding
		}
		e.setupLayout(cl.Layout, width)
	}

	return cl
}

// setupLayout applies the static text settings and the wrap width.
// width is in pixels; negative leaves the layout unbounded.
func (e *Engine) setupLayout(l TextLayout, width int) {
	d := e.settings.Display

	l.SetWrapWordChar()
	l.SetWidth(width)
	l.SetFont(d.Font)
	l.SetSpacing(d.LineHeight)

	a := config.Alignment(d.Alignment)
	switch a {
	case config.AlignCenter, config.AlignRight:
	default:
		a = config.AlignLeft
	}
	l.SetAlignment(a)
}

// resolveColors picks the card colors: per-notification hint overrides
// first, then the urgency tier.
func (e *Engine) resolveColors(n *notification.Notification) (fg, bg, frame color.RGB) {
	tier := e.settings.ColorsForUrgency(n.Urgency)

	fgStr, bgStr := tier.Foreground, tier.Background
	frameStr := e.settings.FrameColorForUrgency(n.Urgency)
	if n.Foreground != "" {
		fgStr = n.Foreground
	}
	if n.Background != "" {
		bgStr = n.Background
	}
	if n.FrameColor != "" {
		frameStr = n.FrameColor
	}

	return e.parseColor(fgStr), e.parseColor(bgStr), e.parseColor(frameStr)
}

// parseColor parses a color string, logging malformed values and
// keeping whatever could be salvaged so a bad hint cannot kill a
// repaint.
func (e *Engine) parseColor(s string) color.RGB {
	c, err := color.Parse(s)
	if err != nil {
		e.logger.Warn("invalid color string", "color", s, "error", err)
	}
	return c
}
