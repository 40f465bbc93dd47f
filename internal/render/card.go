package render

import (
	"github.com/jmylchreest/notui/internal/color"
	"github.com/jmylchreest/notui/internal/config"
)

// renderCard paints one card at dim.Y: the frame band, the background
// inset over it, the text, the separator toward the next card, and the
// icon. Returns dim with Y advanced past everything painted.
func (e *Engine) renderCard(canvas Canvas, cl, next *ColoredLayout, dim Dimension, first, last bool) Dimension {
	d := e.settings.Display

	_, h := cl.Layout.PixelSize()
	hText := 0
	if cl.Icon != nil {
		hText = h
		h = max(cl.Icon.Height(), h)
	}

	bgX := 0
	bgY := dim.Y
	bgWidth := dim.Width
	bgHeight := max(d.NotificationHeight, 2*d.Padding+h)

	if first {
		bgHeight += d.FrameWidth
	}
	if last {
		bgHeight += d.FrameWidth
	} else {
		bgHeight += d.SeparatorHeight
	}

	// The frame is a filled band behind the card; the background is
	// painted inset over it so the border stays visible.
	canvas.FillRectangle(bgX, bgY, bgWidth, bgHeight, cl.Frame)

	bgX += d.FrameWidth
	if first {
		dim.Y += d.FrameWidth
		bgY += d.FrameWidth
		bgHeight -= d.FrameWidth
		if !last {
			bgHeight -= d.SeparatorHeight
		}
	}
	bgWidth -= 2 * d.FrameWidth
	if last {
		bgHeight -= d.FrameWidth
	}

	canvas.FillRectangle(bgX, bgY, bgWidth, bgHeight, cl.BG)

	// When the minimum card height exceeds the content, the cursor
	// centers the content run instead of following the padding.
	usePadding := d.NotificationHeight <= 2*d.Padding+h
	if usePadding {
		dim.Y += d.Padding
	} else {
		dim.Y += (d.NotificationHeight+1)/2 - h/2
	}

	textX := d.FrameWidth + d.HorizontalPadding
	textY := bgY + d.Padding
	if cl.Icon != nil {
		textY = bgY + d.Padding + h/2 - hText/2
		if config.IconPosition(e.settings.Icons.Position) == config.IconLeft {
			textX = d.FrameWidth + cl.Icon.Width() + 2*d.HorizontalPadding
		}
	}
	canvas.DrawLayout(cl.Layout, textX, textY, cl.FG)

	if usePadding {
		dim.Y += h + d.Padding
	} else {
		dim.Y += d.NotificationHeight/2 + h/2
	}

	if d.SeparatorHeight > 0 && !last {
		c := e.separatorColor(cl, next)
		policy, _ := e.settings.SeparatorColorPolicy()
		if policy == config.SeparatorFrame {
			// Frame-colored separators span the border too.
			canvas.FillRectangle(0, dim.Y, dim.Width, d.SeparatorHeight, c)
		} else {
			canvas.FillRectangle(d.FrameWidth, dim.Y+d.FrameWidth, dim.Width-2*d.FrameWidth, d.SeparatorHeight, c)
		}
		dim.Y += d.SeparatorHeight
	}

	if cl.Icon != nil {
		imageX := d.FrameWidth + d.HorizontalPadding
		if config.IconPosition(e.settings.Icons.Position) != config.IconLeft {
			imageX = bgWidth - d.HorizontalPadding - cl.Icon.Width() + d.FrameWidth
		}
		imageY := bgY + d.Padding + h/2 - cl.Icon.Height()/2
		canvas.DrawImage(cl.Icon, imageX, imageY)
	}

	return dim
}

// separatorColor resolves the color of the gap painted after cl. The
// frame policy follows the more urgent of the two neighbors.
func (e *Engine) separatorColor(cl, next *ColoredLayout) color.RGB {
	policy, custom := e.settings.SeparatorColorPolicy()
	switch policy {
	case config.SeparatorFrame:
		if next != nil && next.N.Urgency > cl.N.Urgency {
			return next.Frame
		}
		return cl.Frame
	case config.SeparatorCustom:
		return e.parseColor(custom)
	case config.SeparatorForeground:
		return cl.FG
	case config.SeparatorAuto:
		return cl.BG.Contrast()
	default:
		e.logger.Warn("unknown separator color policy, using foreground", "policy", string(policy))
		return cl.FG
	}
}
