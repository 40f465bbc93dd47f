package render

// calculateDimensions computes the on-screen size of the whole stack.
// In dynamic or shrink mode each layout is remeasured at the running
// width of the widest card seen so far, so the stack converges on one
// rectangle instead of a staircase.
func (e *Engine) calculateDimensions(layouts []*ColoredLayout, out Output) Dimension {
	d := e.settings.Display
	g := e.geometry

	var dim Dimension
	switch {
	case g.DynamicWidth:
		dim.Width = 0
	case g.Width != 0:
		if g.NegativeWidth {
			dim.Width = out.Width - g.Width
		} else {
			dim.Width = g.Width
		}
	default:
		dim.Width = out.Width
	}

	dim.Height = 2 * d.FrameWidth
	if len(layouts) > 0 {
		dim.Height += (len(layouts) - 1) * d.SeparatorHeight
	}

	textWidth, totalWidth := 0, 0
	for _, cl := range layouts {
		w, h := cl.Layout.PixelSize()
		if cl.Icon != nil {
			h = max(cl.Icon.Height(), h)
			w += cl.Icon.Width() + d.HorizontalPadding
		}
		h = max(d.NotificationHeight, h+2*d.Padding)
		dim.Height += h
		textWidth = max(w, textWidth)

		if !g.DynamicWidth && !d.Shrink {
			continue
		}

		totalWidth = max(textWidth+2*d.HorizontalPadding, totalWidth)
		dim.Height -= h

		if totalWidth > out.Width {
			dim.Width = out.Width - 2*g.X
		} else if g.DynamicWidth || (totalWidth < g.Width && d.Shrink) {
			dim.Width = totalWidth + 2*d.FrameWidth
		}

		// Rewrap this layout at the adopted width and re-add its height.
		w = dim.Width - 2*d.HorizontalPadding - 2*d.FrameWidth
		if cl.Icon != nil {
			w -= cl.Icon.Width() + d.HorizontalPadding
		}
		e.setupLayout(cl.Layout, w)

		w, h = cl.Layout.PixelSize()
		if cl.Icon != nil {
			h = max(cl.Icon.Height(), h)
			w += cl.Icon.Width() + d.HorizontalPadding
		}
		h = max(d.NotificationHeight, h+2*d.Padding)
		dim.Height += h
		textWidth = max(w, textWidth)
	}

	if dim.Width <= 0 {
		dim.Width = textWidth + 2*d.HorizontalPadding + 2*d.FrameWidth
	}

	return dim
}
