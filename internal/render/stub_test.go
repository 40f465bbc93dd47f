package render

import (
	"io"
	"log/slog"
	"testing"
	"unicode/utf8"

	"github.com/jmylchreest/notui/internal/color"
	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/notification"
)

// stubLayout models a fixed-metric font: every rune is charWidth wide
// and every line is lineHeight tall, wrapping at the layout width.
type stubLayout struct {
	charWidth  int
	lineHeight int

	text      string
	width     int
	font      string
	spacing   int
	wrapped   bool
	alignment config.Alignment
	ellipsize config.EllipsizeMode

	markupErr error
	markups   int
	texts     int
}

func (l *stubLayout) SetWidth(px int)                     { l.width = px }
func (l *stubLayout) SetFont(desc string)                 { l.font = desc }
func (l *stubLayout) SetSpacing(px int)                   { l.spacing = px }
func (l *stubLayout) SetWrapWordChar()                    { l.wrapped = true }
func (l *stubLayout) SetAlignment(a config.Alignment)     { l.alignment = a }
func (l *stubLayout) SetEllipsize(m config.EllipsizeMode) { l.ellipsize = m }

func (l *stubLayout) SetText(s string) {
	l.text = s
	l.texts++
}

func (l *stubLayout) SetMarkup(s string) error {
	l.markups++
	if l.markupErr != nil {
		return l.markupErr
	}
	l.text = s
	return nil
}

func (l *stubLayout) PixelSize() (int, int) {
	runes := utf8.RuneCountInString(l.text)
	if runes == 0 {
		return 0, l.lineHeight
	}
	if l.width < 0 || runes*l.charWidth <= l.width {
		return runes * l.charWidth, l.lineHeight
	}
	perLine := l.width / l.charWidth
	if perLine < 1 {
		perLine = 1
	}
	lines := (runes + perLine - 1) / perLine
	return perLine * l.charWidth, lines * l.lineHeight
}

type stubShaper struct {
	charWidth  int
	lineHeight int
	markupErr  error
	layouts    []*stubLayout
}

func (s *stubShaper) NewLayout() TextLayout {
	l := &stubLayout{
		charWidth:  s.charWidth,
		lineHeight: s.lineHeight,
		markupErr:  s.markupErr,
	}
	s.layouts = append(s.layouts, l)
	return l
}

type rectOp struct {
	x, y, w, h int
	c          color.RGB
}

type textOp struct {
	layout TextLayout
	x, y   int
	c      color.RGB
}

type imageOp struct {
	img  icon.Image
	x, y int
}

type stubCanvas struct {
	width, height int
	rects         []rectOp
	texts         []textOp
	images        []imageOp
	closed        bool
}

func (c *stubCanvas) FillRectangle(x, y, w, h int, col color.RGB) {
	c.rects = append(c.rects, rectOp{x, y, w, h, col})
}

func (c *stubCanvas) DrawLayout(l TextLayout, x, y int, col color.RGB) {
	c.texts = append(c.texts, textOp{l, x, y, col})
}

func (c *stubCanvas) DrawImage(img icon.Image, x, y int) {
	c.images = append(c.images, imageOp{img, x, y})
}

func (c *stubCanvas) Close() { c.closed = true }

type stubWindow struct {
	output    Output
	resizes   [][2]int
	canvases  []*stubCanvas
	presented []*stubCanvas
}

func (w *stubWindow) ActiveOutput() Output { return w.output }

func (w *stubWindow) Resize(width, height int) {
	w.resizes = append(w.resizes, [2]int{width, height})
}

func (w *stubWindow) NewCanvas(width, height int) Canvas {
	c := &stubCanvas{width: width, height: height}
	w.canvases = append(w.canvases, c)
	return c
}

func (w *stubWindow) Present(c Canvas) {
	w.presented = append(w.presented, c.(*stubCanvas))
}

type stubImage struct {
	w, h   int
	closed bool
}

func (i *stubImage) Width() int  { return i.w }
func (i *stubImage) Height() int { return i.h }
func (i *stubImage) Close()      { i.closed = true }

// stubDecoder decodes every file reference into a fixed-size image.
type stubDecoder struct {
	w, h int
}

func (d *stubDecoder) DecodeFile(string) (icon.Image, error) {
	return &stubImage{w: d.w, h: d.h}, nil
}

func (d *stubDecoder) DecodeRaw(raw *icon.RawImage) (icon.Image, error) {
	return &stubImage{w: raw.Width, h: raw.Height}, nil
}

func (d *stubDecoder) Scale(_ icon.Image, w, h int) (icon.Image, error) {
	return &stubImage{w: w, h: h}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testSettings returns small, round numbers so the expected card
// geometry can be worked out by hand.
func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Display.Geometry = "300x5-30+20"
	s.Display.Padding = 5
	s.Display.HorizontalPadding = 5
	s.Display.SeparatorHeight = 1
	s.Display.SeparatorColor = string(config.SeparatorForeground)
	s.Display.FrameWidth = 1
	s.Display.NotificationHeight = 0
	s.Display.ShowAgeThreshold = 0
	s.Icons.Position = string(config.IconOff)
	return s
}

func newTestEngine(t *testing.T, s *config.Settings, win *stubWindow, shaper *stubShaper) *Engine {
	t.Helper()
	loader := icon.NewLoader(&stubDecoder{w: 32, h: 32}, nil, s.Icons.MaxSize, discardLogger())
	return NewEngine(win, shaper, loader, s, discardLogger())
}

func testWindow() *stubWindow {
	return &stubWindow{output: Output{Width: 800, Height: 600, DPI: 96}}
}

func testNote(t *testing.T, summary string) *notification.Notification {
	t.Helper()
	n, err := notification.New(1, "app", summary, "")
	if err != nil {
		t.Fatal(err)
	}
	n.Message = summary
	return n
}
