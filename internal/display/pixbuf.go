package display

import (
	"errors"
	"fmt"

	"github.com/diamondburned/gotk4/pkg/gdkpixbuf/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/notui/internal/icon"
)

// ErrBadImageData indicates a raw image hint with impossible dimensions.
var ErrBadImageData = errors.New("bad image data")

// Pixbuf wraps a gdk-pixbuf raster as an icon.Image.
type Pixbuf struct {
	pixbuf *gdkpixbuf.Pixbuf
}

func (p *Pixbuf) Width() int  { return p.pixbuf.Width() }
func (p *Pixbuf) Height() int { return p.pixbuf.Height() }

// Close drops the pixbuf reference; the binding finalizes it.
func (p *Pixbuf) Close() { p.pixbuf = nil }

// PixbufDecoder implements icon.Decoder on gdk-pixbuf.
type PixbufDecoder struct{}

// DecodeFile loads an image file in any format gdk-pixbuf understands.
func (PixbufDecoder) DecodeFile(path string) (icon.Image, error) {
	pb, err := gdkpixbuf.NewPixbufFromFile(path)
	if err != nil {
		return nil, err
	}
	return &Pixbuf{pixbuf: pb}, nil
}

// DecodeRaw wraps pixel data received in an image-data hint. The data
// length is checked against the claimed dimensions first: pixbuf reads
// rowstride bytes per row except the last, which only needs the pixels.
func (PixbufDecoder) DecodeRaw(raw *icon.RawImage) (icon.Image, error) {
	if raw.Width <= 0 || raw.Height <= 0 || raw.RowStride <= 0 || raw.Channels <= 0 {
		return nil, fmt.Errorf("%w: %dx%d stride %d channels %d",
			ErrBadImageData, raw.Width, raw.Height, raw.RowStride, raw.Channels)
	}
	need := raw.RowStride*(raw.Height-1) + raw.Width*raw.Channels*(raw.BitsPerSample/8)
	if len(raw.Data) < need {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d stride %d",
			ErrBadImageData, len(raw.Data), raw.Width, raw.Height, raw.RowStride)
	}

	pb := gdkpixbuf.NewPixbufFromBytes(
		glib.NewBytes(raw.Data),
		gdkpixbuf.ColorspaceRGB,
		raw.HasAlpha,
		raw.BitsPerSample,
		raw.Width,
		raw.Height,
		raw.RowStride,
	)
	if pb == nil {
		return nil, fmt.Errorf("%w: pixbuf rejected %dx%d at %d bits",
			ErrBadImageData, raw.Width, raw.Height, raw.BitsPerSample)
	}
	return &Pixbuf{pixbuf: pb}, nil
}

// Scale resizes img to width x height.
func (PixbufDecoder) Scale(img icon.Image, width, height int) (icon.Image, error) {
	pb, ok := img.(*Pixbuf)
	if !ok {
		return nil, fmt.Errorf("%w: not a pixbuf", ErrBadImageData)
	}
	scaled := pb.pixbuf.ScaleSimple(width, height, gdkpixbuf.InterpBilinear)
	if scaled == nil {
		return nil, fmt.Errorf("scale to %dx%d failed", width, height)
	}
	return &Pixbuf{pixbuf: scaled}, nil
}
