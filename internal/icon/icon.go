// Package icon resolves notification icons. A reference is either raw
// pixel data from the image-data hint, a file path (plain or file://
// URI), or a themed name searched across the configured directories.
// Loaded icons are downscaled to the configured maximum size.
package icon

import (
	"iter"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// RawImage is decoded pixel data received in a notification hint,
// matching the D-Bus image-data field order.
type RawImage struct {
	Width         int
	Height        int
	RowStride     int
	HasAlpha      bool
	BitsPerSample int
	Channels      int
	Data          []byte
}

// Image is a decoded, display-ready icon raster. Implementations wrap a
// platform surface; Close releases it once the repaint is done.
type Image interface {
	Width() int
	Height() int
	Close()
}

// Decoder turns icon sources into display-ready images. Implemented on
// gdk-pixbuf by the display package and by stubs in tests.
type Decoder interface {
	DecodeFile(path string) (Image, error)
	DecodeRaw(raw *RawImage) (Image, error)
	Scale(img Image, width, height int) (Image, error)
}

// Loader resolves notification icons against a search path.
type Loader struct {
	decoder Decoder
	dirs    []string
	maxSize int
	logger  *slog.Logger
}

// NewLoader creates a Loader. dirs is the ordered icon search path,
// maxSize bounds the longer icon side (0 disables scaling).
func NewLoader(decoder Decoder, dirs []string, maxSize int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		decoder: decoder,
		dirs:    dirs,
		maxSize: maxSize,
		logger:  logger,
	}
}

// Load resolves a notification icon. Raw data wins over the reference
// string. Any failure logs and returns nil: cards render without an
// icon, never abort. The caller owns the returned image.
func (l *Loader) Load(ref string, raw *RawImage) Image {
	var img Image

	if raw != nil {
		decoded, err := l.decoder.DecodeRaw(raw)
		if err != nil {
			l.logger.Warn("could not decode raw icon", "error", err)
			return nil
		}
		img = decoded
	} else if ref != "" {
		for path := range Candidates(ref, l.dirs) {
			decoded, err := l.decoder.DecodeFile(path)
			if err == nil && decoded != nil {
				img = decoded
				break
			}
		}
		if img == nil {
			l.logger.Warn("could not load icon", "icon", ref)
			return nil
		}
	}

	if img == nil {
		return nil
	}
	return l.fit(img)
}

// Candidates yields the file paths tried for an icon reference, in
// order: the reference itself when it is a path (after file:// and ~
// expansion), then <dir>/<ref>.svg and <dir>/<ref>.png for each search
// directory. The sequence is finite and restartable.
func Candidates(ref string, dirs []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		path := ref
		if strings.HasPrefix(path, "file://") {
			if u, err := url.Parse(path); err == nil && u.Path != "" {
				path = u.Path
			}
		}

		if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "~") {
			if !yield(expandHome(path)) {
				return
			}
		}

		for _, dir := range dirs {
			if !yield(filepath.Join(dir, path+".svg")) {
				return
			}
			if !yield(filepath.Join(dir, path+".png")) {
				return
			}
		}
	}
}

// fit downscales img to the loader's maximum size. Failure to scale
// keeps the original image rather than dropping the icon.
func (l *Loader) fit(img Image) Image {
	w, h := FitSize(img.Width(), img.Height(), l.maxSize)
	if w == img.Width() && h == img.Height() {
		return img
	}

	scaled, err := l.decoder.Scale(img, w, h)
	if err != nil {
		l.logger.Warn("could not scale icon", "error", err,
			"width", img.Width(), "height", img.Height())
		return img
	}
	img.Close()
	return scaled
}

// FitSize returns the display size for a w×h image bounded by maxSize
// on its longer side. The shorter side scales proportionally, truncated.
// Images already within bounds, and a maxSize of 0, return unchanged.
func FitSize(w, h, maxSize int) (int, int) {
	larger := max(w, h)
	if maxSize == 0 || larger <= maxSize {
		return w, h
	}
	if w >= h {
		return maxSize, int(float64(maxSize) / float64(w) * float64(h))
	}
	return int(float64(maxSize) / float64(h) * float64(w)), maxSize
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
