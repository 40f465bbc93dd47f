// Package color provides the RGB color model used by the notification
// renderer: hex string parsing, per-urgency resolution, and automatic
// contrast derivation for separators drawn on arbitrary backgrounds.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidColor indicates a color string that could not be fully parsed.
// The accompanying RGB value is still usable (parsed prefix, missing
// channels zero) so callers can log the error and keep rendering.
var ErrInvalidColor = errors.New("invalid color string")

// contrastDelta is how far each channel shifts away from the mean
// brightness when deriving a contrasting color.
const contrastDelta = 0.1

// RGB is a color with channels normalized to [0, 1].
type RGB struct {
	R float64
	G float64
	B float64
}

// FromHex builds an RGB from the low 24 bits of v (0xRRGGBB).
func FromHex(v int64) RGB {
	return RGB{
		R: float64((v>>16)&0xff) / 255.0,
		G: float64((v>>8)&0xff) / 255.0,
		B: float64(v&0xff) / 255.0,
	}
}

// Parse interprets a "#RRGGBB" style string. The leading marker character
// is skipped without inspection and the longest hex prefix of the rest is
// used; a single trailing character is tolerated silently. Both quirks
// match the strtol scan older daemons used, so configs carried over keep
// resolving to the same colors. A non-nil error means the string had two
// or more trailing characters that could not be parsed; the returned RGB
// is the best-effort value either way.
func Parse(s string) (RGB, error) {
	if len(s) < 2 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	hex := s[1:]
	n := 0
	for n < len(hex) && isHexDigit(hex[n]) {
		n++
	}

	var val int64
	if n > 0 {
		v, err := strconv.ParseInt(hex[:n], 16, 64)
		if err != nil {
			// Only possible failure is overflow; saturate like strtol.
			v = math.MaxInt64
		}
		val = v
	}

	if len(hex)-n > 1 {
		return FromHex(val), fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return FromHex(val), nil
}

// Contrast derives a color guaranteed to remain visible against c by
// shifting every channel contrastDelta away from the mean brightness:
// darker for light colors, lighter for dark ones. Channels clamp to
// [0, 1], so near-extreme inputs converge instead of wrapping.
func (c RGB) Contrast() RGB {
	shift := contrastDelta
	if (c.R+c.G+c.B)/3 > 0.5 {
		shift = -contrastDelta
	}
	return RGB{
		R: clamp(c.R + shift),
		G: clamp(c.G + shift),
		B: clamp(c.B + shift),
	}
}

// String renders the color back to #rrggbb form for logs.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(c.R*255)),
		int(math.Round(c.G*255)),
		int(math.Round(c.B*255)))
}

func clamp(v float64) float64 {
	return min(1, max(0, v))
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
