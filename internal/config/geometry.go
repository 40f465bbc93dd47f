package config

import (
	"errors"
	"fmt"
)

// ErrBadGeometry indicates a geometry string that could not be parsed.
var ErrBadGeometry = errors.New("malformed geometry")

// Geometry is the parsed form of the display geometry string
// "[width]x[height][+/-x+/-y]", following X11 geometry conventions.
//
// An explicit width of 0 ("0x5") sets DynamicWidth: the window follows
// the widest card. Omitting the width entirely ("x5") spans the whole
// screen. A leading minus sign ("-300x5") keeps Width positive and sets
// NegativeWidth: the window spans the screen width minus Width.
// Height counts notifications, not pixels; 0 means unlimited.
// X and Y are offsets from the screen edge selected by their signs:
// NegativeX anchors to the right edge, NegativeY to the bottom.
type Geometry struct {
	Width  int
	Height int
	X      int
	Y      int

	DynamicWidth  bool
	NegativeWidth bool
	NegativeX     bool
	NegativeY     bool
}

// ParseGeometry parses an X11-style geometry string. All parts are
// optional; the empty string yields a full-width window with no offsets.
// Anything left over after the offset section is an error.
func ParseGeometry(s string) (Geometry, error) {
	var g Geometry
	if s == "" {
		return g, nil
	}

	rest := s
	if rest[0] == '-' {
		g.NegativeWidth = true
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == '=' {
		rest = rest[1:]
	}

	var ok bool
	if len(rest) > 0 && isDigit(rest[0]) {
		g.Width, rest = scanInt(rest)
		g.DynamicWidth = g.Width == 0
	}

	if len(rest) > 0 && (rest[0] == 'x' || rest[0] == 'X') {
		g.Height, rest, ok = scanIntStrict(rest[1:])
		if !ok {
			return g, fmt.Errorf("%w: %q: height expected after 'x'", ErrBadGeometry, s)
		}
	}

	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		g.NegativeX = rest[0] == '-'
		g.X, rest, ok = scanIntStrict(rest[1:])
		if !ok {
			return g, fmt.Errorf("%w: %q: x offset expected after sign", ErrBadGeometry, s)
		}

		if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
			g.NegativeY = rest[0] == '-'
			g.Y, rest, ok = scanIntStrict(rest[1:])
			if !ok {
				return g, fmt.Errorf("%w: %q: y offset expected after sign", ErrBadGeometry, s)
			}
		}
	}

	if rest != "" {
		return g, fmt.Errorf("%w: %q: unexpected %q", ErrBadGeometry, s, rest)
	}
	return g, nil
}

// scanInt consumes a leading run of digits. The second return is the
// remainder of the string.
func scanInt(s string) (int, string) {
	n := 0
	i := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}

// scanIntStrict is scanInt but requires at least one digit.
func scanIntStrict(s string) (int, string, bool) {
	if len(s) == 0 || !isDigit(s[0]) {
		return 0, s, false
	}
	n, rest := scanInt(s)
	return n, rest, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
