// Package markup handles Pango markup preprocessing for notification
// bodies: escaping, tag stripping, and the per-mode transform applied
// when a notification is accepted.
package markup

import "strings"

// Mode selects how a notification body is treated before shaping.
type Mode string

const (
	// ModeFull passes the body through as Pango markup.
	ModeFull Mode = "full"
	// ModeStrip removes tags and renders the remaining text literally.
	ModeStrip Mode = "strip"
	// ModeNo escapes the body so any tags display as literal text.
	ModeNo Mode = "no"
)

// ValidMode reports whether m is a recognized markup mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeFull, ModeStrip, ModeNo:
		return true
	}
	return false
}

var quoter = strings.NewReplacer(
	"&", "&amp;",
	"\"", "&quot;",
	"'", "&apos;",
	"<", "&lt;",
	">", "&gt;",
)

var unquoter = strings.NewReplacer(
	"&quot;", "\"",
	"&apos;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Escape quotes all markup-significant characters in s.
func Escape(s string) string {
	return quoter.Replace(s)
}

// Strip removes everything between angle brackets (nesting-aware, an
// unmatched opener swallows the rest of the string) and unquotes the
// basic named entities in what remains.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	open := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '<':
			open++
		case s[i] == '>' && open > 0:
			open--
		case open == 0:
			b.WriteByte(s[i])
		}
	}
	return unquoter.Replace(b.String())
}

// Apply runs the transform for mode over body. ModeStrip re-escapes the
// stripped text so the result is always safe to hand to a markup parser.
// Unknown modes fall back to ModeNo, the most conservative transform.
func Apply(mode Mode, body string) string {
	switch mode {
	case ModeFull:
		return body
	case ModeStrip:
		return Escape(Strip(body))
	default:
		return Escape(body)
	}
}
