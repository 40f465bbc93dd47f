// Package notification defines the notification record and the text
// pipeline that turns an incoming message into the string a card renders.
package notification

import (
	"crypto/rand"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/markup"
)

// Urgency levels matching freedesktop spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// NoProgress marks a notification without a progress value.
const NoProgress = -1

// Action represents a notification action with key and label.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Notification is a single notification record. It is owned by the queue
// and only ever touched from the main loop; the renderer updates
// FirstRender and DisplayedHeight in place during a repaint and treats
// everything else as read-only.
type Notification struct {
	// Key identifies this record for logs and history, stable across
	// in-place replacement of the D-Bus ID.
	Key string `json:"key"`
	// ID is the D-Bus notification ID handed back to the sender.
	ID uint32 `json:"id"`

	AppName   string `json:"app_name"`
	Summary   string `json:"summary"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`

	Urgency     int    `json:"urgency"`
	UrgencyName string `json:"urgency_name"`
	Category    string `json:"category,omitempty"`

	// Per-notification appearance overrides from hints; empty means use
	// the per-urgency settings.
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	FrameColor string `json:"frame_color,omitempty"`

	// Icon is a file path, file:// URI, or themed icon name. RawIcon,
	// when set, takes precedence and never reaches the history file.
	Icon    string         `json:"icon,omitempty"`
	RawIcon *icon.RawImage `json:"-"`

	Progress int      `json:"progress,omitempty"` // 0-100, NoProgress = none
	StackTag string   `json:"stack_tag,omitempty"`
	Actions  []Action `json:"actions,omitempty"`

	Transient     bool   `json:"transient,omitempty"`
	SoundFile     string `json:"-"`
	SuppressSound bool   `json:"-"`

	// Timeout is the display lifetime: negative means use the
	// per-urgency setting, 0 means never expire.
	Timeout time.Duration `json:"-"`

	// ShownAt is when the notification was promoted on screen; the
	// expiry clock counts from here, restarting on replacement.
	ShownAt time.Time `json:"-"`

	// DupCount counts folded duplicates when duplicate stacking is on.
	DupCount int `json:"dup_count,omitempty"`

	// Message is the format-expanded text, built once on accept.
	Message string `json:"-"`

	// FirstRender gates one-time render warnings for this record.
	// DisplayedHeight caches the card height of the last repaint.
	FirstRender     bool `json:"-"`
	DisplayedHeight int  `json:"-"`
}

// Validation errors.
var (
	ErrEmptyKey         = errors.New("key cannot be empty")
	ErrInvalidUrgency   = errors.New("urgency must be 0, 1, or 2")
	ErrInvalidTimestamp = errors.New("timestamp must be greater than 0")
)

// New creates a notification record with a generated key, the current
// timestamp, and normal urgency.
func New(id uint32, appName, summary, body string) (*Notification, error) {
	key, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	return &Notification{
		Key:         key.String(),
		ID:          id,
		AppName:     appName,
		Summary:     summary,
		Body:        body,
		Timestamp:   time.Now().Unix(),
		Urgency:     UrgencyNormal,
		UrgencyName: UrgencyNames[UrgencyNormal],
		Progress:    NoProgress,
		Timeout:     -1,
		FirstRender: true,
	}, nil
}

// Validate checks that the notification has all required fields.
func (n *Notification) Validate() error {
	if n.Key == "" {
		return ErrEmptyKey
	}
	if n.Urgency < 0 || n.Urgency > 2 {
		return ErrInvalidUrgency
	}
	if n.Timestamp <= 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// SetUrgency sets the urgency level and its human-readable name.
// Out-of-range levels normalize to normal.
func (n *Notification) SetUrgency(level int) {
	if level < 0 || level > 2 {
		level = UrgencyNormal
	}
	n.Urgency = level
	n.UrgencyName = UrgencyNames[level]
}

// HasProgress reports whether a progress value was supplied.
func (n *Notification) HasProgress() bool {
	return n.Progress != NoProgress
}

// Age returns how long ago the notification arrived.
func (n *Notification) Age() time.Duration {
	return time.Since(time.Unix(n.Timestamp, 0))
}

// TimestampTime returns the timestamp as a time.Time.
func (n *Notification) TimestampTime() time.Time {
	return time.Unix(n.Timestamp, 0)
}

// FormatMessage expands the format template and stores the result as the
// notification's message. The body passes through the configured markup
// transform; every other field is escaped so it always renders literally.
//
// Template sequences: %a app name, %s summary, %b body, %i icon string,
// %I icon file name, %p progress as "[ 42%]", %% a literal percent.
// Unknown sequences are kept as-is.
func (n *Notification) FormatMessage(format string, mode markup.Mode, ignoreNewline bool) {
	var b strings.Builder
	b.Grow(len(format) + len(n.Summary) + len(n.Body))

	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			b.WriteByte(format[i])
			continue
		}

		i++
		switch format[i] {
		case 'a':
			b.WriteString(markup.Escape(n.AppName))
		case 's':
			b.WriteString(markup.Escape(n.Summary))
		case 'b':
			b.WriteString(markup.Apply(mode, n.Body))
		case 'i':
			b.WriteString(markup.Escape(n.Icon))
		case 'I':
			b.WriteString(markup.Escape(filepath.Base(n.Icon)))
		case 'p':
			if n.HasProgress() {
				fmt.Fprintf(&b, "[%3d%%]", n.Progress)
			}
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}

	msg := strings.TrimRight(b.String(), " \t\n")
	if ignoreNewline {
		msg = strings.ReplaceAll(msg, "\n", " ")
	}
	n.Message = msg
}

// RenderText returns the text a card displays right now: the message,
// prefixed with the duplicate count and suffixed with the notification
// age once it passes ageThreshold (0 disables the age suffix). Derived
// fresh each repaint so the age stays current.
func (n *Notification) RenderText(ageThreshold time.Duration) string {
	text := n.Message
	if n.DupCount > 0 {
		text = fmt.Sprintf("(%d) %s", n.DupCount, text)
	}

	if ageThreshold > 0 && n.Age() >= ageThreshold {
		age := strings.TrimSpace(humanize.RelTime(n.TimestampTime(), time.Now(), "", ""))
		text = fmt.Sprintf("%s (%s old)", text, age)
	}
	return text
}
