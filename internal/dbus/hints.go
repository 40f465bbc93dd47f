package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/notification"
)

// ServerCapabilities lists the capabilities advertised by notuid.
var ServerCapabilities = []string{
	"body",        // Support body text
	"body-markup", // Support Pango markup in body
	"icon-static", // Support static icons
	"persistence", // Persist notifications to history
	"sound",       // Play sounds
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string // "notuid"
	Vendor      string // "notui"
	Version     string // Build version
	SpecVersion string // "1.2"
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "notuid",
		Vendor:      "notui",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}

// stackTagHints are the hint names accepted for stack-tag replacement, in
// priority order. The non-notui names keep dunstify and the canonical
// notify-osd senders working.
var stackTagHints = []string{
	"x-notui-stack-tag",
	"x-dunst-stack-tag",
	"synchronous",
	"private-synchronous",
	"x-canonical-private-synchronous",
}

// rawImageHints are the hint names carrying inline pixel data, in priority
// order. image_data is the 1.1 spelling and icon_data the pre-1.1 one.
var rawImageHints = []string{
	"image-data",
	"image_data",
	"icon_data",
}

// decodeNotify converts the arguments of a Notify call into a notification
// record. id is the already-allocated D-Bus ID.
func decodeNotify(
	id uint32,
	appName string,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (*notification.Notification, error) {
	n, err := notification.New(id, appName, summary, body)
	if err != nil {
		return nil, err
	}

	n.SetUrgency(hintUrgency(hints))
	n.Category = hintString(hints, "category")

	// The image-path hint overrides the app_icon argument; inline pixel
	// data overrides both at load time.
	n.Icon = appIcon
	if path := hintString(hints, "image-path", "image_path"); path != "" {
		n.Icon = path
	}
	n.RawIcon = hintRawImage(hints)

	n.Foreground = hintString(hints, "fgcolor")
	n.Background = hintString(hints, "bgcolor")
	n.FrameColor = hintString(hints, "frcolor")

	n.Progress = hintProgress(hints)
	n.StackTag = hintString(hints, stackTagHints...)
	n.Transient = hintBool(hints, "transient")
	n.SoundFile = hintString(hints, "sound-file")
	n.SuppressSound = hintBool(hints, "suppress-sound")

	// Actions arrive as alternating key, label pairs
	for i := 0; i+1 < len(actions); i += 2 {
		n.Actions = append(n.Actions, notification.Action{
			Key:   actions[i],
			Label: actions[i+1],
		})
	}

	// Zero means never expire; negative keeps the per-urgency default.
	switch {
	case expireTimeout == 0:
		n.Timeout = 0
	case expireTimeout > 0:
		n.Timeout = time.Duration(expireTimeout) * time.Millisecond
	}

	return n, nil
}

// hintUrgency extracts the urgency hint.
// Returns notification.UrgencyNormal if not specified.
func hintUrgency(hints map[string]dbus.Variant) int {
	if v, ok := hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return notification.UrgencyNormal
}

// hintString returns the first non-empty string hint among keys.
func hintString(hints map[string]dbus.Variant, keys ...string) string {
	for _, key := range keys {
		if v, ok := hints[key]; ok {
			if s, ok := v.Value().(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// hintBool extracts a boolean hint. Senders disagree on the wire type, so
// nonzero integers count as true.
func hintBool(hints map[string]dbus.Variant, key string) bool {
	v, ok := hints[key]
	if !ok {
		return false
	}
	switch b := v.Value().(type) {
	case bool:
		return b
	case byte:
		return b != 0
	case int32:
		return b != 0
	case uint32:
		return b != 0
	}
	return false
}

// hintProgress extracts the progress value hint.
// Returns notification.NoProgress if not present, 0-100 for valid values.
// This is used by dunstify with the -h int:value:N option.
func hintProgress(hints map[string]dbus.Variant) int {
	if v, ok := hints["value"]; ok {
		switch val := v.Value().(type) {
		case int32:
			return int(val)
		case uint32:
			return int(val)
		case int:
			return val
		case byte:
			return int(val)
		}
	}
	return notification.NoProgress
}

// hintRawImage extracts inline pixel data from the first image hint present.
func hintRawImage(hints map[string]dbus.Variant) *icon.RawImage {
	for _, key := range rawImageHints {
		if v, ok := hints[key]; ok {
			if raw := decodeRawImage(v); raw != nil {
				return raw
			}
		}
	}
	return nil
}

// decodeRawImage unpacks the (iiibiiay) image struct: width, height,
// rowstride, has_alpha, bits_per_sample, channels, data.
// Returns nil if the variant does not match that shape.
func decodeRawImage(v dbus.Variant) *icon.RawImage {
	fields, ok := v.Value().([]interface{})
	if !ok || len(fields) != 7 {
		return nil
	}

	width, ok0 := fields[0].(int32)
	height, ok1 := fields[1].(int32)
	rowStride, ok2 := fields[2].(int32)
	hasAlpha, ok3 := fields[3].(bool)
	bitsPerSample, ok4 := fields[4].(int32)
	channels, ok5 := fields[5].(int32)
	data, ok6 := fields[6].([]byte)
	if !ok0 || !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return nil
	}

	return &icon.RawImage{
		Width:         int(width),
		Height:        int(height),
		RowStride:     int(rowStride),
		HasAlpha:      hasAlpha,
		BitsPerSample: int(bitsPerSample),
		Channels:      int(channels),
		Data:          data,
	}
}
