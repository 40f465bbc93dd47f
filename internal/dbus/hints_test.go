package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notui/internal/notification"
)

func TestHintUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: notification.UrgencyNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: notification.UrgencyLow,
		},
		{
			name:     "normal urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))},
			expected: notification.UrgencyNormal,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: notification.UrgencyCritical,
		},
		{
			name:     "wrong type returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: notification.UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hintUrgency(tt.hints))
		})
	}
}

func TestHintString(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		keys     []string
		expected string
	}{
		{
			name:     "no hints",
			hints:    nil,
			keys:     []string{"category"},
			expected: "",
		},
		{
			name:     "present",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant("email.arrived")},
			keys:     []string{"category"},
			expected: "email.arrived",
		},
		{
			name: "first key wins",
			hints: map[string]dbus.Variant{
				"x-notui-stack-tag": dbus.MakeVariant("new"),
				"x-dunst-stack-tag": dbus.MakeVariant("old"),
			},
			keys:     []string{"x-notui-stack-tag", "x-dunst-stack-tag"},
			expected: "new",
		},
		{
			name: "empty value falls through",
			hints: map[string]dbus.Variant{
				"image-path": dbus.MakeVariant(""),
				"image_path": dbus.MakeVariant("/tmp/icon.png"),
			},
			keys:     []string{"image-path", "image_path"},
			expected: "/tmp/icon.png",
		},
		{
			name:     "wrong type ignored",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant(int32(7))},
			keys:     []string{"category"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hintString(tt.hints, tt.keys...))
		})
	}
}

func TestHintBool(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected bool
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: false,
		},
		{
			name:     "bool true",
			hints:    map[string]dbus.Variant{"transient": dbus.MakeVariant(true)},
			expected: true,
		},
		{
			name:     "bool false",
			hints:    map[string]dbus.Variant{"transient": dbus.MakeVariant(false)},
			expected: false,
		},
		{
			name:     "byte one",
			hints:    map[string]dbus.Variant{"transient": dbus.MakeVariant(byte(1))},
			expected: true,
		},
		{
			name:     "int32 zero",
			hints:    map[string]dbus.Variant{"transient": dbus.MakeVariant(int32(0))},
			expected: false,
		},
		{
			name:     "uint32 nonzero",
			hints:    map[string]dbus.Variant{"transient": dbus.MakeVariant(uint32(2))},
			expected: true,
		},
		{
			name:     "wrong type returns false",
			hints:    map[string]dbus.Variant{"transient": dbus.MakeVariant("yes")},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hintBool(tt.hints, "transient"))
		})
	}
}

func TestHintProgress(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: notification.NoProgress,
		},
		{
			name:     "int32 value",
			hints:    map[string]dbus.Variant{"value": dbus.MakeVariant(int32(75))},
			expected: 75,
		},
		{
			name:     "uint32 value",
			hints:    map[string]dbus.Variant{"value": dbus.MakeVariant(uint32(33))},
			expected: 33,
		},
		{
			name:     "byte value",
			hints:    map[string]dbus.Variant{"value": dbus.MakeVariant(byte(100))},
			expected: 100,
		},
		{
			name:     "wrong type returns no progress",
			hints:    map[string]dbus.Variant{"value": dbus.MakeVariant("75%")},
			expected: notification.NoProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hintProgress(tt.hints))
		})
	}
}

func TestDecodeRawImage(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	valid := dbus.MakeVariant([]interface{}{
		int32(2), int32(2), int32(8), true, int32(8), int32(4), pixels,
	})

	t.Run("valid struct", func(t *testing.T) {
		raw := decodeRawImage(valid)
		require.NotNil(t, raw)
		assert.Equal(t, 2, raw.Width)
		assert.Equal(t, 2, raw.Height)
		assert.Equal(t, 8, raw.RowStride)
		assert.True(t, raw.HasAlpha)
		assert.Equal(t, 8, raw.BitsPerSample)
		assert.Equal(t, 4, raw.Channels)
		assert.Equal(t, pixels, raw.Data)
	})

	t.Run("wrong field count", func(t *testing.T) {
		v := dbus.MakeVariant([]interface{}{int32(2), int32(2)})
		assert.Nil(t, decodeRawImage(v))
	})

	t.Run("wrong field type", func(t *testing.T) {
		v := dbus.MakeVariant([]interface{}{
			"2", int32(2), int32(8), true, int32(8), int32(4), pixels,
		})
		assert.Nil(t, decodeRawImage(v))
	})

	t.Run("not a struct", func(t *testing.T) {
		assert.Nil(t, decodeRawImage(dbus.MakeVariant("image.png")))
	})
}

func TestDecodeNotifyDefaults(t *testing.T) {
	n, err := decodeNotify(42, "test-app", "dialog-information", "Summary", "Body", nil, nil, -1)
	require.NoError(t, err)

	assert.Equal(t, uint32(42), n.ID)
	assert.Equal(t, "test-app", n.AppName)
	assert.Equal(t, "Summary", n.Summary)
	assert.Equal(t, "Body", n.Body)
	assert.Equal(t, notification.UrgencyNormal, n.Urgency)
	assert.Equal(t, "dialog-information", n.Icon)
	assert.Nil(t, n.RawIcon)
	assert.Equal(t, notification.NoProgress, n.Progress)
	assert.Empty(t, n.Actions)
	assert.False(t, n.Transient)
	assert.False(t, n.SuppressSound)
	assert.Equal(t, time.Duration(-1), n.Timeout)
}

func TestDecodeNotifyHints(t *testing.T) {
	hints := map[string]dbus.Variant{
		"urgency":           dbus.MakeVariant(byte(2)),
		"category":          dbus.MakeVariant("device.error"),
		"fgcolor":           dbus.MakeVariant("#ffffff"),
		"bgcolor":           dbus.MakeVariant("#285577"),
		"frcolor":           dbus.MakeVariant("#4c7899"),
		"value":             dbus.MakeVariant(int32(60)),
		"x-notui-stack-tag": dbus.MakeVariant("volume"),
		"transient":         dbus.MakeVariant(int32(1)),
		"sound-file":        dbus.MakeVariant("/usr/share/sounds/bell.oga"),
		"suppress-sound":    dbus.MakeVariant(true),
	}

	n, err := decodeNotify(1, "test-app", "", "Summary", "Body", nil, hints, -1)
	require.NoError(t, err)

	assert.Equal(t, notification.UrgencyCritical, n.Urgency)
	assert.Equal(t, "device.error", n.Category)
	assert.Equal(t, "#ffffff", n.Foreground)
	assert.Equal(t, "#285577", n.Background)
	assert.Equal(t, "#4c7899", n.FrameColor)
	assert.Equal(t, 60, n.Progress)
	assert.Equal(t, "volume", n.StackTag)
	assert.True(t, n.Transient)
	assert.Equal(t, "/usr/share/sounds/bell.oga", n.SoundFile)
	assert.True(t, n.SuppressSound)
}

func TestDecodeNotifyIconPriority(t *testing.T) {
	t.Run("app_icon alone", func(t *testing.T) {
		n, err := decodeNotify(1, "app", "firefox", "s", "b", nil, nil, -1)
		require.NoError(t, err)
		assert.Equal(t, "firefox", n.Icon)
	})

	t.Run("image-path overrides app_icon", func(t *testing.T) {
		hints := map[string]dbus.Variant{"image-path": dbus.MakeVariant("/tmp/shot.png")}
		n, err := decodeNotify(1, "app", "firefox", "s", "b", nil, hints, -1)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/shot.png", n.Icon)
	})

	t.Run("legacy image_path accepted", func(t *testing.T) {
		hints := map[string]dbus.Variant{"image_path": dbus.MakeVariant("/tmp/shot.png")}
		n, err := decodeNotify(1, "app", "", "s", "b", nil, hints, -1)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/shot.png", n.Icon)
	})

	t.Run("image-data populates raw icon", func(t *testing.T) {
		hints := map[string]dbus.Variant{
			"image-data": dbus.MakeVariant([]interface{}{
				int32(1), int32(1), int32(4), true, int32(8), int32(4),
				[]byte{255, 255, 255, 255},
			}),
		}
		n, err := decodeNotify(1, "app", "firefox", "s", "b", nil, hints, -1)
		require.NoError(t, err)
		require.NotNil(t, n.RawIcon)
		assert.Equal(t, 1, n.RawIcon.Width)
		// The name still carries the fallback
		assert.Equal(t, "firefox", n.Icon)
	})
}

func TestDecodeNotifyStackTagPriority(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected string
	}{
		{
			name:     "none",
			hints:    nil,
			expected: "",
		},
		{
			name: "notui tag wins",
			hints: map[string]dbus.Variant{
				"x-notui-stack-tag": dbus.MakeVariant("a"),
				"x-dunst-stack-tag": dbus.MakeVariant("b"),
				"synchronous":       dbus.MakeVariant("c"),
			},
			expected: "a",
		},
		{
			name: "dunst tag beats synchronous",
			hints: map[string]dbus.Variant{
				"x-dunst-stack-tag": dbus.MakeVariant("b"),
				"synchronous":       dbus.MakeVariant("c"),
			},
			expected: "b",
		},
		{
			name:     "canonical name accepted",
			hints:    map[string]dbus.Variant{"x-canonical-private-synchronous": dbus.MakeVariant("d")},
			expected: "d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := decodeNotify(1, "app", "", "s", "b", nil, tt.hints, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.StackTag)
		})
	}
}

func TestDecodeNotifyTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  int32
		expected time.Duration
	}{
		{"server default", -1, -1},
		{"never expire", 0, 0},
		{"five seconds", 5000, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := decodeNotify(1, "app", "", "s", "b", nil, nil, tt.timeout)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.Timeout)
		})
	}
}

func TestDecodeNotifyActions(t *testing.T) {
	tests := []struct {
		name     string
		actions  []string
		expected []notification.Action
	}{
		{
			name:     "empty",
			actions:  nil,
			expected: nil,
		},
		{
			name:     "single action",
			actions:  []string{"default", "Open"},
			expected: []notification.Action{{Key: "default", Label: "Open"}},
		},
		{
			name:    "multiple actions",
			actions: []string{"default", "Open", "dismiss", "Dismiss"},
			expected: []notification.Action{
				{Key: "default", Label: "Open"},
				{Key: "dismiss", Label: "Dismiss"},
			},
		},
		{
			name:     "odd number (incomplete pair ignored)",
			actions:  []string{"default", "Open", "orphan"},
			expected: []notification.Action{{Key: "default", Label: "Open"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := decodeNotify(1, "app", "", "s", "b", tt.actions, nil, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.Actions)
		})
	}
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "notuid", info.Name)
	assert.Equal(t, "notui", info.Vendor)
	assert.Equal(t, "1.2", info.SpecVersion)
}

func TestServerCapabilities(t *testing.T) {
	assert.Contains(t, ServerCapabilities, "body")
	assert.Contains(t, ServerCapabilities, "body-markup")
	assert.Contains(t, ServerCapabilities, "persistence")
	// No invocation surface, so actions must not be advertised
	assert.NotContains(t, ServerCapabilities, "actions")
}
