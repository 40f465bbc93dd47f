// Package config handles notuid configuration: TOML loading with
// defaults, validation, window geometry parsing, and hot reload.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/notui/internal/markup"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "10s", "1m", "1h30m", or integer milliseconds for
// compatibility with dunst-style configs. A value of "0" or 0 means never.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds) for backwards compatibility
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	// Parse as duration string (e.g., "5s", "1m", "1h30m")
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Settings is the configuration for notuid.
// Loaded from ~/.config/notui/notuid.toml
type Settings struct {
	Display         DisplaySettings `toml:"display"`
	Icons           IconSettings    `toml:"icons"`
	History         HistorySettings `toml:"history"`
	Audio           AudioSettings   `toml:"audio"`
	UrgencyLow      UrgencySettings `toml:"urgency_low"`
	UrgencyNormal   UrgencySettings `toml:"urgency_normal"`
	UrgencyCritical UrgencySettings `toml:"urgency_critical"`
}

// DisplaySettings contains window placement and card layout settings.
type DisplaySettings struct {
	Geometry           string   `toml:"geometry"`            // "[width]x[height][+/-x+/-y]", width 0 = fit content, height = max visible (0 = unlimited)
	Monitor            int      `toml:"monitor"`             // 0 = primary, 1+ = specific monitor
	Font               string   `toml:"font"`                // Pango font description, e.g. "Monospace 8"
	Format             string   `toml:"format"`              // Card text template: %a %s %b %i %I %p
	Alignment          string   `toml:"alignment"`           // "left", "center", "right"
	Markup             string   `toml:"markup"`              // "full", "strip", "no"
	WordWrap           bool     `toml:"word_wrap"`           // Wrap long lines instead of ellipsizing
	Ellipsize          string   `toml:"ellipsize"`           // "start", "middle", "end" (used when word_wrap = false)
	IgnoreNewline      bool     `toml:"ignore_newline"`      // Collapse newlines in the rendered text
	LineHeight         int      `toml:"line_height"`         // Extra pixels between text lines
	NotificationHeight int      `toml:"notification_height"` // Minimum card height, 0 = fit content
	Padding            int      `toml:"padding"`             // Vertical padding inside a card
	HorizontalPadding  int      `toml:"horizontal_padding"`  // Horizontal padding inside a card
	SeparatorHeight    int      `toml:"separator_height"`    // Pixels between cards, 0 = none
	SeparatorColor     string   `toml:"separator_color"`     // "auto", "foreground", "frame", or "#RRGGBB"
	FrameWidth         int      `toml:"frame_width"`         // Border width around the stack, 0 = none
	FrameColor         string   `toml:"frame_color"`         // Frame color unless the urgency overrides it
	Shrink             bool     `toml:"shrink"`              // Shrink a fixed-width window to fit narrow content
	Sort               bool     `toml:"sort"`                // Order displayed cards by urgency
	IndicateHidden     bool     `toml:"indicate_hidden"`     // Show "(n more)" when notifications are queued
	StackDuplicates    bool     `toml:"stack_duplicates"`    // Fold identical notifications into one card with a count
	ShowAgeThreshold   Duration `toml:"show_age_threshold"`  // Append notification age past this, 0 = never
}

// IconSettings contains notification icon settings.
type IconSettings struct {
	Position string `toml:"position"` // "left", "right", "off"
	MaxSize  int    `toml:"max_size"` // Downscale icons larger than this, 0 = never
	Path     string `toml:"path"`     // Colon-separated icon search directories
}

// HistorySettings contains notification history settings.
type HistorySettings struct {
	Length int    `toml:"length"` // Max notifications kept in history
	File   string `toml:"file"`   // History file path, empty = default
}

// AudioSettings contains audio settings.
type AudioSettings struct {
	Enabled bool `toml:"enabled"`
	Volume  int  `toml:"volume"` // 0-100
}

// UrgencySettings contains the per-urgency card appearance and lifetime.
type UrgencySettings struct {
	Background string   `toml:"background"`  // Card background, "#RRGGBB"
	Foreground string   `toml:"foreground"`  // Card text color, "#RRGGBB"
	FrameColor string   `toml:"frame_color"` // Card frame color, empty = global frame_color
	Timeout    Duration `toml:"timeout"`     // 0 = never expire
	Sound      string   `toml:"sound"`       // Sound file played on arrival
}

// Alignment represents horizontal text alignment within a card.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ValidAlignments returns all valid alignment values.
func ValidAlignments() []Alignment {
	return []Alignment{AlignLeft, AlignCenter, AlignRight}
}

// EllipsizeMode represents where text is truncated when it does not fit.
type EllipsizeMode string

const (
	EllipsizeStart  EllipsizeMode = "start"
	EllipsizeMiddle EllipsizeMode = "middle"
	EllipsizeEnd    EllipsizeMode = "end"
)

// ValidEllipsizeModes returns all valid ellipsize values.
func ValidEllipsizeModes() []EllipsizeMode {
	return []EllipsizeMode{EllipsizeStart, EllipsizeMiddle, EllipsizeEnd}
}

// IconPosition represents where a notification icon is placed.
type IconPosition string

const (
	IconLeft  IconPosition = "left"
	IconRight IconPosition = "right"
	IconOff   IconPosition = "off"
)

// ValidIconPositions returns all valid icon position values.
func ValidIconPositions() []IconPosition {
	return []IconPosition{IconLeft, IconRight, IconOff}
}

// SeparatorColorPolicy represents how the separator line color is chosen.
type SeparatorColorPolicy string

const (
	SeparatorAuto       SeparatorColorPolicy = "auto"       // Contrast color derived from the card background
	SeparatorForeground SeparatorColorPolicy = "foreground" // Card text color
	SeparatorFrame      SeparatorColorPolicy = "frame"      // Frame color of the more urgent neighbor
	SeparatorCustom     SeparatorColorPolicy = "custom"     // Fixed color from the config value
)

// DefaultSettings returns a new Settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Display: DisplaySettings{
			Geometry:           "300x5-30+20",
			Monitor:            0,
			Font:               "Monospace 8",
			Format:             "%s %b",
			Alignment:          string(AlignLeft),
			Markup:             string(markup.ModeFull),
			WordWrap:           true,
			Ellipsize:          string(EllipsizeMiddle),
			IgnoreNewline:      false,
			LineHeight:         0,
			NotificationHeight: 0,
			Padding:            8,
			HorizontalPadding:  8,
			SeparatorHeight:    2,
			SeparatorColor:     string(SeparatorAuto),
			FrameWidth:         3,
			FrameColor:         "#aaaaaa",
			Shrink:             false,
			Sort:               true,
			IndicateHidden:     true,
			StackDuplicates:    true,
			ShowAgeThreshold:   Duration(time.Minute),
		},
		Icons: IconSettings{
			Position: string(IconLeft),
			MaxSize:  32,
			Path:     "/usr/share/icons/hicolor/32x32/apps:/usr/share/icons/hicolor/scalable/apps:/usr/share/pixmaps",
		},
		History: HistorySettings{
			Length: 100,
			File:   "", // HistoryPath() when empty
		},
		Audio: AudioSettings{
			Enabled: true,
			Volume:  80,
		},
		UrgencyLow: UrgencySettings{
			Background: "#222222",
			Foreground: "#888888",
			Timeout:    Duration(5 * time.Second),
		},
		UrgencyNormal: UrgencySettings{
			Background: "#285577",
			Foreground: "#ffffff",
			Timeout:    Duration(10 * time.Second),
		},
		UrgencyCritical: UrgencySettings{
			Background: "#900000",
			Foreground: "#ffffff",
			FrameColor: "#ff0000",
			Timeout:    Duration(0), // Never expires
		},
	}
}

// SettingsPath returns the path to the daemon config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func SettingsPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "notui", "notuid.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "notui")
}

// HistoryPath returns the default path to the history JSONL file.
func HistoryPath() string {
	return filepath.Join(DataPath(), "history.jsonl")
}

// Load loads settings from the specified path.
// If path is empty, uses the default settings path.
// Returns default settings if the file doesn't exist.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = SettingsPath()
	}

	// Start with defaults, then overlay with file contents
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

// Save writes the settings to the specified path.
// Creates parent directories if needed.
func Save(settings *Settings, path string) error {
	if path == "" {
		path = SettingsPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the settings are valid.
func (s *Settings) Validate() error {
	if _, err := ParseGeometry(s.Display.Geometry); err != nil {
		return fmt.Errorf("invalid geometry: %w", err)
	}

	validAlign := false
	for _, a := range ValidAlignments() {
		if s.Display.Alignment == string(a) {
			validAlign = true
			break
		}
	}
	if !validAlign {
		return fmt.Errorf("invalid alignment %q, must be one of: %v", s.Display.Alignment, ValidAlignments())
	}

	validEllipsize := false
	for _, e := range ValidEllipsizeModes() {
		if s.Display.Ellipsize == string(e) {
			validEllipsize = true
			break
		}
	}
	if !validEllipsize {
		return fmt.Errorf("invalid ellipsize %q, must be one of: %v", s.Display.Ellipsize, ValidEllipsizeModes())
	}

	if !markup.ValidMode(markup.Mode(s.Display.Markup)) {
		return fmt.Errorf("invalid markup mode %q, must be one of: full, strip, no", s.Display.Markup)
	}

	validIconPos := false
	for _, p := range ValidIconPositions() {
		if s.Icons.Position == string(p) {
			validIconPos = true
			break
		}
	}
	if !validIconPos {
		return fmt.Errorf("invalid icon position %q, must be one of: %v", s.Icons.Position, ValidIconPositions())
	}

	for name, v := range map[string]int{
		"padding":             s.Display.Padding,
		"horizontal_padding":  s.Display.HorizontalPadding,
		"separator_height":    s.Display.SeparatorHeight,
		"frame_width":         s.Display.FrameWidth,
		"notification_height": s.Display.NotificationHeight,
		"line_height":         s.Display.LineHeight,
		"max_size":            s.Icons.MaxSize,
		"length":              s.History.Length,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}

	if s.Audio.Volume < 0 || s.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", s.Audio.Volume)
	}

	return nil
}

// ParsedGeometry returns the parsed window geometry.
// Settings that passed Validate always parse.
func (s *Settings) ParsedGeometry() Geometry {
	g, _ := ParseGeometry(s.Display.Geometry)
	return g
}

// MarkupMode returns the body markup mode.
func (s *Settings) MarkupMode() markup.Mode {
	return markup.Mode(s.Display.Markup)
}

// SeparatorColorPolicy returns the separator color policy and, for the
// custom policy, the configured color string.
func (s *Settings) SeparatorColorPolicy() (SeparatorColorPolicy, string) {
	v := s.Display.SeparatorColor
	if strings.HasPrefix(v, "#") {
		return SeparatorCustom, v
	}
	switch SeparatorColorPolicy(v) {
	case SeparatorAuto, SeparatorForeground, SeparatorFrame:
		return SeparatorColorPolicy(v), ""
	}
	// Unknown policy: resolved to a fallback at render time, with a warning.
	return SeparatorColorPolicy(v), ""
}

// ColorsForUrgency returns the appearance settings for the given urgency level.
func (s *Settings) ColorsForUrgency(urgency int) UrgencySettings {
	switch urgency {
	case 0: // Low
		return s.UrgencyLow
	case 2: // Critical
		return s.UrgencyCritical
	default: // Normal (1) or unknown
		return s.UrgencyNormal
	}
}

// FrameColorForUrgency returns the frame color for the given urgency
// level, falling back to the global frame color when the tier does not
// set one.
func (s *Settings) FrameColorForUrgency(urgency int) string {
	if c := s.ColorsForUrgency(urgency).FrameColor; c != "" {
		return c
	}
	return s.Display.FrameColor
}

// TimeoutForUrgency returns the display lifetime for the given urgency level.
func (s *Settings) TimeoutForUrgency(urgency int) time.Duration {
	return s.ColorsForUrgency(urgency).Timeout.Duration()
}

// SoundForUrgency returns the sound file path for the given urgency level.
// Expands ~ to home directory.
func (s *Settings) SoundForUrgency(urgency int) string {
	return ExpandPath(s.ColorsForUrgency(urgency).Sound)
}

// IconSearchPath returns the icon search directories in order, with ~
// expanded.
func (s *Settings) IconSearchPath() []string {
	var dirs []string
	for _, dir := range strings.Split(s.Icons.Path, ":") {
		if dir == "" {
			continue
		}
		dirs = append(dirs, ExpandPath(dir))
	}
	return dirs
}

// HistoryFile returns the configured history file path, or the default
// when unset.
func (s *Settings) HistoryFile() string {
	if s.History.File == "" {
		return HistoryPath()
	}
	return ExpandPath(s.History.File)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
