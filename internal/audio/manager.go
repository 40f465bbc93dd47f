package audio

import (
	"log/slog"

	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/notification"
)

// Manager decides what to play for a notification: the sound-file hint when
// present, otherwise the sound configured for its urgency. Like the queue it
// is only ever called from the main loop.
type Manager struct {
	logger   *slog.Logger
	player   *Player
	settings *config.Settings
}

// NewManager creates a new audio manager.
func NewManager(settings *config.Settings, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:   logger,
		player:   NewPlayer(logger),
		settings: settings,
	}
	m.applySettings()

	return m
}

// applySettings pushes volume to the player and preloads the per-urgency
// sounds.
func (m *Manager) applySettings() {
	if !m.settings.Audio.Enabled {
		return
	}

	// Config uses 0-100, player uses 0.0-1.0
	m.player.SetVolume(float64(m.settings.Audio.Volume) / 100.0)

	urgencies := []int{
		notification.UrgencyLow,
		notification.UrgencyNormal,
		notification.UrgencyCritical,
	}
	for _, urgency := range urgencies {
		path := m.settings.SoundForUrgency(urgency)
		if path == "" {
			continue
		}
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "urgency", urgency, "path", path, "error", err)
		}
	}
}

// Play plays the sound for a notification. Honors the suppress-sound hint
// and the global audio switch; missing sound files only log.
func (m *Manager) Play(n *notification.Notification) {
	if !m.settings.Audio.Enabled || n.SuppressSound {
		return
	}

	path := config.ExpandPath(n.SoundFile)
	if path == "" {
		path = m.settings.SoundForUrgency(n.Urgency)
	}
	if path == "" {
		return
	}

	if err := m.player.Play(path); err != nil {
		m.logger.Warn("failed to play sound", "path", path, "error", err)
	}
}

// Reconfigure swaps the settings after a config reload and rebuilds the
// sound cache.
func (m *Manager) Reconfigure(settings *config.Settings) {
	m.settings = settings
	m.player.ClearCache()
	m.applySettings()
	m.logger.Debug("audio manager reconfigured")
}

// Stop shuts down playback and releases the speaker.
func (m *Manager) Stop() {
	m.player.Close()
}
