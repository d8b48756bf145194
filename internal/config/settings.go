package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings are the player preferences kept between runs.
type Settings struct {
	SoundEnabled bool `yaml:"soundEnabled"`
}

// DefaultSettings returns the settings used when nothing was saved yet.
func DefaultSettings() Settings {
	return Settings{SoundEnabled: true}
}

const (
	settingsObject   = "settings"
	settingsProperty = "player"
)

// SettingsStore loads and saves Settings through gdata. A store without a
// gdata manager keeps settings in memory only.
type SettingsStore struct {
	data     *gdata.Manager
	settings Settings
	logger   *log.Logger
}

// OpenSettings opens the per-user data directory of app and loads any saved
// settings. When the directory is unavailable the store falls back to
// memory and the error is returned alongside a usable store.
func OpenSettings(app string, logger *log.Logger) (*SettingsStore, error) {
	if logger == nil {
		logger = log.Default()
	}

	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		return NewSettingsStore(nil, logger), fmt.Errorf("failed to open settings storage: %w", err)
	}

	s := NewSettingsStore(m, logger)
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// NewSettingsStore wraps a gdata manager, which may be nil.
func NewSettingsStore(m *gdata.Manager, logger *log.Logger) *SettingsStore {
	if logger == nil {
		logger = log.Default()
	}
	return &SettingsStore{data: m, settings: DefaultSettings(), logger: logger}
}

// Load reads saved settings. Missing settings leave the defaults in place.
func (s *SettingsStore) Load() error {
	if s.data == nil || !s.data.ObjectPropExists(settingsObject, settingsProperty) {
		s.settings = DefaultSettings()
		return nil
	}

	raw, err := s.data.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		s.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		s.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	s.settings = loaded
	s.logger.Debug("settings loaded", "sound", loaded.SoundEnabled)
	return nil
}

// Save writes the current settings. It is a no-op for in-memory stores.
func (s *SettingsStore) Save() error {
	if s.data == nil {
		return nil
	}

	raw, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.data.SaveObjectProp(settingsObject, settingsProperty, raw); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Settings returns the current settings.
func (s *SettingsStore) Settings() Settings {
	return s.settings
}

// SetSoundEnabled updates the sound preference and saves it.
func (s *SettingsStore) SetSoundEnabled(on bool) error {
	s.settings.SoundEnabled = on
	return s.Save()
}
