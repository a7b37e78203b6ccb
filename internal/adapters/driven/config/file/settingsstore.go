// Package file provides a TOML-backed settings store for the harness's
// own configuration, kept apart from the stack env files.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsFileName is the TOML file holding harness settings.
const SettingsFileName = "config.toml"

// SettingsStore is a file-based implementation of driven.SettingsStore.
// Settings are stored as TOML in the bunkerctl config directory.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.bunkerctl/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".bunkerctl")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, SettingsFileName),
	}, nil
}

// Load reads settings from the TOML file. A missing file yields pure
// defaults; a partial file has its unset fields filled from
// domain.DefaultSettings.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.Settings{}

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No settings file yet, start from defaults.
	case err != nil:
		return domain.Settings{}, err
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return domain.Settings{}, fmt.Errorf("parse %s: %w", s.filePath, err)
		}
	}

	defaults := domain.DefaultSettings()
	if err := mergo.Merge(&settings, defaults); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

// Save persists the settings with restricted permissions.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
