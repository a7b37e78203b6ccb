package driven

import "github.com/bunker-stack/bunkerctl/internal/core/domain"

// SettingsStore persists the harness's own settings (stack location,
// compose binary, default profile). Backed by a TOML file in the
// bunkerctl config directory.
type SettingsStore interface {
	// Load returns the stored settings with unset fields filled from
	// domain.DefaultSettings. A missing file yields pure defaults.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(domain.Settings) error

	// Path returns the settings file path.
	Path() string
}
