package driving

import "github.com/bunker-stack/bunkerctl/internal/core/domain"

// ConfigInspector exposes the resolved configuration and the profile
// catalogue to the CLI.
type ConfigInspector interface {
	// Effective returns the merged stack config for a profile, with
	// the raw key set alongside. Secrets are the caller's problem to
	// redact; the yaml tags on domain.StackConfig already omit them.
	Effective(profile string) (domain.StackConfig, map[string]string, error)

	// Profiles lists the available profiles.
	Profiles() ([]domain.Profile, error)

	// Profile returns one profile's raw values.
	Profile(name string) (*domain.Profile, error)
}

// TemplateRenderer drives the render command.
type TemplateRenderer interface {
	// Render resolves configuration for profile, renders the gateway
	// template, and returns the rendered bytes and the output path it
	// would be (or was) written to. When write is false nothing
	// touches the filesystem.
	Render(profile string, write bool) ([]byte, string, error)

	// Watch re-renders on every template change until done closes.
	// Each render outcome is reported through onResult.
	Watch(profile string, onResult func(error), done <-chan struct{}) error
}
