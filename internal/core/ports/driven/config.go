package driven

import "github.com/bunker-stack/bunkerctl/internal/core/domain"

// ConfigLoader assembles the stack configuration from env files.
//
// Layering, lowest to highest priority: built-in defaults, the base env
// file, the selected profile file, the process environment. The raw
// merged key set (including keys the typed config does not model) is
// preserved for passthrough to the orchestrator.
type ConfigLoader interface {
	// Load resolves the configuration for the given profile name.
	// An empty profile name loads the base configuration only.
	// A missing base file is not an error; defaults apply.
	Load(profile string) (*ResolvedConfig, error)

	// Profiles lists the available profile files.
	Profiles() ([]domain.Profile, error)

	// Profile returns one profile's raw values.
	// Returns domain.ErrProfileNotFound for unknown names.
	Profile(name string) (*domain.Profile, error)
}

// ResolvedConfig is the outcome of one Load call.
type ResolvedConfig struct {
	// Stack is the typed, validated view of the merged configuration.
	Stack domain.StackConfig

	// Raw is the merged key/value set: base file, overlaid with the
	// profile, overlaid with process-environment overrides, plus the
	// canonical pairs of Stack. Passed to the orchestrator verbatim.
	Raw map[string]string

	// Profile is the applied profile name, empty for base only.
	Profile string
}

// Environ flattens the raw merged key set into a sorted KEY=VALUE
// slice for exec.Cmd.Env.
func (r *ResolvedConfig) Environ() []string {
	return domain.SortedEnviron(r.Raw)
}
