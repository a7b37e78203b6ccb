package domain

// Settings are the operator-level settings of the harness itself,
// stored as TOML in the bunkerctl config directory. They are distinct
// from the stack env files: settings say where the stack lives and how
// to drive it, env files say what the stack runs.
type Settings struct {
	// StackDir is the directory holding the compose file, env files,
	// profiles/ and templates/.
	StackDir string `toml:"stack_dir"`

	// ComposeFile is the compose file name within StackDir.
	ComposeFile string `toml:"compose_file"`

	// ProjectName is the compose project name, which prefixes container
	// names.
	ProjectName string `toml:"project_name"`

	// DefaultProfile is applied when no --profile flag is given. Empty
	// means base configuration only.
	DefaultProfile string `toml:"default_profile"`

	// ComposeBinary overrides the container orchestrator binary.
	// Default is "docker" (invoked as `docker compose`).
	ComposeBinary string `toml:"compose_binary"`
}

// DefaultSettings returns the settings used when the TOML file is
// absent or partial; unset fields are filled from here.
func DefaultSettings() Settings {
	return Settings{
		StackDir:      ".",
		ComposeFile:   "docker-compose.yaml",
		ProjectName:   "bunker",
		ComposeBinary: "docker",
	}
}
