package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// BaseFileName is the base env file within the stack directory.
const BaseFileName = "stack.env"

// ProfilesDirName is the profiles subdirectory within the stack directory.
const ProfilesDirName = "profiles"

// Ensure Loader implements the interface.
var _ driven.ConfigLoader = (*Loader)(nil)

// Loader reads and overlays the stack's dotenv configuration.
type Loader struct {
	stackDir string
}

// NewLoader creates a loader rooted at the stack directory.
func NewLoader(stackDir string) *Loader {
	return &Loader{stackDir: stackDir}
}

// Load resolves the configuration for the given profile name.
func (l *Loader) Load(profile string) (*driven.ResolvedConfig, error) {
	v := viper.New()
	v.SetConfigType("env")

	basePath := filepath.Join(l.stackDir, BaseFileName)
	if _, err := os.Stat(basePath); err == nil {
		v.SetConfigFile(basePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading base env file %s: %w", basePath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking base env file %s: %w", basePath, err)
	}

	if profile != "" {
		p, err := l.Profile(profile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(p.Path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging profile %s: %w", profile, err)
		}
	}

	cfg, err := l.typedView(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	raw := rawView(v)
	// Process environment wins for passthrough keys too, matching the
	// shell behaviour of exporting over a sourced file.
	for key := range raw {
		if val, ok := os.LookupEnv(key); ok {
			raw[key] = val
		}
	}
	// The canonical pairs reflect all four layers; overlay them last so
	// the raw view and the typed view never disagree on modelled keys.
	for k, val := range cfg.Pairs() {
		raw[k] = val
	}

	return &driven.ResolvedConfig{
		Stack:   cfg,
		Raw:     raw,
		Profile: profile,
	}, nil
}

// Profiles lists the available profile files, sorted by name.
func (l *Loader) Profiles() ([]domain.Profile, error) {
	dir := filepath.Join(l.stackDir, ProfilesDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var profiles []domain.Profile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".env") {
			continue
		}
		p, err := l.Profile(strings.TrimSuffix(name, ".env"))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// Profile returns one profile's raw values.
func (l *Loader) Profile(name string) (*domain.Profile, error) {
	path := filepath.Join(l.stackDir, ProfilesDirName, name+".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q (available: %s)",
				domain.ErrProfileNotFound, name, strings.Join(l.profileNames(), ", "))
		}
		return nil, fmt.Errorf("checking profile %s: %w", name, err)
	}

	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", name, err)
	}

	return &domain.Profile{
		Name:   name,
		Path:   path,
		Values: rawView(v),
	}, nil
}

// typedView layers defaults, file values, and process-environment
// overrides into the typed config.
//
// Defaults are registered per key, not merged struct-to-struct: a
// struct merge cannot tell an explicitly empty value from an absent
// one, and `QUANTIZATION=` in an env file must win over the built-in
// default the same way it would under shell `source` semantics.
func (l *Loader) typedView(v *viper.Viper) (domain.StackConfig, error) {
	for key, val := range domain.DefaultStackConfig().Pairs() {
		v.SetDefault(key, val)
	}

	var cfg domain.StackConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.StackConfig{}, fmt.Errorf("decoding env files: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return domain.StackConfig{}, fmt.Errorf("applying environment overrides: %w", err)
	}
	return cfg, nil
}

// profileNames returns the available profile names for error messages.
func (l *Loader) profileNames() []string {
	profiles, err := l.Profiles()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names
}

// rawView flattens viper's merged key set back into upper-case env
// keys. Viper lower-cases keys internally; env files are upper-case by
// convention.
func rawView(v *viper.Viper) map[string]string {
	raw := make(map[string]string)
	for _, key := range v.AllKeys() {
		raw[strings.ToUpper(key)] = v.GetString(key)
	}
	return raw
}
