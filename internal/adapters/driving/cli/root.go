// Package cli implements the bunkerctl command tree. Commands talk to
// the core services through the driving ports, so tests can swap in
// fakes via the package-level service variables.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/compose"
	configfile "github.com/bunker-stack/bunkerctl/internal/adapters/driven/config/file"
	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/envfile"
	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/procs"
	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/render"
	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/core/services"
	"github.com/bunker-stack/bunkerctl/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose  bool
	flagStackDir string
	flagProfile  string
)

// Services behind the commands. Wired by initHarness on first run;
// tests inject fakes before calling Execute.
var (
	lifecycleService driving.Lifecycle
	inspectorService driving.ConfigInspector
	renderService    driving.TemplateRenderer

	// harnessSettings is the loaded settings with flag overrides
	// applied. Commands that build per-config services (check, bench)
	// read it.
	harnessSettings domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "bunkerctl",
	Short: "Deployment harness for the bunker inference stack",
	Long: `bunkerctl manages a self-hosted LLM stack: the inference engine,
the OpenAI-compatible proxy gateway, the tracing UI and its database.

Configuration lives in env files inside the stack directory: stack.env
holds the base values and profiles/<name>.env overlays them. The
gateway config is rendered from a template before every start.`,
	SilenceUsage:      true,
	PersistentPreRunE: initHarness,
}

// Execute runs the command tree. The version string is stamped by the
// build.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagStackDir, "stack-dir", "",
		"stack directory (overrides the stored setting)")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "",
		"profile to overlay on the base configuration")
}

// initHarness loads settings and wires the real services. Already-set
// service variables are left alone so tests keep their fakes.
func initHarness(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if lifecycleService != nil {
		return nil
	}

	store, err := configfile.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if flagStackDir != "" {
		settings.StackDir = flagStackDir
	}
	harnessSettings = settings

	loader := envfile.NewLoader(settings.StackDir)
	renderer := render.NewRenderer()
	cleaner := procs.NewCleaner("")
	runner := compose.NewRunner(
		settings.ComposeBinary,
		filepath.Join(settings.StackDir, settings.ComposeFile),
		settings.ProjectName,
	)

	lifecycleService = services.NewLifecycleService(settings, loader, renderer, cleaner, runner)
	inspectorService = services.NewInspectorService(settings, loader)
	renderService = services.NewRenderService(settings, loader, renderer, renderer)
	return nil
}
