package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/logger"
)

// Ensure LifecycleService implements the interface.
var _ driving.Lifecycle = (*LifecycleService)(nil)

// Pre-start cleanup parameters. The engine occasionally leaves worker
// processes and shared-memory segments behind when a container is
// killed rather than stopped; a fresh start reclaims both.
var (
	strayProcessPatterns = []string{"vllm"}
	sharedMemoryPrefixes = []string{"vllm", "nccl", "torch_", "cuda.shm"}
)

// strayKillGrace is how long a stray process gets to exit after
// SIGTERM before SIGKILL.
const strayKillGrace = 10 * time.Second

// LifecycleService orchestrates the stack: resolve configuration,
// render the gateway config, clean up leftovers, then drive the
// orchestrator.
type LifecycleService struct {
	settings domain.Settings
	loader   driven.ConfigLoader
	renderer driven.Renderer
	cleaner  driven.ProcessCleaner
	compose  driven.ComposeRunner
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(
	settings domain.Settings,
	loader driven.ConfigLoader,
	renderer driven.Renderer,
	cleaner driven.ProcessCleaner,
	compose driven.ComposeRunner,
) *LifecycleService {
	return &LifecycleService{
		settings: settings,
		loader:   loader,
		renderer: renderer,
		cleaner:  cleaner,
		compose:  compose,
	}
}

// Start resolves configuration, renders the gateway config, runs
// pre-start cleanup, and brings the stack up detached. An empty
// profile falls back to the configured default profile.
func (s *LifecycleService) Start(ctx context.Context, profile string) error {
	resolved, err := s.resolve(profile)
	if err != nil {
		return err
	}
	logger.Info("starting stack (profile %q, model %s)",
		resolved.Profile, resolved.Stack.Model.ServedName)

	// The gateway container mounts the generated config, so render
	// must precede up on every start. A stale render from a previous
	// profile would silently misroute requests.
	templatePath := filepath.Join(s.settings.StackDir, resolved.Stack.Gateway.ConfigTemplate)
	outPath := filepath.Join(s.settings.StackDir, resolved.Stack.Gateway.GeneratedConfig)
	if err := s.renderer.RenderToFile(templatePath, outPath, resolved.Raw); err != nil {
		return fmt.Errorf("render gateway config: %w", err)
	}
	logger.Debug("rendered %s from %s", outPath, templatePath)

	s.cleanup(ctx)

	if err := s.compose.Up(ctx, resolved.Environ()); err != nil {
		return fmt.Errorf("compose up: %w", err)
	}
	return nil
}

// Stop brings the stack down. When volumes is true, named volumes are
// removed too, losing the tracing database.
func (s *LifecycleService) Stop(ctx context.Context, volumes bool) error {
	resolved, err := s.resolve("")
	if err != nil {
		return err
	}
	if err := s.compose.Down(ctx, resolved.Environ(), volumes); err != nil {
		return fmt.Errorf("compose down: %w", err)
	}
	return nil
}

// Restart is Stop followed by Start with the same profile.
func (s *LifecycleService) Restart(ctx context.Context, profile string) error {
	if err := s.Stop(ctx, false); err != nil {
		return err
	}
	return s.Start(ctx, profile)
}

// Logs streams service logs to w. Empty service selects all services.
func (s *LifecycleService) Logs(ctx context.Context, service string, follow bool, w io.Writer) error {
	if service != "" && !domain.ValidService(service) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownService, service)
	}
	resolved, err := s.resolve("")
	if err != nil {
		return err
	}
	return s.compose.Logs(ctx, resolved.Environ(), domain.ServiceName(service), follow, w)
}

// Status reports the per-service container state.
func (s *LifecycleService) Status(ctx context.Context) ([]domain.ServiceStatus, error) {
	resolved, err := s.resolve("")
	if err != nil {
		return nil, err
	}
	return s.compose.PS(ctx, resolved.Environ())
}

// resolve loads the configuration for profile, substituting the
// configured default profile for an empty name.
func (s *LifecycleService) resolve(profile string) (*driven.ResolvedConfig, error) {
	if profile == "" {
		profile = s.settings.DefaultProfile
	}
	resolved, err := s.loader.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("resolve configuration: %w", err)
	}
	return resolved, nil
}

// cleanup removes leftovers of a previous engine run. Failures are
// logged and never abort a start.
func (s *LifecycleService) cleanup(ctx context.Context) {
	report, err := s.cleaner.KillStray(ctx, strayProcessPatterns, strayKillGrace)
	if err != nil {
		logger.Warn("stray process cleanup failed: %v", err)
	} else if !report.Empty() {
		logger.Info("terminated %d stray processes (%d killed)",
			len(report.Terminated)+len(report.Killed), len(report.Killed))
	}

	report, err = s.cleaner.SweepSharedMemory(sharedMemoryPrefixes)
	if err != nil {
		logger.Warn("shared memory sweep failed: %v", err)
	} else if len(report.Removed) > 0 {
		logger.Info("removed %d stale shared memory files", len(report.Removed))
	}
	if report != nil {
		for _, skip := range report.Skipped {
			logger.Debug("cleanup skipped: %s", skip)
		}
	}
}
