package services

import (
	"fmt"
	"path/filepath"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/logger"
)

// Ensure RenderService implements the interface.
var _ driving.TemplateRenderer = (*RenderService)(nil)

// RenderService drives the render command: resolve configuration,
// substitute it into the gateway template, optionally keep doing so as
// the template changes.
type RenderService struct {
	settings domain.Settings
	loader   driven.ConfigLoader
	renderer driven.Renderer
	watcher  driven.RenderWatcher
}

// NewRenderService creates a render service. The watcher may be nil
// when watch mode is not needed.
func NewRenderService(
	settings domain.Settings,
	loader driven.ConfigLoader,
	renderer driven.Renderer,
	watcher driven.RenderWatcher,
) *RenderService {
	return &RenderService{
		settings: settings,
		loader:   loader,
		renderer: renderer,
		watcher:  watcher,
	}
}

// Render resolves configuration for profile and renders the gateway
// template. When write is true the result is also written to the
// generated config path; either way the rendered bytes and that path
// are returned.
func (s *RenderService) Render(profile string, write bool) ([]byte, string, error) {
	resolved, templatePath, outPath, err := s.resolve(profile)
	if err != nil {
		return nil, "", err
	}

	rendered, err := s.renderer.Render(templatePath, resolved.Raw)
	if err != nil {
		return nil, outPath, err
	}
	if write {
		// Persist the same bytes returned to the caller rather than
		// rendering a second time against a template that may have
		// changed in between.
		if err := s.renderer.WriteRendered(outPath, rendered); err != nil {
			return nil, outPath, err
		}
		logger.Debug("wrote %s", outPath)
	}
	return rendered, outPath, nil
}

// Watch re-renders to the generated config path on every template
// change until done closes.
func (s *RenderService) Watch(profile string, onResult func(error), done <-chan struct{}) error {
	if s.watcher == nil {
		return fmt.Errorf("watch mode not available")
	}
	resolved, templatePath, outPath, err := s.resolve(profile)
	if err != nil {
		return err
	}
	logger.Info("watching %s", templatePath)
	return s.watcher.Watch(templatePath, outPath, resolved.Raw, onResult, done)
}

func (s *RenderService) resolve(profile string) (*driven.ResolvedConfig, string, string, error) {
	if profile == "" {
		profile = s.settings.DefaultProfile
	}
	resolved, err := s.loader.Load(profile)
	if err != nil {
		return nil, "", "", fmt.Errorf("resolve configuration: %w", err)
	}
	templatePath := filepath.Join(s.settings.StackDir, resolved.Stack.Gateway.ConfigTemplate)
	outPath := filepath.Join(s.settings.StackDir, resolved.Stack.Gateway.GeneratedConfig)
	return resolved, templatePath, outPath, nil
}
