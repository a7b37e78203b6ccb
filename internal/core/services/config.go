package services

import (
	"fmt"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
)

// Ensure InspectorService implements the interface.
var _ driving.ConfigInspector = (*InspectorService)(nil)

// InspectorService exposes the resolved configuration and the profile
// catalogue to the CLI.
type InspectorService struct {
	settings domain.Settings
	loader   driven.ConfigLoader
}

// NewInspectorService creates a config inspector.
func NewInspectorService(settings domain.Settings, loader driven.ConfigLoader) *InspectorService {
	return &InspectorService{settings: settings, loader: loader}
}

// Effective returns the merged stack config for a profile alongside
// the raw merged key set. An empty profile uses the configured
// default.
func (s *InspectorService) Effective(profile string) (domain.StackConfig, map[string]string, error) {
	if profile == "" {
		profile = s.settings.DefaultProfile
	}
	resolved, err := s.loader.Load(profile)
	if err != nil {
		return domain.StackConfig{}, nil, fmt.Errorf("resolve configuration: %w", err)
	}
	return resolved.Stack, resolved.Raw, nil
}

// Profiles lists the available profiles.
func (s *InspectorService) Profiles() ([]domain.Profile, error) {
	return s.loader.Profiles()
}

// Profile returns one profile's raw values.
func (s *InspectorService) Profile(name string) (*domain.Profile, error) {
	return s.loader.Profile(name)
}
