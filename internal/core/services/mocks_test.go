package services

import (
	"context"
	"io"
	"time"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockConfigLoader implements driven.ConfigLoader for testing.
type mockConfigLoader struct {
	resolved    *driven.ResolvedConfig
	loadErr     error
	profiles    []domain.Profile
	loadedWith  []string
	profilesErr error
}

func (m *mockConfigLoader) Load(profile string) (*driven.ResolvedConfig, error) {
	m.loadedWith = append(m.loadedWith, profile)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.resolved != nil {
		resolved := *m.resolved
		resolved.Profile = profile
		return &resolved, nil
	}
	cfg := domain.DefaultStackConfig()
	return &driven.ResolvedConfig{Stack: cfg, Raw: cfg.Pairs(), Profile: profile}, nil
}

func (m *mockConfigLoader) Profiles() ([]domain.Profile, error) {
	return m.profiles, m.profilesErr
}

func (m *mockConfigLoader) Profile(name string) (*domain.Profile, error) {
	for i := range m.profiles {
		if m.profiles[i].Name == name {
			return &m.profiles[i], nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

// mockRenderer implements driven.Renderer for testing.
type mockRenderer struct {
	rendered    []byte
	renderErr   error
	renderCalls int
	wroteTo     []string
	wroteData   [][]byte
	sawVars     map[string]string
}

func (m *mockRenderer) Render(_ string, vars map[string]string) ([]byte, error) {
	m.renderCalls++
	m.sawVars = vars
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return m.rendered, nil
}

func (m *mockRenderer) RenderToFile(_ string, outPath string, vars map[string]string) error {
	m.renderCalls++
	m.sawVars = vars
	if m.renderErr != nil {
		return m.renderErr
	}
	m.wroteTo = append(m.wroteTo, outPath)
	return nil
}

func (m *mockRenderer) WriteRendered(outPath string, data []byte) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	m.wroteTo = append(m.wroteTo, outPath)
	m.wroteData = append(m.wroteData, data)
	return nil
}

// mockCleaner implements driven.ProcessCleaner for testing.
type mockCleaner struct {
	killReport  *driven.CleanupReport
	sweepReport *driven.CleanupReport
	killErr     error
	sweepErr    error
	killedWith  []string
	sweptWith   []string
}

func (m *mockCleaner) KillStray(_ context.Context, patterns []string, _ time.Duration) (*driven.CleanupReport, error) {
	m.killedWith = patterns
	if m.killErr != nil {
		return nil, m.killErr
	}
	if m.killReport != nil {
		return m.killReport, nil
	}
	return &driven.CleanupReport{}, nil
}

func (m *mockCleaner) SweepSharedMemory(prefixes []string) (*driven.CleanupReport, error) {
	m.sweptWith = prefixes
	if m.sweepErr != nil {
		return nil, m.sweepErr
	}
	if m.sweepReport != nil {
		return m.sweepReport, nil
	}
	return &driven.CleanupReport{}, nil
}

// mockCompose implements driven.ComposeRunner for testing. It records
// the order of invocations to verify orchestration sequencing.
type mockCompose struct {
	calls    []string
	statuses []domain.ServiceStatus
	upErr    error
	downErr  error
	logsErr  error
	psErr    error
	sawEnv   []string
	downVols bool
}

func (m *mockCompose) Up(_ context.Context, env []string) error {
	m.calls = append(m.calls, "up")
	m.sawEnv = env
	return m.upErr
}

func (m *mockCompose) Down(_ context.Context, env []string, volumes bool) error {
	m.calls = append(m.calls, "down")
	m.sawEnv = env
	m.downVols = volumes
	return m.downErr
}

func (m *mockCompose) Logs(_ context.Context, _ []string, service domain.ServiceName, _ bool, w io.Writer) error {
	m.calls = append(m.calls, "logs:"+string(service))
	return m.logsErr
}

func (m *mockCompose) PS(_ context.Context, _ []string) ([]domain.ServiceStatus, error) {
	m.calls = append(m.calls, "ps")
	return m.statuses, m.psErr
}

// mockProber implements driven.Prober for testing.
type mockProber struct {
	service domain.ServiceName
	// states is consumed one per Probe call; the last entry repeats.
	states []domain.HealthState
	calls  int
}

func (m *mockProber) Service() domain.ServiceName { return m.service }

func (m *mockProber) Probe(_ context.Context) domain.ServiceHealth {
	idx := m.calls
	if idx >= len(m.states) {
		idx = len(m.states) - 1
	}
	m.calls++
	state := domain.HealthHealthy
	if len(m.states) > 0 {
		state = m.states[idx]
	}
	return domain.ServiceHealth{
		Service:   m.service,
		State:     state,
		CheckedAt: time.Now(),
	}
}

// mockGateway implements driven.GatewayClient for testing.
type mockGateway struct {
	ttft      time.Duration
	total     time.Duration
	stats     *driven.CompletionStats
	streamErr error
	compErr   error
	sawReqs   []driven.ChatRequest
}

func (m *mockGateway) StreamFirstToken(_ context.Context, req driven.ChatRequest) (time.Duration, time.Duration, error) {
	m.sawReqs = append(m.sawReqs, req)
	if m.streamErr != nil {
		return 0, 0, m.streamErr
	}
	return m.ttft, m.total, nil
}

func (m *mockGateway) Complete(_ context.Context, req driven.ChatRequest) (*driven.CompletionStats, error) {
	m.sawReqs = append(m.sawReqs, req)
	if m.compErr != nil {
		return nil, m.compErr
	}
	return m.stats, nil
}

// mockBenchStore implements driven.BenchStore for testing.
type mockBenchStore struct {
	recorded  []domain.BenchResult
	recordErr error
	listErr   error
}

func (m *mockBenchStore) Record(_ context.Context, result *domain.BenchResult) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, *result)
	return nil
}

func (m *mockBenchStore) List(_ context.Context, limit int) ([]domain.BenchResult, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit < len(m.recorded) {
		return m.recorded[:limit], nil
	}
	return m.recorded, nil
}

func (m *mockBenchStore) Close() error { return nil }

// mockWatcher implements driven.RenderWatcher for testing.
type mockWatcher struct {
	watchErr error
	saw      struct {
		template string
		out      string
	}
}

func (m *mockWatcher) Watch(templatePath, outPath string, _ map[string]string, _ func(error), done <-chan struct{}) error {
	m.saw.template = templatePath
	m.saw.out = outPath
	if m.watchErr != nil {
		return m.watchErr
	}
	<-done
	return nil
}
