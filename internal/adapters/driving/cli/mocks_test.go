package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// --- Fake services ---

type fakeLifecycle struct {
	calls       []string
	startedWith string
	stopVolumes bool
	statuses    []domain.ServiceStatus
	err         error
}

func (f *fakeLifecycle) Start(_ context.Context, profile string) error {
	f.calls = append(f.calls, "start")
	f.startedWith = profile
	return f.err
}

func (f *fakeLifecycle) Stop(_ context.Context, volumes bool) error {
	f.calls = append(f.calls, "stop")
	f.stopVolumes = volumes
	return f.err
}

func (f *fakeLifecycle) Restart(_ context.Context, profile string) error {
	f.calls = append(f.calls, "restart")
	f.startedWith = profile
	return f.err
}

func (f *fakeLifecycle) Logs(_ context.Context, service string, _ bool, w io.Writer) error {
	f.calls = append(f.calls, "logs:"+service)
	if f.err == nil {
		io.WriteString(w, "log line\n")
	}
	return f.err
}

func (f *fakeLifecycle) Status(_ context.Context) ([]domain.ServiceStatus, error) {
	f.calls = append(f.calls, "status")
	return f.statuses, f.err
}

type fakeInspector struct {
	cfg      domain.StackConfig
	raw      map[string]string
	profiles []domain.Profile
	err      error
}

func (f *fakeInspector) Effective(string) (domain.StackConfig, map[string]string, error) {
	return f.cfg, f.raw, f.err
}

func (f *fakeInspector) Profiles() ([]domain.Profile, error) {
	return f.profiles, f.err
}

func (f *fakeInspector) Profile(name string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.profiles {
		if f.profiles[i].Name == name {
			return &f.profiles[i], nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

type fakeHealthChecker struct {
	health *domain.StackHealth
	err    error
}

func (f *fakeHealthChecker) Check(context.Context) (*domain.StackHealth, error) {
	return f.health, f.err
}

func (f *fakeHealthChecker) Wait(context.Context, time.Duration) (*domain.StackHealth, error) {
	return f.health, f.err
}

type fakeBenchmarker struct {
	results []domain.BenchResult
	err     error
}

func (f *fakeBenchmarker) TTFT(context.Context, domain.BenchOptions) ([]domain.BenchResult, error) {
	return f.results, f.err
}

func (f *fakeBenchmarker) Generation(context.Context, domain.BenchOptions) ([]domain.BenchResult, error) {
	return f.results, f.err
}

func (f *fakeBenchmarker) History(_ context.Context, limit int) ([]domain.BenchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

type fakeRenderService struct {
	rendered []byte
	outPath  string
	err      error
	wrote    bool
}

func (f *fakeRenderService) Render(_ string, write bool) ([]byte, string, error) {
	f.wrote = write
	return f.rendered, f.outPath, f.err
}

func (f *fakeRenderService) Watch(_ string, _ func(error), done <-chan struct{}) error {
	if f.err != nil {
		return f.err
	}
	<-done
	return nil
}

// --- Harness ---

// withFakes installs fake services for one test and restores the
// previous wiring (and flag state) afterwards.
func withFakes(t *testing.T, lc *fakeLifecycle, insp *fakeInspector) {
	t.Helper()
	prevLifecycle := lifecycleService
	prevInspector := inspectorService
	prevRender := renderService
	prevHealth := healthChecker
	prevBench := benchmarker

	if lc != nil {
		lifecycleService = lc
	} else {
		lifecycleService = &fakeLifecycle{}
	}
	if insp != nil {
		inspectorService = insp
	}

	t.Cleanup(func() {
		lifecycleService = prevLifecycle
		inspectorService = prevInspector
		renderService = prevRender
		healthChecker = prevHealth
		benchmarker = prevBench
		resetFlags()
	})
}

func resetFlags() {
	flagVerbose = false
	flagStackDir = ""
	flagProfile = ""
	flagStopVolumes = false
	flagLogsFollow = false
	flagStatusWatch = false
	flagCheckWait = 0
	flagStartWait = 0
	flagRenderStdout = false
	flagRenderWatch = false
	flagConfigRaw = false
	flagBenchIterations = 0
	flagBenchRepeat = 0
	flagBenchMaxTokens = 0
	flagBenchPrompt = ""
	flagBenchLimit = 20
}

// execute runs the command tree with args and captures combined
// output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}
