package compose

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// fakeCompose writes an executable stub that stands in for the docker
// binary. The stub records its arguments and prints the given stdout.
func fakeCompose(t *testing.T, stdout string, exitCode int) (binary, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	binary = filepath.Join(dir, "docker")
	argsFile = filepath.Join(dir, "args")

	script := "#!/bin/sh\n" +
		"echo \"$@\" > " + argsFile + "\n" +
		"cat <<'EOF'\n" + stdout + "\nEOF\n" +
		"exit " + strconv.Itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(binary, []byte(script), 0755))
	return binary, argsFile
}

func recordedArgs(t *testing.T, argsFile string) string {
	t.Helper()
	raw, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return string(raw)
}

func TestRunner_Up_InvokesComposeUpDetached(t *testing.T) {
	binary, argsFile := fakeCompose(t, "", 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stdout = &bytes.Buffer{}
	r.Stderr = &bytes.Buffer{}

	err := r.Up(context.Background(), []string{"SERVED_MODEL_NAME=bunker-agent"})

	require.NoError(t, err)
	args := recordedArgs(t, argsFile)
	assert.Contains(t, args, "compose --file docker-compose.yaml --project-name bunker up -d --remove-orphans")
}

func TestRunner_Down_WithVolumes(t *testing.T) {
	binary, argsFile := fakeCompose(t, "", 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stdout = &bytes.Buffer{}
	r.Stderr = &bytes.Buffer{}

	require.NoError(t, r.Down(context.Background(), nil, true))

	assert.Contains(t, recordedArgs(t, argsFile), "down --remove-orphans --volumes")
}

func TestRunner_Logs_RejectsUnknownService(t *testing.T) {
	binary, _ := fakeCompose(t, "", 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")

	err := r.Logs(context.Background(), nil, "postgres", false, &bytes.Buffer{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}

func TestRunner_Logs_StreamsToWriter(t *testing.T) {
	binary, argsFile := fakeCompose(t, "engine | loading model", 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stderr = &bytes.Buffer{}

	var out bytes.Buffer
	require.NoError(t, r.Logs(context.Background(), nil, domain.ServiceEngine, false, &out))

	assert.Contains(t, out.String(), "loading model")
	assert.Contains(t, recordedArgs(t, argsFile), "logs --timestamps engine")
}

func TestRunner_PS_ParsesLineDelimitedJSON(t *testing.T) {
	stdout := `{"Name":"bunker-engine-1","Service":"engine","State":"running","Health":"healthy","Publishers":[{"URL":"127.0.0.1","TargetPort":8000,"PublishedPort":8000,"Protocol":"tcp"}]}
{"Name":"bunker-db-1","Service":"db","State":"running","Health":"","Publishers":null}
{"Name":"other-container","Service":"adminer","State":"running"}`
	binary, _ := fakeCompose(t, stdout, 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stderr = &bytes.Buffer{}

	statuses, err := r.PS(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, statuses, len(domain.AllServices()))

	byName := make(map[domain.ServiceName]domain.ServiceStatus)
	for _, s := range statuses {
		byName[s.Name] = s
	}

	engine := byName[domain.ServiceEngine]
	assert.Equal(t, domain.StateRunning, engine.State)
	assert.Equal(t, "healthy", engine.Health)
	assert.Equal(t, "127.0.0.1:8000->8000/tcp", engine.Ports)

	// Services compose did not report come back as missing.
	assert.Equal(t, domain.StateMissing, byName[domain.ServiceGateway].State)
	assert.Equal(t, domain.StateMissing, byName[domain.ServiceTracing].State)
}

func TestRunner_PS_ParsesArrayJSON(t *testing.T) {
	stdout := `[{"Name":"bunker-gateway-1","Service":"gateway","State":"exited","Health":""}]`
	binary, _ := fakeCompose(t, stdout, 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stderr = &bytes.Buffer{}

	statuses, err := r.PS(context.Background(), nil)

	require.NoError(t, err)
	for _, s := range statuses {
		if s.Name == domain.ServiceGateway {
			assert.Equal(t, domain.StateExited, s.State)
			assert.False(t, s.Up())
		}
	}
}

func TestRunner_PS_EmptyOutput(t *testing.T) {
	binary, _ := fakeCompose(t, "", 0)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stderr = &bytes.Buffer{}

	statuses, err := r.PS(context.Background(), nil)

	require.NoError(t, err)
	for _, s := range statuses {
		assert.Equal(t, domain.StateMissing, s.State)
	}
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	binary, _ := fakeCompose(t, "", 1)
	r := NewRunner(binary, "docker-compose.yaml", "bunker")
	r.Stdout = &bytes.Buffer{}
	r.Stderr = &bytes.Buffer{}

	err := r.Up(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrComposeFailed)
}
