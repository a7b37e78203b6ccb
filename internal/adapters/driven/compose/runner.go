// Package compose implements driven.ComposeRunner by executing the
// `docker compose` CLI against the stack's compose file.
//
// The adapter shells out rather than talking to the daemon API: the
// compose file is the interface the rest of the stack is defined in,
// and the CLI owns variable substitution, dependency ordering, and
// image pulls. The harness only supplies the resolved environment.
package compose

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// Ensure Runner implements the interface.
var _ driven.ComposeRunner = (*Runner)(nil)

// Runner executes compose subcommands for one project.
type Runner struct {
	binary      string
	composeFile string
	project     string

	// Stdout and Stderr receive the orchestrator's output for the
	// streaming subcommands (up, down). Default os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a runner. The binary is invoked as
// "<binary> compose"; empty means "docker".
func NewRunner(binary, composeFile, project string) *Runner {
	if binary == "" {
		binary = "docker"
	}
	return &Runner{
		binary:      binary,
		composeFile: composeFile,
		project:     project,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// Up starts the stack detached.
func (r *Runner) Up(ctx context.Context, env []string) error {
	return r.run(ctx, env, r.Stdout, "up", "-d", "--remove-orphans")
}

// Down stops and removes the stack's containers.
func (r *Runner) Down(ctx context.Context, env []string, volumes bool) error {
	args := []string{"down", "--remove-orphans"}
	if volumes {
		args = append(args, "--volumes")
	}
	return r.run(ctx, env, r.Stdout, args...)
}

// Logs streams service logs to w.
func (r *Runner) Logs(ctx context.Context, env []string, service domain.ServiceName, follow bool, w io.Writer) error {
	args := []string{"logs", "--timestamps"}
	if follow {
		args = append(args, "--follow")
	}
	if service != "" {
		if !domain.ValidService(string(service)) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownService, service)
		}
		args = append(args, string(service))
	}
	return r.run(ctx, env, w, args...)
}

// PS reports the state of every catalogue service.
func (r *Runner) PS(ctx context.Context, env []string) ([]domain.ServiceStatus, error) {
	var out bytes.Buffer
	if err := r.run(ctx, env, &out, "ps", "--all", "--format", "json"); err != nil {
		return nil, err
	}

	found, err := parsePS(out.Bytes())
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.ServiceStatus, 0, len(domain.AllServices()))
	for _, name := range domain.AllServices() {
		if status, ok := found[name]; ok {
			statuses = append(statuses, status)
			continue
		}
		statuses = append(statuses, domain.ServiceStatus{
			Name:  name,
			State: domain.StateMissing,
		})
	}
	return statuses, nil
}

// run executes one compose subcommand with the resolved environment
// appended after the process environment, so resolved values win.
func (r *Runner) run(ctx context.Context, env []string, stdout io.Writer, args ...string) error {
	full := append([]string{
		"compose",
		"--file", r.composeFile,
		"--project-name", r.project,
	}, args...)

	cmd := exec.CommandContext(ctx, r.binary, full...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrComposeFailed,
			r.binary, strings.Join(full, " "), err)
	}
	return nil
}

// psRow is one service entry in `compose ps --format json` output.
type psRow struct {
	Name       string `json:"Name"`
	Service    string `json:"Service"`
	State      string `json:"State"`
	Health     string `json:"Health"`
	Publishers []struct {
		URL           string `json:"URL"`
		TargetPort    int    `json:"TargetPort"`
		PublishedPort int    `json:"PublishedPort"`
		Protocol      string `json:"Protocol"`
	} `json:"Publishers"`
}

// parsePS handles both output shapes compose has used: one JSON object
// per line (current) and a single JSON array (older releases).
func parsePS(raw []byte) (map[domain.ServiceName]domain.ServiceStatus, error) {
	trimmed := bytes.TrimSpace(raw)
	found := make(map[domain.ServiceName]domain.ServiceStatus)
	if len(trimmed) == 0 {
		return found, nil
	}

	var rows []psRow
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("parsing compose ps output: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var row psRow
			if err := json.Unmarshal(line, &row); err != nil {
				return nil, fmt.Errorf("parsing compose ps line: %w", err)
			}
			rows = append(rows, row)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading compose ps output: %w", err)
		}
	}

	for _, row := range rows {
		name := domain.ServiceName(row.Service)
		if !domain.ValidService(row.Service) {
			continue
		}
		found[name] = domain.ServiceStatus{
			Name:      name,
			Container: row.Name,
			State:     domain.ServiceState(row.State),
			Health:    row.Health,
			Ports:     formatPorts(row),
		}
	}
	return found, nil
}

// formatPorts renders the published ports the way `docker ps` does.
func formatPorts(row psRow) string {
	var parts []string
	for _, p := range row.Publishers {
		if p.PublishedPort == 0 {
			continue
		}
		host := p.URL
		if host == "" {
			host = "0.0.0.0"
		}
		parts = append(parts, fmt.Sprintf("%s:%d->%d/%s", host, p.PublishedPort, p.TargetPort, p.Protocol))
	}
	return strings.Join(parts, ", ")
}
