// Package render implements the gateway config template renderer.
//
// Rendering is literal ${VAR} placeholder substitution - not a template
// engine. The gateway container interprets its own config; the harness
// only fills in the values the env overlay resolved, then checks that
// the result still parses as YAML before anything consumes it.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// placeholderPattern matches ${VAR} placeholders with env-style names.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Z][A-Z0-9_]*)\}`)

// Ensure Renderer implements both render ports.
var (
	_ driven.Renderer      = (*Renderer)(nil)
	_ driven.RenderWatcher = (*Renderer)(nil)
)

// Renderer substitutes resolved config values into the gateway template.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render substitutes vars into the template at templatePath.
func (r *Renderer) Render(templatePath string, vars map[string]string) ([]byte, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(string(raw), func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		val, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return val
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", domain.ErrUnresolvedPlaceholder, strings.Join(dedupe(missing), ", "))
	}

	var check any
	if err := yaml.Unmarshal([]byte(rendered), &check); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderedNotYAML, err)
	}

	return []byte(rendered), nil
}

// RenderToFile renders and writes the result to outPath.
func (r *Renderer) RenderToFile(templatePath, outPath string, vars map[string]string) error {
	rendered, err := r.Render(templatePath, vars)
	if err != nil {
		return err
	}
	return r.WriteRendered(outPath, rendered)
}

// WriteRendered writes already-rendered output to outPath.
func (r *Renderer) WriteRendered(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing rendered config: %w", err)
	}
	return nil
}

// Watch re-renders to outPath on every write to templatePath until the
// done channel closes. The watch is on the template's directory, not
// the file itself, so editors that replace the file atomically
// (rename-over) keep triggering renders.
func (r *Renderer) Watch(templatePath, outPath string, vars map[string]string, onResult func(error), done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(templatePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Render once up front so the watch starts from a known state.
	onResult(r.RenderToFile(templatePath, outPath, vars))

	target := filepath.Clean(templatePath)
	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			onResult(r.RenderToFile(templatePath, outPath, vars))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onResult(err)
		}
	}
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}
