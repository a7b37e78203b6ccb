package driven

// Renderer produces the generated gateway configuration from its
// template by literal ${VAR} placeholder substitution.
type Renderer interface {
	// Render substitutes vars into the template at templatePath and
	// returns the rendered text. Every placeholder must resolve
	// (domain.ErrUnresolvedPlaceholder) and the result must parse as
	// YAML (domain.ErrRenderedNotYAML).
	Render(templatePath string, vars map[string]string) ([]byte, error)

	// RenderToFile renders and writes the result to outPath, creating
	// parent directories as needed.
	RenderToFile(templatePath, outPath string, vars map[string]string) error

	// WriteRendered writes already-rendered output to outPath, creating
	// parent directories as needed.
	WriteRendered(outPath string, data []byte) error
}

// RenderWatcher re-renders on template changes. Separate from Renderer
// because only the `render --watch` path needs it.
type RenderWatcher interface {
	// Watch blocks, re-rendering to outPath on every write to
	// templatePath, until the done channel closes. Render failures are
	// reported through onResult and do not stop the watch.
	Watch(templatePath, outPath string, vars map[string]string, onResult func(error), done <-chan struct{}) error
}
