package domain

import "errors"

// Domain errors represent harness logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfig indicates the merged stack configuration failed
	// validation.
	ErrInvalidConfig = errors.New("invalid stack configuration")

	// ErrProfileNotFound indicates the requested profile file does not
	// exist under profiles/.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUnknownService indicates a service name outside the stack
	// catalogue.
	ErrUnknownService = errors.New("unknown service")

	// ErrUnresolvedPlaceholder indicates the template references a
	// variable absent from the effective configuration.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

	// ErrRenderedNotYAML indicates the rendered gateway config does not
	// parse as YAML.
	ErrRenderedNotYAML = errors.New("rendered config is not valid YAML")

	// ErrStackUnhealthy indicates at least one required service failed
	// its health probe.
	ErrStackUnhealthy = errors.New("stack unhealthy")

	// ErrComposeFailed indicates the orchestrator invocation exited
	// non-zero.
	ErrComposeFailed = errors.New("compose invocation failed")
)
