// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the harness to function:
//
//   - ConfigLoader: Env-file loading with profile overlay
//   - ComposeRunner: Container orchestration invocations
//   - Renderer: Gateway config template rendering
//   - ProcessCleaner: Pre-start stray process and shared-memory cleanup
//   - SettingsStore: Harness configuration
//
// # Optional Interfaces
//
// These can be nil - the affected commands report unavailability:
//
//   - Prober: Service health probes (the `check` command)
//   - GatewayClient: Benchmark requests against the gateway (`bench`)
//   - BenchStore: Benchmark history persistence (`bench history`)
package driven
