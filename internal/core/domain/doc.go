// Package domain defines the core entities of the bunkerctl harness.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StackConfig: The merged configuration of the inference stack
//   - Service: A managed container in the stack catalogue
//   - ServiceHealth: The result of probing one service
//   - BenchResult: A recorded benchmark run
//   - Settings: Operator-level settings of the harness itself
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
