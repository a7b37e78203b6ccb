// Package services implements the driving port interfaces.
// Services contain the harness orchestration logic and delegate the
// actual work (env files, compose, probes, the gateway API) to driven
// ports.
//
// Services are pure Go with no CGO or external dependencies.
package services
