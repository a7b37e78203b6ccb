// Package envfile implements driven.ConfigLoader over dotenv files.
//
// The stack directory holds a base env file (stack.env) and a
// profiles/ subdirectory of named overlays (profiles/<name>.env).
// Loading layers four sources, lowest to highest priority:
//
//  1. Built-in defaults (domain.DefaultStackConfig)
//  2. The base env file
//  3. The selected profile file
//  4. The process environment
//
// File parsing and the key-level base/profile merge use spf13/viper
// (dotenv config type); the typed view is layered with dario.cat/mergo
// and process-environment overrides with caarlos0/env. Keys the typed
// config does not model are preserved in the raw map and passed through
// to the orchestrator untouched.
package envfile
