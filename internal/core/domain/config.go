package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// StackConfig is the merged configuration of the inference stack. It is
// assembled by the env-file loader in four layers, lowest to highest
// priority: built-in defaults, the base env file, the selected profile
// file, and the process environment.
//
// Struct tags:
//   - mapstructure: flat env-file key, resolved through the squashed
//     nesting by the loader (spf13/viper).
//   - env: process environment variable name (caarlos0/env).
//   - yaml: key used when printing the effective config.
type StackConfig struct {
	Model    ModelConfig    `mapstructure:",squash" yaml:"model"`
	Engine   EngineConfig   `mapstructure:",squash" yaml:"engine"`
	Gateway  GatewayConfig  `mapstructure:",squash" yaml:"gateway"`
	Tracing  TracingConfig  `mapstructure:",squash" yaml:"tracing"`
	Database DatabaseConfig `mapstructure:",squash" yaml:"database"`
}

// ModelConfig identifies the model the engine serves and how callers
// address it through the gateway.
type ModelConfig struct {
	// ServedName is the model alias exposed by the gateway
	// (the "model" field clients send, e.g. "bunker-agent").
	ServedName string `mapstructure:"SERVED_MODEL_NAME" env:"SERVED_MODEL_NAME" yaml:"served_name"`

	// ID is the upstream model identifier the engine loads
	// (e.g. "Qwen/Qwen2.5-Coder-32B-Instruct-AWQ").
	ID string `mapstructure:"MODEL_ID" env:"MODEL_ID" yaml:"id"`

	// Quantization selects the engine's quantisation kernel
	// (e.g. "awq_marlin"). Empty means engine default.
	Quantization string `mapstructure:"QUANTIZATION" env:"QUANTIZATION" yaml:"quantization,omitempty"`

	// ChatTemplate is the path to the chat template file mounted into
	// the engine container. Empty means the model's built-in template.
	ChatTemplate string `mapstructure:"CHAT_TEMPLATE" env:"CHAT_TEMPLATE" yaml:"chat_template,omitempty"`
}

// EngineConfig holds the inference engine tuning knobs.
type EngineConfig struct {
	// Port is the host port of the engine's OpenAI-compatible API.
	Port int `mapstructure:"ENGINE_PORT" env:"ENGINE_PORT" yaml:"port"`

	// MaxModelLen caps the context length in tokens.
	MaxModelLen int `mapstructure:"MAX_MODEL_LEN" env:"MAX_MODEL_LEN" yaml:"max_model_len"`

	// GPUMemoryUtilization is the fraction of GPU memory the engine may
	// claim, in (0, 1].
	GPUMemoryUtilization float64 `mapstructure:"GPU_MEMORY_UTILIZATION" env:"GPU_MEMORY_UTILIZATION" yaml:"gpu_memory_utilization"`

	// TensorParallelSize is the number of GPUs the model is sharded over.
	TensorParallelSize int `mapstructure:"TENSOR_PARALLEL_SIZE" env:"TENSOR_PARALLEL_SIZE" yaml:"tensor_parallel_size"`

	// NCCLP2PDisable disables NCCL peer-to-peer transfers ("1" on
	// consumer boards without P2P support).
	NCCLP2PDisable string `mapstructure:"NCCL_P2P_DISABLE" env:"NCCL_P2P_DISABLE" yaml:"nccl_p2p_disable,omitempty"`

	// NCCLIBDisable disables NCCL InfiniBand transport.
	NCCLIBDisable string `mapstructure:"NCCL_IB_DISABLE" env:"NCCL_IB_DISABLE" yaml:"nccl_ib_disable,omitempty"`

	// HFToken authenticates model downloads from the hub. Optional.
	HFToken string `mapstructure:"HF_TOKEN" env:"HF_TOKEN" yaml:"-"`
}

// GatewayConfig holds the proxy gateway settings.
type GatewayConfig struct {
	// Port is the host port of the gateway's OpenAI-compatible API.
	Port int `mapstructure:"GATEWAY_PORT" env:"GATEWAY_PORT" yaml:"port"`

	// MasterKey authorises administrative and inference calls to the
	// gateway. Never printed by `config show`.
	MasterKey string `mapstructure:"GATEWAY_MASTER_KEY" env:"GATEWAY_MASTER_KEY" yaml:"-"`

	// ConfigTemplate is the path to the gateway config template,
	// relative to the stack directory.
	ConfigTemplate string `mapstructure:"GATEWAY_CONFIG_TEMPLATE" env:"GATEWAY_CONFIG_TEMPLATE" yaml:"config_template"`

	// GeneratedConfig is the path the rendered gateway config is
	// written to, relative to the stack directory.
	GeneratedConfig string `mapstructure:"GATEWAY_GENERATED_CONFIG" env:"GATEWAY_GENERATED_CONFIG" yaml:"generated_config"`
}

// TracingConfig holds the tracing UI settings.
type TracingConfig struct {
	// Port is the host port of the tracing web UI.
	Port int `mapstructure:"TRACING_PORT" env:"TRACING_PORT" yaml:"port"`
}

// DatabaseConfig holds the PostgreSQL settings shared by the tracing
// service and the health probe.
type DatabaseConfig struct {
	// Port is the host port PostgreSQL listens on.
	Port int `mapstructure:"DB_PORT" env:"DB_PORT" yaml:"port"`

	// User is the PostgreSQL role name.
	User string `mapstructure:"DB_USER" env:"DB_USER" yaml:"user"`

	// Password is the PostgreSQL password. Never printed.
	Password string `mapstructure:"DB_PASSWORD" env:"DB_PASSWORD" yaml:"-"`

	// Name is the database name.
	Name string `mapstructure:"DB_NAME" env:"DB_NAME" yaml:"name"`
}

// DefaultStackConfig returns the built-in defaults. A missing base env
// file yields exactly this configuration.
func DefaultStackConfig() StackConfig {
	return StackConfig{
		Model: ModelConfig{
			ServedName:   "bunker-agent",
			ID:           "Qwen/Qwen2.5-Coder-32B-Instruct-AWQ",
			Quantization: "awq_marlin",
		},
		Engine: EngineConfig{
			Port:                 8000,
			MaxModelLen:          131072,
			GPUMemoryUtilization: 0.92,
			TensorParallelSize:   1,
			NCCLP2PDisable:       "1",
			NCCLIBDisable:        "1",
		},
		Gateway: GatewayConfig{
			Port:            4000,
			MasterKey:       "sk-local-dev",
			ConfigTemplate:  "templates/gateway.yaml.tmpl",
			GeneratedConfig: "generated/gateway.yaml",
		},
		Tracing: TracingConfig{
			Port: 3000,
		},
		Database: DatabaseConfig{
			Port:     5432,
			User:     "langfuse",
			Password: "langfuse",
			Name:     "langfuse",
		},
	}
}

// Validate checks the merged configuration before any lifecycle
// operation runs. The shell scripts this harness replaces launched with
// whatever the env files contained; here a broken value fails fast.
func (c StackConfig) Validate() error {
	if c.Model.ServedName == "" {
		return fmt.Errorf("%w: SERVED_MODEL_NAME must not be empty", ErrInvalidConfig)
	}
	if c.Model.ID == "" {
		return fmt.Errorf("%w: MODEL_ID must not be empty", ErrInvalidConfig)
	}
	if c.Engine.GPUMemoryUtilization <= 0 || c.Engine.GPUMemoryUtilization > 1 {
		return fmt.Errorf("%w: GPU_MEMORY_UTILIZATION %v outside (0, 1]",
			ErrInvalidConfig, c.Engine.GPUMemoryUtilization)
	}
	if c.Engine.MaxModelLen <= 0 {
		return fmt.Errorf("%w: MAX_MODEL_LEN must be positive", ErrInvalidConfig)
	}
	if c.Engine.TensorParallelSize < 1 {
		return fmt.Errorf("%w: TENSOR_PARALLEL_SIZE must be at least 1", ErrInvalidConfig)
	}
	for _, p := range []struct {
		key  string
		port int
	}{
		{"ENGINE_PORT", c.Engine.Port},
		{"GATEWAY_PORT", c.Gateway.Port},
		{"TRACING_PORT", c.Tracing.Port},
		{"DB_PORT", c.Database.Port},
	} {
		if p.port < 1 || p.port > 65535 {
			return fmt.Errorf("%w: %s %d outside 1-65535", ErrInvalidConfig, p.key, p.port)
		}
	}
	return nil
}

// Pairs returns the canonical env-file representation of the config as
// a key/value map. Keys the loader does not model (passthrough values
// from the env files) are not included; the loader overlays them.
func (c StackConfig) Pairs() map[string]string {
	return map[string]string{
		"SERVED_MODEL_NAME":        c.Model.ServedName,
		"MODEL_ID":                 c.Model.ID,
		"QUANTIZATION":             c.Model.Quantization,
		"CHAT_TEMPLATE":            c.Model.ChatTemplate,
		"ENGINE_PORT":              strconv.Itoa(c.Engine.Port),
		"MAX_MODEL_LEN":            strconv.Itoa(c.Engine.MaxModelLen),
		"GPU_MEMORY_UTILIZATION":   strconv.FormatFloat(c.Engine.GPUMemoryUtilization, 'f', -1, 64),
		"TENSOR_PARALLEL_SIZE":     strconv.Itoa(c.Engine.TensorParallelSize),
		"NCCL_P2P_DISABLE":         c.Engine.NCCLP2PDisable,
		"NCCL_IB_DISABLE":          c.Engine.NCCLIBDisable,
		"HF_TOKEN":                 c.Engine.HFToken,
		"GATEWAY_PORT":             strconv.Itoa(c.Gateway.Port),
		"GATEWAY_MASTER_KEY":       c.Gateway.MasterKey,
		"GATEWAY_CONFIG_TEMPLATE":  c.Gateway.ConfigTemplate,
		"GATEWAY_GENERATED_CONFIG": c.Gateway.GeneratedConfig,
		"TRACING_PORT":             strconv.Itoa(c.Tracing.Port),
		"DB_PORT":                  strconv.Itoa(c.Database.Port),
		"DB_USER":                  c.Database.User,
		"DB_PASSWORD":              c.Database.Password,
		"DB_NAME":                  c.Database.Name,
	}
}

// SortedEnviron flattens a key/value map into a sorted KEY=VALUE slice
// suitable for exec.Cmd.Env.
func SortedEnviron(kv map[string]string) []string {
	out := make([]string, 0, len(kv))
	for k, v := range kv {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
