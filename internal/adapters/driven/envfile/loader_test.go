package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

// writeStack lays out a stack directory with a base file and profiles.
func writeStack(t *testing.T, base string, profiles map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	if base != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, BaseFileName), []byte(base), 0600))
	}
	if len(profiles) > 0 {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ProfilesDirName), 0700))
		for name, content := range profiles {
			path := filepath.Join(dir, ProfilesDirName, name+".env")
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		}
	}
	return dir
}

func TestLoader_Load_MissingBaseFileYieldsDefaults(t *testing.T) {
	loader := NewLoader(t.TempDir())

	resolved, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStackConfig(), resolved.Stack)
	assert.Equal(t, "bunker-agent", resolved.Raw["SERVED_MODEL_NAME"])
}

func TestLoader_Load_BaseFileOverridesDefaults(t *testing.T) {
	dir := writeStack(t, "SERVED_MODEL_NAME=lab-agent\nMAX_MODEL_LEN=262144\n", nil)
	loader := NewLoader(dir)

	resolved, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, "lab-agent", resolved.Stack.Model.ServedName)
	assert.Equal(t, 262144, resolved.Stack.Engine.MaxModelLen)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8000, resolved.Stack.Engine.Port)
}

func TestLoader_Load_ProfileWinsOverBase(t *testing.T) {
	dir := writeStack(t,
		"SERVED_MODEL_NAME=lab-agent\nGPU_MEMORY_UTILIZATION=0.92\n",
		map[string]string{
			"longctx": "MAX_MODEL_LEN=262144\nGPU_MEMORY_UTILIZATION=0.97\n",
		})
	loader := NewLoader(dir)

	resolved, err := loader.Load("longctx")

	require.NoError(t, err)
	// Key present in both: the profile wins.
	assert.Equal(t, 0.97, resolved.Stack.Engine.GPUMemoryUtilization)
	// Key only in the profile.
	assert.Equal(t, 262144, resolved.Stack.Engine.MaxModelLen)
	// Key only in the base survives the overlay.
	assert.Equal(t, "lab-agent", resolved.Stack.Model.ServedName)
	assert.Equal(t, "longctx", resolved.Profile)
}

func TestLoader_Load_EmptyBaseValueOverridesDefault(t *testing.T) {
	// QUANTIZATION= means "engine default", not "fall back to ours".
	dir := writeStack(t, "QUANTIZATION=\n", nil)
	loader := NewLoader(dir)

	resolved, err := loader.Load("")

	require.NoError(t, err)
	assert.Empty(t, resolved.Stack.Model.Quantization)
	assert.Empty(t, resolved.Raw["QUANTIZATION"])
}

func TestLoader_Load_EmptyProfileValueOverridesBase(t *testing.T) {
	dir := writeStack(t,
		"QUANTIZATION=gptq\n",
		map[string]string{"fp16": "QUANTIZATION=\n"})
	loader := NewLoader(dir)

	resolved, err := loader.Load("fp16")

	require.NoError(t, err)
	// An explicitly blanked profile value wins over the base, matching
	// shell source semantics.
	assert.Empty(t, resolved.Stack.Model.Quantization)
	assert.Empty(t, resolved.Raw["QUANTIZATION"])
	assert.Contains(t, resolved.Environ(), "QUANTIZATION=")
}

func TestLoader_Load_ProcessEnvWinsOverProfile(t *testing.T) {
	dir := writeStack(t,
		"ENGINE_PORT=8000\n",
		map[string]string{"alt": "ENGINE_PORT=8001\n"})
	t.Setenv("ENGINE_PORT", "8002")
	loader := NewLoader(dir)

	resolved, err := loader.Load("alt")

	require.NoError(t, err)
	assert.Equal(t, 8002, resolved.Stack.Engine.Port)
	assert.Equal(t, "8002", resolved.Raw["ENGINE_PORT"])
}

func TestLoader_Load_PassthroughKeys(t *testing.T) {
	dir := writeStack(t, "VLLM_ATTENTION_BACKEND=FLASHINFER\n", nil)
	loader := NewLoader(dir)

	resolved, err := loader.Load("")

	require.NoError(t, err)
	// Keys the typed config does not model survive into the raw view.
	assert.Equal(t, "FLASHINFER", resolved.Raw["VLLM_ATTENTION_BACKEND"])
	assert.Contains(t, resolved.Environ(), "VLLM_ATTENTION_BACKEND=FLASHINFER")
}

func TestLoader_Load_ProcessEnvWinsForPassthroughKeys(t *testing.T) {
	dir := writeStack(t, "VLLM_ATTENTION_BACKEND=FLASHINFER\n", nil)
	t.Setenv("VLLM_ATTENTION_BACKEND", "FLASH_ATTN")
	loader := NewLoader(dir)

	resolved, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, "FLASH_ATTN", resolved.Raw["VLLM_ATTENTION_BACKEND"])
}

func TestLoader_Load_UnknownProfile(t *testing.T) {
	dir := writeStack(t, "", map[string]string{"longctx": "MAX_MODEL_LEN=262144\n"})
	loader := NewLoader(dir)

	_, err := loader.Load("nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	// The error names what is available.
	assert.Contains(t, err.Error(), "longctx")
}

func TestLoader_Load_InvalidMergedConfig(t *testing.T) {
	dir := writeStack(t, "GPU_MEMORY_UTILIZATION=1.5\n", nil)
	loader := NewLoader(dir)

	_, err := loader.Load("")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoader_Profiles_SortedByName(t *testing.T) {
	dir := writeStack(t, "", map[string]string{
		"speed":   "MAX_MODEL_LEN=32768\n",
		"longctx": "MAX_MODEL_LEN=262144\n",
	})
	loader := NewLoader(dir)

	profiles, err := loader.Profiles()

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "longctx", profiles[0].Name)
	assert.Equal(t, "speed", profiles[1].Name)
	assert.Equal(t, "262144", profiles[0].Values["MAX_MODEL_LEN"])
}

func TestLoader_Profiles_NoDirectory(t *testing.T) {
	loader := NewLoader(t.TempDir())

	profiles, err := loader.Profiles()

	require.NoError(t, err)
	assert.Empty(t, profiles)
}
