package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

func TestSettingsStore_Load_MissingFileYieldsDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsStore_Load_PartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "stack_dir = \"/srv/bunker\"\ndefault_profile = \"throughput\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, "/srv/bunker", settings.StackDir)
	assert.Equal(t, "throughput", settings.DefaultProfile)
	// Unset fields come from defaults.
	assert.Equal(t, "docker-compose.yaml", settings.ComposeFile)
	assert.Equal(t, "bunker", settings.ProjectName)
	assert.Equal(t, "docker", settings.ComposeBinary)
}

func TestSettingsStore_SaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	want := domain.Settings{
		StackDir:       "/opt/stack",
		ComposeFile:    "compose.yaml",
		ProjectName:    "lab",
		DefaultProfile: "low-mem",
		ComposeBinary:  "podman",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsStore_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte("stack_dir = ["), 0600))

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.Error(t, err)
}

func TestSettingsStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, SettingsFileName), store.Path())
}

func TestSettingsStore_CreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	_, err := NewSettingsStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
