package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultAPIBaseURL, c.APIBaseURL)
	require.Equal(t, "info", c.LogLevel)
	require.False(t, c.BypassAuth)
	require.NotEmpty(t, c.RecordingsDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("PLAYCAP_API_URL", "http://localhost:9090")
	t.Setenv("PLAYCAP_BYPASS_AUTH", "true")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9090", c.APIBaseURL)
	require.True(t, c.BypassAuth)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	want := Config{
		APIBaseURL:    "http://example.test",
		RecordingsDir: filepath.Join(dir, "rec"),
		LogLevel:      "debug",
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want.APIBaseURL, got.APIBaseURL)
	require.Equal(t, want.RecordingsDir, got.RecordingsDir)
	require.Equal(t, want.LogLevel, got.LogLevel)
}
