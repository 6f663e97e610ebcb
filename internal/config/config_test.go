package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirscan/internal/config"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, config.Defaults().Validate())
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	want := config.Defaults()
	assert.Equal(t, want.Observers, cfg.Observers)
	assert.Equal(t, want.Format, cfg.Format)
	assert.Equal(t, want.Top, cfg.Top)
	assert.Equal(t, want.ProgressInterval, cfg.ProgressInterval)
	assert.Equal(t, want.Log, cfg.Log)
	assert.Empty(t, cfg.Excludes)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := config.Defaults()
	want.Observers = []string{"dirtree", "summary"}
	want.Depth = 3
	want.MinSize = "1KB"
	want.ProgressInterval = time.Second
	want.Log.Level = "debug"

	require.NoError(t, config.Save(want, path))

	got, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, want.Observers, got.Observers)
	assert.Equal(t, 3, got.Depth)
	assert.Equal(t, "1KB", got.MinSize)
	assert.Equal(t, time.Second, got.ProgressInterval)
	assert.Equal(t, want.Log, got.Log)

	size, err := got.MinSizeBytes()
	require.NoError(t, err)
	assert.EqualValues(t, 1000, size)
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 2\ntop: 5\nformat: flat\n"), 0o600))

	t.Setenv("DIRSCAN_TOP", "7")
	t.Setenv("DIRSCAN_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("depth", 0, "")
	flags.String("format", "text", "")
	require.NoError(t, flags.Parse([]string{"--depth", "4"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Depth, "flag beats file")
	assert.Equal(t, 7, cfg.Top, "env beats file")
	assert.Equal(t, "flat", cfg.Format, "file beats unchanged flag default")
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "unknown observer", mutate: func(c *config.Config) { c.Observers = []string{"tree"} }},
		{name: "no observers", mutate: func(c *config.Config) { c.Observers = nil }},
		{name: "bad format", mutate: func(c *config.Config) { c.Format = "xml" }},
		{name: "negative depth", mutate: func(c *config.Config) { c.Depth = -1 }},
		{name: "zero top", mutate: func(c *config.Config) { c.Top = 0 }},
		{name: "bad min size", mutate: func(c *config.Config) { c.MinSize = "lots" }},
		{name: "bad log level", mutate: func(c *config.Config) { c.Log.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}
