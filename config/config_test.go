package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "scale=1080:-1", cfg.ScaleFilter)
	assert.Equal(t, 1920, cfg.Spectro.Width)
	assert.Equal(t, 540, cfg.Spectro.Height)
	assert.Equal(t, 3, cfg.Spectro.Gain)
	assert.Equal(t, "magma", cfg.Spectro.Color)
	assert.Equal(t, "index.html", cfg.Gallery.Filename)
	assert.Equal(t, 8000, cfg.Serve.Port)
	assert.Equal(t, 5, cfg.Watch.DebounceSeconds)

	require.NoError(t, cfg.Validate())
}

func TestLoadMergesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mothgrams.yaml")
	yaml := `
scale_filter: scale=720:-1
spectro:
  width: 960
  gain: 8
serve:
  port: 9000
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "scale=720:-1", cfg.ScaleFilter)
	assert.Equal(t, 960, cfg.Spectro.Width)
	assert.Equal(t, 8, cfg.Spectro.Gain)
	assert.Equal(t, 9000, cfg.Serve.Port)
	// Untouched fields keep their defaults.
	assert.Equal(t, 540, cfg.Spectro.Height)
	assert.Equal(t, "magma", cfg.Spectro.Color)

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mothgrams.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serve:\n  port: 9000\n"), 0o644))

	t.Setenv("MOTHGRAMS_SERVE_PORT", "9100")
	t.Setenv("MOTHGRAMS_SPECTRO_COLOR", "viridis")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Serve.Port)
	assert.Equal(t, "viridis", cfg.Spectro.Color)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/mothgrams.yaml")
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty scale filter", func(c *Config) { c.ScaleFilter = "" }},
		{"zero spectro width", func(c *Config) { c.Spectro.Width = 0 }},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero debounce", func(c *Config) { c.Watch.DebounceSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers = 2
	assert.Equal(t, 2, cfg.EffectiveWorkers())

	cfg.Workers = 0
	assert.Greater(t, cfg.EffectiveWorkers(), 0)
}
