package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, SourceADB, cfg.Source.Kind)
	assert.Equal(t, constants.DefaultStorageDir, cfg.Storage.Dir)
	assert.Equal(t, constants.DefaultMaxFileSizeMB, cfg.Storage.MaxSizeMB)
	assert.Equal(t, constants.DefaultAPIHost, cfg.API.Host)
	assert.Equal(t, constants.DefaultAPIPort, cfg.API.Port)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.API.Enabled)
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
source:
  kind: command
  command: "tail -f /var/log/system.log"
filter:
  level: E
  tag: Network
storage:
  enabled: true
  dir: /tmp/devlogs
  max_size_mb: 25
  compress: true
api:
  enabled: true
  host: 0.0.0.0
  port: 9000
`
	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, SourceCommand, cfg.Source.Kind)
	assert.Equal(t, "tail -f /var/log/system.log", cfg.Source.Command)
	assert.Equal(t, "E", cfg.Filter.Level)
	assert.Equal(t, "Network", cfg.Filter.Tag)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "/tmp/devlogs", cfg.Storage.Dir)
	assert.Equal(t, 25, cfg.Storage.MaxSizeMB)
	assert.True(t, cfg.Storage.Compress)
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.API.Host)
	assert.Equal(t, 9000, cfg.API.Port)
}

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("storage:\n  enabled: true\n"))
	require.NoError(t, err)

	assert.Equal(t, SourceADB, cfg.Source.Kind)
	assert.Equal(t, constants.DefaultStorageDir, cfg.Storage.Dir)
	assert.Equal(t, constants.DefaultMaxFileSizeMB, cfg.Storage.MaxSizeMB)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("source: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devinsight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  kind: stdin\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceStdin, cfg.Source.Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"stdin source", func(c *Config) { c.Source.Kind = SourceStdin }, false},
		{"command source with command", func(c *Config) {
			c.Source.Kind = SourceCommand
			c.Source.Command = "cat fixture.log"
		}, false},
		{"command source without command", func(c *Config) { c.Source.Kind = SourceCommand }, true},
		{"unknown source kind", func(c *Config) { c.Source.Kind = "carrier-pigeon" }, true},
		{"negative max size", func(c *Config) { c.Storage.MaxSizeMB = -1 }, true},
		{"port too large", func(c *Config) { c.API.Port = 70000 }, true},
		{"negative port", func(c *Config) { c.API.Port = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
