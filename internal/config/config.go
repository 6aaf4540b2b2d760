// Package config loads and validates the devinsight configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// Source kinds
const (
	SourceADB     = "adb"
	SourceCommand = "command"
	SourceStdin   = "stdin"
)

// Config represents the top-level devinsight configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Filter  FilterConfig  `yaml:"filter"`
	Storage StorageConfig `yaml:"storage"`
	API     APIConfig     `yaml:"api"`
	EnvFile string        `yaml:"env_file"`
}

// SourceConfig selects the external log producer
type SourceConfig struct {
	Kind    string `yaml:"kind"`    // adb | command | stdin
	Command string `yaml:"command"` // for kind "command"
	Device  string `yaml:"device"`  // adb device serial, optional
}

// FilterConfig holds coarse source-side pre-filters applied before parsing
type FilterConfig struct {
	Level string `yaml:"level"` // single level letter, e.g. "E"
	Tag   string `yaml:"tag"`
}

// StorageConfig configures persistent log storage
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Dir       string `yaml:"dir"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	Clear     bool   `yaml:"clear"` // remove existing log files at startup
	Compress  bool   `yaml:"compress"`
}

// APIConfig configures the optional local inspection API
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	applyDefaults(cfg)

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceADB
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = constants.DefaultStorageDir
	}
	if cfg.Storage.MaxSizeMB == 0 {
		cfg.Storage.MaxSizeMB = constants.DefaultMaxFileSizeMB
	}
	if cfg.API.Host == "" {
		cfg.API.Host = constants.DefaultAPIHost
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = constants.DefaultAPIPort
	}
}

// Validate checks the configuration for errors
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.Source.Kind {
	case SourceADB, SourceStdin:
	case SourceCommand:
		if cfg.Source.Command == "" {
			errs = append(errs, "source.command: required when source.kind is \"command\"")
		}
	default:
		errs = append(errs, fmt.Sprintf("source.kind: must be one of adb, command, stdin; got %q", cfg.Source.Kind))
	}

	if cfg.Storage.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("storage.max_size_mb: must be positive, got %d", cfg.Storage.MaxSizeMB))
	}

	if cfg.API.Port < 0 || cfg.API.Port > 65535 {
		errs = append(errs, fmt.Sprintf("api.port: must be between 0 and 65535, got %d", cfg.API.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}
