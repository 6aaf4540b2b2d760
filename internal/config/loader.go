package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable overrides, applied after the YAML file. A variable
// set in the process environment wins over one from env_file.
const (
	envSourceKind = "DEVINSIGHT_SOURCE"
	envDevice     = "DEVINSIGHT_DEVICE"
	envStorageDir = "DEVINSIGHT_STORAGE_DIR"
	envMaxSizeMB  = "DEVINSIGHT_MAX_SIZE_MB"
	envAPIPort    = "DEVINSIGHT_API_PORT"
)

// LoadEnvFile reads a .env file and returns the variables as a map
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return env, nil
}

// applyEnv overlays env_file values and process environment variables onto
// the configuration
func applyEnv(cfg *Config) error {
	fileEnv, err := LoadEnvFile(cfg.EnvFile)
	if err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if v, ok := lookup(envSourceKind); ok {
		cfg.Source.Kind = v
	}
	if v, ok := lookup(envDevice); ok {
		cfg.Source.Device = v
	}
	if v, ok := lookup(envStorageDir); ok {
		cfg.Storage.Dir = v
	}
	if v, ok := lookup(envMaxSizeMB); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", envMaxSizeMB, err)
		}
		cfg.Storage.MaxSizeMB = n
	}
	if v, ok := lookup(envAPIPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", envAPIPort, err)
		}
		cfg.API.Port = n
	}
	return nil
}
