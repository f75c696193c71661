// Package config loads typm's layered configuration: embedded defaults,
// then the user config file, then TYPM_* environment variables. Later
// layers override earlier ones key by key.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "TYPM_"

// Build holds defaults for the build command
type Build struct {
	// Output is the directory built packages are written into
	Output string `koanf:"output"`

	// Namespace is the import namespace for locally built packages
	Namespace string `koanf:"namespace"`
}

// Tools holds the external binaries typm invokes
type Tools struct {
	Git   string `koanf:"git"`
	Typst string `koanf:"typst"`
}

// Config is typm's resolved configuration
type Config struct {
	Build Build `koanf:"build"`
	Tools Tools `koanf:"tools"`
}

// Load builds the configuration from defaults, the given config file
// (skipped when empty or missing), and TYPM_* environment variables.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load user config if it exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", configFile, err)
			}
		}
	}

	// 3. Load env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with only the embedded defaults applied.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		// The embedded defaults are compiled in; failing to parse them is a bug.
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("invalid embedded defaults: %v", err))
	}
	return &cfg
}
