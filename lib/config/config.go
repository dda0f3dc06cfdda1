// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads configuration for Skillforge tooling.
//
// Configuration comes from a single YAML file named by the
// SKILLFORGE_CONFIG environment variable or an explicit --config
// flag. There is no search path and no automatic discovery: a run is
// configured by exactly one auditable file, or by the built-in
// defaults when none is named.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "SKILLFORGE_CONFIG"

// Config is the tool configuration.
type Config struct {
	// Paths configures the store and cache roots.
	Paths PathsConfig `yaml:"paths"`

	// GeneratorVersion is recorded in saved bundle metadata. Empty
	// uses the library default.
	GeneratorVersion string `yaml:"generator_version"`

	// Kind labels store entries ("skill" when empty).
	Kind string `yaml:"kind"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Store is the durable skill store root.
	Store string `yaml:"store"`

	// Cache is the ephemeral build cache root.
	Cache string `yaml:"cache"`
}

// Default returns the built-in configuration, rooted under the user's
// home directory.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return &Config{
		Paths: PathsConfig{
			Store: filepath.Join(home, ".skillforge", "skills"),
			Cache: filepath.Join(home, ".skillforge", "cache"),
		},
	}, nil
}

// Load reads configuration. An explicit path wins; otherwise the
// SKILLFORGE_CONFIG environment variable; otherwise [Default]. A path
// that is named but unreadable or unparsable is an error, never a
// silent fallback.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default()
	}

	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", expanded, err)
	}

	config, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", expanded, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", expanded, err)
	}
	return config, nil
}

// validate checks the loaded configuration and expands home-relative
// paths in place.
func (c *Config) validate() error {
	for label, path := range map[string]*string{
		"paths.store": &c.Paths.Store,
		"paths.cache": &c.Paths.Cache,
	} {
		if *path == "" {
			return fmt.Errorf("%s is empty", label)
		}
		expanded, err := expandHome(*path)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		*path = expanded
	}
	if c.Paths.Store == c.Paths.Cache {
		return fmt.Errorf("paths.store and paths.cache are the same directory %q", c.Paths.Store)
	}
	return nil
}

// expandHome replaces a leading "~/" (or bare "~") with the user's
// home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
