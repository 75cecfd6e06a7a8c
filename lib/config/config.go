// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the netreg
// client.
//
// Configuration is loaded from a single YAML file specified by:
//   - NETREGCTL_CONFIG environment variable, or
//   - ~/.config/netregctl/config.yaml
//
// A missing file is not an error — every field has a default, and
// most deployments only ever set the server URL.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is the netreg server's conventional address: the
// server listens on port 3000 unless reconfigured.
const DefaultServerURL = "http://localhost:3000"

// DefaultRequestTimeout bounds each CLI-initiated API request.
const DefaultRequestTimeout = Duration(30 * time.Second)

// Duration decodes YAML duration strings like "30s" or "2m". The
// yaml package would otherwise only accept raw nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the netreg client configuration.
type Config struct {
	// ServerURL is the base URL of the netreg server.
	ServerURL string `yaml:"server_url"`

	// RequestTimeout bounds each API request issued by CLI commands.
	// Interactive TUI requests use the same bound.
	RequestTimeout Duration `yaml:"request_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// DefaultPath returns the config file path: NETREGCTL_CONFIG if set,
// otherwise ~/.config/netregctl/config.yaml (honoring
// XDG_CONFIG_HOME).
func DefaultPath() string {
	if envPath := os.Getenv("NETREGCTL_CONFIG"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "netregctl-config.yaml")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "netregctl", "config.yaml")
}

// Load reads the configuration from path. A missing file returns the
// defaults; a present but unparseable file is an error. Fields left
// unset in the file keep their defaults.
func Load(path string) (*Config, error) {
	configuration := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return configuration, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if configuration.ServerURL == "" {
		configuration.ServerURL = DefaultServerURL
	}
	if configuration.RequestTimeout <= 0 {
		configuration.RequestTimeout = DefaultRequestTimeout
	}
	return configuration, nil
}
