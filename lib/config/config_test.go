// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	configuration, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want default", configuration.ServerURL)
	}
	if configuration.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want default", configuration.RequestTimeout)
	}
}

func TestLoadOverridesFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "server_url: http://netreg.example.edu:3000\nrequest_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.ServerURL != "http://netreg.example.edu:3000" {
		t.Errorf("ServerURL = %q", configuration.ServerURL)
	}
	if configuration.RequestTimeout != Duration(5*time.Second) {
		t.Errorf("RequestTimeout = %v, want 5s", time.Duration(configuration.RequestTimeout))
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server_url: http://example.org\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want default for unset field", configuration.RequestTimeout)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server_url: [unclosed"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("NETREGCTL_CONFIG", "/etc/netregctl.yaml")
	if got := DefaultPath(); got != "/etc/netregctl.yaml" {
		t.Errorf("DefaultPath = %q, want env override", got)
	}
}
