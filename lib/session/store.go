// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists the single netreg credential across invocations.
// The token is written to a file scoped to the user, analogous to the
// browser client's origin-scoped localStorage key. All credential
// access goes through the Store — no other code touches the file.
type Store struct {
	path string
}

// NewStore returns a Store at the well-known credential path.
func NewStore() *Store {
	return &Store{path: DefaultPath()}
}

// NewStoreAt returns a Store backed by a specific file path. Used by
// tests and by deployments that set an explicit path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the path to the credential file. Checks the
// NETREGCTL_SESSION_FILE environment variable first, then falls back
// to ~/.config/netregctl/session.
func DefaultPath() string {
	if envPath := os.Getenv("NETREGCTL_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "netregctl-session")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "netregctl", "session")
}

// Path returns the file path this Store reads and writes.
func (store *Store) Path() string {
	return store.path
}

// Save writes the credential, replacing any prior value. Creates the
// parent directory with mode 0700 if it doesn't exist. The file is
// written with mode 0600 (owner-only read/write) since it holds a
// bearer token.
func (store *Store) Save(credential string) error {
	directory := filepath.Dir(store.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	if err := os.WriteFile(store.path, []byte(credential+"\n"), 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", store.path, err)
	}
	return nil
}

// Load returns the stored credential. Returns ErrNoCredential when no
// credential has been saved (or it was cleared). Surrounding
// whitespace is stripped so a hand-edited file still loads.
func (store *Store) Load() (string, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("reading session file %s: %w", store.path, err)
	}

	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", ErrNoCredential
	}
	return credential, nil
}

// Clear removes the stored credential (sign-out). Clearing a store
// that holds no credential is not an error.
func (store *Store) Clear() error {
	if err := os.Remove(store.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", store.path, err)
	}
	return nil
}

// Identity is the session guard: it loads the credential, decodes its
// claims, and checks expiry in one step. Any failure — absent
// credential, undecodable token, past expiry — means the session is
// invalid and the caller must route to login. The distinction between
// failure modes is available via errors.Is for callers that want it;
// most treat every failure identically.
func (store *Store) Identity(now time.Time) (*Identity, error) {
	credential, err := store.Load()
	if err != nil {
		return nil, err
	}

	claims, err := DecodeAt(credential, now)
	if err != nil {
		return nil, err
	}
	return claims.Identity(), nil
}
