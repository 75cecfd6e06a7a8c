// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStoreAt(filepath.Join(t.TempDir(), "session"))

	credential := mintToken(t, "alice", "no", time.Now().Add(time.Hour).Unix())
	if err := store.Save(credential); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != credential {
		t.Errorf("Load = %q, want the saved credential", loaded)
	}
}

func TestStoreReplacesPriorCredential(t *testing.T) {
	t.Parallel()

	store := NewStoreAt(filepath.Join(t.TempDir(), "session"))

	if err := store.Save("first.token.sig"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("second.token.sig"); err != nil {
		t.Fatalf("Save replacement: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != "second.token.sig" {
		t.Errorf("Load = %q, want the replacement credential", loaded)
	}
}

func TestStoreFilePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subdir", "session")
	store := NewStoreAt(path)

	if err := store.Save("a.b.c"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Stat directory: %v", err)
	}
	if mode := dirInfo.Mode().Perm(); mode != 0700 {
		t.Errorf("directory mode = %o, want 0700", mode)
	}
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	store := NewStoreAt(filepath.Join(t.TempDir(), "session"))

	if err := store.Save("a.b.c"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Load after Clear: got %v, want ErrNoCredential", err)
	}

	// Clearing again is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on empty store: %v", err)
	}
}

func TestIdentityGuard(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("absent credential", func(t *testing.T) {
		t.Parallel()
		store := NewStoreAt(filepath.Join(t.TempDir(), "session"))
		if _, err := store.Identity(now); !errors.Is(err, ErrNoCredential) {
			t.Errorf("Identity: got %v, want ErrNoCredential", err)
		}
	})

	t.Run("expired credential", func(t *testing.T) {
		t.Parallel()
		store := NewStoreAt(filepath.Join(t.TempDir(), "session"))
		if err := store.Save(mintToken(t, "alice", "no", now.Add(-time.Hour).Unix())); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if _, err := store.Identity(now); !errors.Is(err, ErrCredentialExpired) {
			t.Errorf("Identity: got %v, want ErrCredentialExpired", err)
		}
	})

	t.Run("malformed credential", func(t *testing.T) {
		t.Parallel()
		store := NewStoreAt(filepath.Join(t.TempDir(), "session"))
		if err := store.Save("garbage"); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if _, err := store.Identity(now); !errors.Is(err, ErrMalformedCredential) {
			t.Errorf("Identity: got %v, want ErrMalformedCredential", err)
		}
	})

	t.Run("valid admin session", func(t *testing.T) {
		t.Parallel()
		store := NewStoreAt(filepath.Join(t.TempDir(), "session"))
		if err := store.Save(mintToken(t, "netregadmin", "yes", now.Add(time.Hour).Unix())); err != nil {
			t.Fatalf("Save: %v", err)
		}
		identity, err := store.Identity(now)
		if err != nil {
			t.Fatalf("Identity: %v", err)
		}
		if identity.Username != "netregadmin" {
			t.Errorf("Username = %q, want netregadmin", identity.Username)
		}
		if !identity.IsAdmin {
			t.Error("IsAdmin = false, want true")
		}
	})
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("NETREGCTL_SESSION_FILE", "/tmp/custom-session")
	if got := DefaultPath(); got != "/tmp/custom-session" {
		t.Errorf("DefaultPath = %q, want env override", got)
	}
}
