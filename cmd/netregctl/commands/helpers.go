// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/tortis/netregctl/lib/config"
	"github.com/tortis/netregctl/lib/netreg"
	"github.com/tortis/netregctl/lib/session"
)

// environment bundles what every network command needs: the loaded
// configuration, a client pointed at the configured server, and the
// session store.
type environment struct {
	configuration *config.Config
	client        *netreg.Client
	store         *session.Store
}

// loadEnvironment reads the config file and constructs the client and
// store. serverOverride, when non-empty, takes precedence over the
// configured server URL.
func loadEnvironment(serverOverride string) (*environment, error) {
	configuration, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, err
	}
	serverURL := configuration.ServerURL
	if serverOverride != "" {
		serverURL = serverOverride
	}
	return &environment{
		configuration: configuration,
		client:        netreg.New(serverURL),
		store:         session.NewStore(),
	}, nil
}

// timeout returns the configured per-request timeout.
func (env *environment) timeout() time.Duration {
	return time.Duration(env.configuration.RequestTimeout)
}

// requireCredential loads the stored credential and verifies it
// decodes and has not expired, so commands fail with a clear
// instruction instead of a 401 body from the server.
func (env *environment) requireCredential() (string, *session.Identity, error) {
	identity, err := env.store.Identity(time.Now())
	switch {
	case errors.Is(err, session.ErrNoCredential):
		return "", nil, errors.New(`not logged in (run "netregctl login <username>")`)
	case errors.Is(err, session.ErrCredentialExpired):
		return "", nil, errors.New(`session expired (run "netregctl login <username>")`)
	case err != nil:
		return "", nil, errors.New(`saved session is unreadable (run "netregctl login <username>")`)
	}

	credential, err := env.store.Load()
	if err != nil {
		return "", nil, fmt.Errorf("load session: %w", err)
	}
	return credential, identity, nil
}

// serverMessage formats an API error for display: a rejection body
// comes back verbatim, anything else keeps the wrapped error chain.
func serverMessage(action string, err error) error {
	if netreg.Rejected(err) {
		return fmt.Errorf("%s: %s", action, netreg.RejectedBody(err))
	}
	return fmt.Errorf("%s: %w", action, err)
}
