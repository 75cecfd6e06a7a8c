// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tortis/netregctl/cmd/netregctl/cli"
	"github.com/tortis/netregctl/lib/session"
)

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the saved session",
		Description: `Remove the locally saved session file.

The server issues stateless credentials, so there is nothing to
revoke remotely; logout simply deletes the local file. Running logout
without a saved session is not an error.`,
		Usage: "netregctl logout",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			store := session.NewStore()
			hadSession := true
			if _, err := store.Load(); errors.Is(err, session.ErrNoCredential) {
				hadSession = false
			}

			if err := store.Clear(); err != nil {
				return fmt.Errorf("remove session: %w", err)
			}

			if hadSession {
				fmt.Fprintf(os.Stderr, "Logged out (removed %s)\n", store.Path())
			} else {
				fmt.Fprintln(os.Stderr, "No saved session")
			}
			return nil
		},
	}
}
