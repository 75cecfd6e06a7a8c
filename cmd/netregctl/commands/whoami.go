// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/tortis/netregctl/cmd/netregctl/cli"
	"github.com/tortis/netregctl/lib/netreg"
	"github.com/tortis/netregctl/lib/session"
)

func whoamiCommand() *cli.Command {
	var verify bool
	var serverURL string

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the current session identity",
		Description: `Display the identity carried by the saved session.

Shows the username, admin status, and expiry decoded from the saved
credential. Without --verify, only the local session file is read (no
network access). With --verify, the credential is also presented to
the server to confirm it is still accepted.`,
		Usage: "netregctl whoami [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the saved identity",
				Command:     "netregctl whoami",
			},
			{
				Description: "Also check the credential against the server",
				Command:     "netregctl whoami --verify",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			flagSet.BoolVar(&verify, "verify", false, "verify the credential against the server")
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}

			credential, err := env.store.Load()
			if errors.Is(err, session.ErrNoCredential) {
				fmt.Fprintln(os.Stderr, `not logged in (run "netregctl login <username>")`)
				return &cli.ExitError{Code: 1}
			}
			if err != nil {
				return err
			}

			claims, err := session.Decode(credential)
			if errors.Is(err, session.ErrCredentialExpired) {
				fmt.Fprintln(os.Stderr, `session expired (run "netregctl login <username>")`)
				return &cli.ExitError{Code: 1}
			}
			if err != nil {
				return fmt.Errorf("saved session is unreadable: %w", err)
			}

			fmt.Printf("Username:     %s\n", claims.Contents.Username)
			fmt.Printf("Admin:        %t\n", claims.Identity().IsAdmin)
			fmt.Printf("Expires:      %s\n", claims.ExpiresAt().Local())
			fmt.Printf("Session file: %s\n", env.store.Path())

			if !verify {
				return nil
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			// The server has no dedicated verification endpoint; a
			// device list with the credential proves it is accepted.
			if _, err := env.client.Devices(requestCtx, credential); err != nil {
				fmt.Printf("Status:       invalid (%s)\n", verifyFailure(err))
				return &cli.ExitError{Code: 1}
			}
			fmt.Printf("Status:       valid\n")
			return nil
		},
	}
}

func verifyFailure(err error) string {
	if netreg.Rejected(err) {
		return netreg.RejectedBody(err)
	}
	return err.Error()
}
