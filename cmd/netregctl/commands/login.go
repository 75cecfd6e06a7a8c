// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tortis/netregctl/cmd/netregctl/cli"
	"github.com/tortis/netregctl/lib/session"
)

func loginCommand() *cli.Command {
	var serverURL string
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate and save a session",
		Description: `Log in to a netreg server and save the session locally.

After login, commands like "netregctl device list" and "netregctl ui"
use the saved session transparently. The session file is stored at
~/.config/netregctl/session (or $NETREGCTL_SESSION_FILE if set) with
mode 0600, since it contains the access credential.

The password can be provided via --password-file (a path to a file
containing the password) or prompted interactively if --password-file
is "-" or omitted.`,
		Usage: "netregctl login <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "netregctl login alice",
			},
			{
				Description: "Log in to an explicit server",
				Command:     "netregctl login alice --server http://netreg.example.com:3000",
			},
			{
				Description: "Log in with password from file",
				Command:     "netregctl login alice --password-file /path/to/password",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing password, or - to prompt interactively (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return fmt.Errorf("username is required\n\nUsage: netregctl login <username> [flags]")
			}
			username := args[0]
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument: %s", args[1])
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}

			password, err := readLoginPassword(passwordFile)
			if err != nil {
				return err
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			credential, err := env.client.Login(requestCtx, username, password)
			if err != nil {
				return serverMessage("login failed", err)
			}

			claims, err := session.Decode(credential)
			if err != nil {
				return fmt.Errorf("server returned an unusable credential: %w", err)
			}

			if err := env.store.Save(credential); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			logger.Info("logged in",
				"username", claims.Contents.Username,
				"admin", claims.Identity().IsAdmin,
				"server", env.client.BaseURL(),
				"expires", claims.ExpiresAt())

			fmt.Fprintf(os.Stderr, "Logged in as %s\n", claims.Contents.Username)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", env.store.Path())
			return nil
		},
	}
}

// readLoginPassword reads the password for the login command. An
// empty or "-" passwordFile prompts on the terminal with echo
// disabled; otherwise the file's contents are used with trailing
// newlines stripped.
func readLoginPassword(passwordFile string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", fmt.Errorf("file %s is empty (after stripping trailing newlines)", passwordFile)
		}
		return password, nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", fmt.Errorf("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(passwordBytes), nil
}
