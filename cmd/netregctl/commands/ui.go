// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tortis/netregctl/cmd/netregctl/cli"
	"github.com/tortis/netregctl/lib/deviceui"
)

func uiCommand() *cli.Command {
	var serverURL string

	return &cli.Command{
		Name:    "ui",
		Summary: "Open the interactive device table",
		Description: `Open the full-screen terminal UI.

Without a valid saved session the UI opens on a login form; otherwise
it opens directly on the device table. The table supports editing,
enabling and disabling, adding, and deleting devices, with every
change confirmed against the server's state.`,
		Usage: "netregctl ui [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("ui", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("stdout is not a terminal (use the \"device\" subcommands for scripting)")
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}

			logger.Info("starting ui", "server", env.client.BaseURL())

			model := deviceui.New(env.client, env.store, env.timeout())
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("ui: %w", err)
			}
			return nil
		},
	}
}
