// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the netregctl CLI command tree: session
// commands (login, logout, whoami), scriptable device management
// (device list/add/update/enable/disable/rm), and the interactive
// terminal UI (ui).
package commands

import (
	"github.com/tortis/netregctl/cmd/netregctl/cli"
)

// Root builds and returns the complete netregctl command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "netregctl",
		Description: `netregctl: manage network device registrations.

Register, rename, enable, and remove devices on a netreg server,
either from scripts (the "device" subcommands) or interactively
(the "ui" command). Authenticate once with "login"; subsequent
commands use the saved session.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			uiCommand(),
			deviceCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Authenticate (prompts for password, saves session locally)",
				Command:     "netregctl login alice",
			},
			{
				Description: "Open the interactive device table",
				Command:     "netregctl ui",
			},
			{
				Description: "List registered devices",
				Command:     "netregctl device list",
			},
			{
				Description: "Register a device",
				Command:     "netregctl device add aa:bb:cc:dd:ee:ff laptop",
			},
			{
				Description: "Disable a device without unregistering it",
				Command:     "netregctl device disable aa:bb:cc:dd:ee:ff",
			},
		},
	}
}
