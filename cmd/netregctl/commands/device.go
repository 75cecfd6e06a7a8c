// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/tortis/netregctl/cmd/netregctl/cli"
	"github.com/tortis/netregctl/lib/netreg"
)

func deviceCommand() *cli.Command {
	return &cli.Command{
		Name:    "device",
		Summary: "Manage registered devices",
		Description: `Manage device registrations from scripts.

All subcommands require a saved session (see "netregctl login").
Regular users see and manage their own devices; admins see all
devices and can set owners.`,
		Subcommands: []*cli.Command{
			deviceListCommand(),
			deviceAddCommand(),
			deviceUpdateCommand(),
			deviceSetEnabledCommand("enable", true),
			deviceSetEnabledCommand("disable", false),
			deviceRemoveCommand(),
		},
	}
}

func deviceListCommand() *cli.Command {
	var serverURL string
	var jsonOutput bool

	return &cli.Command{
		Name:    "list",
		Summary: "List registered devices",
		Usage:   "netregctl device list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
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
			credential, _, err := env.requireCredential()
			if err != nil {
				return err
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			deviceList, err := env.client.Devices(requestCtx, credential)
			if err != nil {
				return serverMessage("list devices", err)
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(deviceList)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "MAC\tNAME\tOWNER\tSTATUS")
			for _, device := range deviceList {
				status := "disabled"
				if device.Enabled {
					status = "enabled"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", device.MAC, device.Device, device.Owner, status)
			}
			return writer.Flush()
		},
	}
}

func deviceAddCommand() *cli.Command {
	var serverURL string
	var owner string

	return &cli.Command{
		Name:    "add",
		Summary: "Register a new device",
		Description: `Register a device by MAC address.

The server canonicalizes the MAC address and strips unsupported
characters from the name. New devices start enabled. The --owner flag
assigns the device to another user and requires an admin session;
without it the device is registered to the logged-in user.`,
		Usage: "netregctl device add <mac> <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register a laptop for the current user",
				Command:     "netregctl device add aa:bb:cc:dd:ee:ff laptop",
			},
			{
				Description: "Register a device for another user (admin)",
				Command:     "netregctl device add aa:bb:cc:dd:ee:ff printer --owner bob",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			flagSet.StringVar(&owner, "owner", "", "register the device to this user (admin only)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <mac> and <name>\n\nUsage: netregctl device add <mac> <name> [flags]")
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}
			credential, _, err := env.requireCredential()
			if err != nil {
				return err
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			created, err := env.client.AddDevice(requestCtx, credential, netreg.Device{
				MAC:    args[0],
				Device: args[1],
				Owner:  owner,
			})
			if err != nil {
				return serverMessage("add device", err)
			}

			logger.Info("device added", "mac", created.MAC, "name", created.Device, "owner", created.Owner)
			fmt.Printf("Added %s (%s), owner %s\n", created.Device, created.MAC, created.Owner)
			return nil
		},
	}
}

func deviceUpdateCommand() *cli.Command {
	var serverURL string
	var name string

	return &cli.Command{
		Name:    "update",
		Summary: "Rename a device",
		Description: `Rename a registered device.

The server keeps a device's owner fixed after registration; to move a
device to another user, remove it and re-add it with --owner.`,
		Usage: "netregctl device update <mac> [flags]",
		Examples: []cli.Example{
			{
				Description: "Rename a device",
				Command:     "netregctl device update aa:bb:cc:dd:ee:ff --name workstation",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("update", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			flagSet.StringVar(&name, "name", "", "new device name")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <mac>\n\nUsage: netregctl device update <mac> [flags]")
			}
			if name == "" {
				return fmt.Errorf("nothing to change (set --name)")
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}
			credential, _, err := env.requireCredential()
			if err != nil {
				return err
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			current, err := findDevice(requestCtx, env, credential, args[0])
			if err != nil {
				return err
			}

			staged := *current
			staged.Device = name

			updated, err := env.client.UpdateDevice(requestCtx, credential, current.MAC, staged)
			if err != nil {
				return serverMessage("update device", err)
			}

			logger.Info("device updated", "mac", updated.MAC, "name", updated.Device, "owner", updated.Owner)
			fmt.Printf("Updated %s (%s), owner %s\n", updated.Device, updated.MAC, updated.Owner)
			return nil
		},
	}
}

// deviceSetEnabledCommand builds the enable and disable subcommands,
// which differ only in the flag they write.
func deviceSetEnabledCommand(name string, enabled bool) *cli.Command {
	var serverURL string

	summary := "Enable network access for a device"
	if !enabled {
		summary = "Disable network access for a device"
	}

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   fmt.Sprintf("netregctl device %s <mac> [flags]", name),
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <mac>\n\nUsage: netregctl device %s <mac>", name)
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}
			credential, _, err := env.requireCredential()
			if err != nil {
				return err
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			current, err := findDevice(requestCtx, env, credential, args[0])
			if err != nil {
				return err
			}
			if current.Enabled == enabled {
				fmt.Printf("%s (%s) is already %sd\n", current.Device, current.MAC, name)
				return nil
			}

			staged := *current
			staged.Enabled = enabled
			updated, err := env.client.UpdateDevice(requestCtx, credential, current.MAC, staged)
			if err != nil {
				return serverMessage(name+" device", err)
			}

			logger.Info("device "+name+"d", "mac", updated.MAC, "name", updated.Device)
			fmt.Printf("%sd %s (%s)\n", strings.ToUpper(name[:1])+name[1:], updated.Device, updated.MAC)
			return nil
		},
	}
}

func deviceRemoveCommand() *cli.Command {
	var serverURL string

	return &cli.Command{
		Name:    "rm",
		Summary: "Unregister a device",
		Usage:   "netregctl device rm <mac> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("rm", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "netreg server URL (default: from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <mac>\n\nUsage: netregctl device rm <mac>")
			}

			env, err := loadEnvironment(serverURL)
			if err != nil {
				return err
			}
			credential, _, err := env.requireCredential()
			if err != nil {
				return err
			}

			requestCtx, cancel := context.WithTimeout(ctx, env.timeout())
			defer cancel()

			current, err := findDevice(requestCtx, env, credential, args[0])
			if err != nil {
				return err
			}

			if err := env.client.DeleteDevice(requestCtx, credential, current.MAC); err != nil {
				return serverMessage("remove device", err)
			}

			logger.Info("device removed", "mac", current.MAC, "name", current.Device)
			fmt.Printf("Removed %s (%s)\n", current.Device, current.MAC)
			return nil
		},
	}
}

// findDevice resolves a user-supplied MAC against the device list.
// The server stores MACs in canonical lowercase colon-separated form;
// matching is case-insensitive and accepts dashes as separators.
func findDevice(ctx context.Context, env *environment, credential, mac string) (*netreg.Device, error) {
	deviceList, err := env.client.Devices(ctx, credential)
	if err != nil {
		return nil, serverMessage("list devices", err)
	}

	wanted := strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
	for index := range deviceList {
		if strings.ToLower(deviceList[index].MAC) == wanted {
			return &deviceList[index], nil
		}
	}
	return nil, fmt.Errorf("no device with MAC %s", mac)
}
