// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "netregctl",
		Subcommands: []*Command{
			{
				Name: "login",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "login"
					return nil
				},
			},
			{
				Name: "logout",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "logout"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"logout"}, testLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "logout" {
		t.Errorf("dispatched to %q, want %q", called, "logout")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "netregctl",
		Subcommands: []*Command{
			{
				Name: "device",
				Subcommands: []*Command{
					{
						Name: "list",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "device list"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"device", "list", "extra-arg"}, testLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "device list" {
		t.Errorf("dispatched to %q, want %q", called, "device list")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var serverURL string
	var remaining []string

	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "server URL")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			remaining = args
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--server", "http://example.test", "positional"}, testLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if serverURL != "http://example.test" {
		t.Errorf("server = %q", serverURL)
	}
	if len(remaining) != 1 || remaining[0] != "positional" {
		t.Errorf("remaining args = %v, want [positional]", remaining)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "netregctl",
		Subcommands: []*Command{
			{Name: "login", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "whoami", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"logn"}, testLogger())
	if err == nil {
		t.Fatal("unknown command did not error")
	}
	if !strings.Contains(err.Error(), `did you mean "login"`) {
		t.Errorf("error %q missing suggestion", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "device",
		Subcommands: []*Command{
			{Name: "list", Summary: "List devices", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), nil, testLogger())
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute() = %v, want subcommand required", err)
	}
}

func TestCommand_PrintHelp_ListsSubcommands(t *testing.T) {
	root := &Command{
		Name:        "netregctl",
		Description: "Manage registered network devices.",
		Subcommands: []*Command{
			{Name: "login", Summary: "Authenticate and save a session"},
			{Name: "device", Summary: "Manage devices"},
		},
		Examples: []Example{
			{Description: "Sign in", Command: "netregctl login alice"},
		},
	}

	var output bytes.Buffer
	root.PrintHelp(&output)
	help := output.String()

	for _, want := range []string{"Manage registered network devices.", "login", "Authenticate and save a session", "netregctl login alice"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestCommand_Execute_HelpFlagPrintsWithoutError(t *testing.T) {
	root := &Command{
		Name:        "netregctl",
		Subcommands: []*Command{{Name: "login", Summary: "Authenticate"}},
	}

	if err := root.Execute(context.Background(), []string{"--help"}, testLogger()); err != nil {
		t.Errorf("--help returned error: %v", err)
	}
}

func TestSuggestCommand_Threshold(t *testing.T) {
	commands := []*Command{{Name: "login"}, {Name: "logout"}, {Name: "whoami"}}

	if got := suggestCommand("lgin", commands); got != "login" {
		t.Errorf("suggestCommand(lgin) = %q, want login", got)
	}
	if got := suggestCommand("zzzzzzzz", commands); got != "" {
		t.Errorf("suggestCommand(zzzzzzzz) = %q, want no suggestion", got)
	}
}
