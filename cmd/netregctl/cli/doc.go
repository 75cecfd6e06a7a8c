// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the small command framework behind the
// netregctl binary: a [Command] tree with pflag-based flag parsing,
// structured help output, and typo suggestions for unknown
// subcommands. Commands are assembled into a tree in
// cmd/netregctl/commands and dispatched from main.
package cli
