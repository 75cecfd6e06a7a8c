// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package deviceui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the device UI.
type KeyMap struct {
	// Table navigation.
	Up   key.Binding
	Down key.Binding

	// Device operations.
	Edit   key.Binding // Open the inline edit form for the selected device.
	Toggle key.Binding // Flip Enabled and submit immediately.
	Add    key.Binding // Open the add form.
	Delete key.Binding // Delete the selected device.
	Reload key.Binding // Re-fetch the device list.

	// Form handling.
	Submit    key.Binding
	Cancel    key.Binding
	NextField key.Binding

	// Session.
	Logout key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "t"),
		key.WithHelp("space", "enable/disable"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add device"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "log out"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
