// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package netreg

// Device is a registered network device as the server reports it.
// The MAC address is the device's identity: it keys the update and
// delete endpoints and is immutable once registered. Everything the
// client displays or edits round-trips through the server — the
// canonical state of a Device always lives server-side.
type Device struct {
	// MAC is the hardware address, normalized by the server
	// (net.ParseMAC canonical form).
	MAC string `json:"MAC"`

	// Device is the display name. The server strips characters
	// outside [0-9a-zA-Z-] on write, so the value read back may
	// differ from what was submitted.
	Device string `json:"Device"`

	// Owner is the registering user. Non-admin sessions have Owner
	// stamped server-side regardless of what they submit.
	Owner string `json:"Owner"`

	// Enabled controls whether the device is granted network access.
	Enabled bool `json:"Enabled"`
}
