// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package deviceui is the interactive terminal UI for the netreg
// client: a login form and the registered-device table with inline
// editing, add/delete, and enable toggling.
//
// The model has two views. The login view submits credentials and, on
// success, saves the returned token and switches to the devices view.
// The devices view runs the session guard on entry — an absent,
// undecodable, or expired credential routes straight back to login
// without surfacing an error. Every device operation round-trips
// through the server and is followed by a full reload; the UI renders
// whatever snapshot the collection manager last produced.
//
// Network calls run as bubbletea commands in background goroutines;
// their results come back as messages tagged with the collection
// generation at dispatch time. A result from a previous view
// activation (the user logged out or re-entered the view while the
// request was in flight) is discarded instead of mutating state it no
// longer owns.
package deviceui
