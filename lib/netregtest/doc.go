// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package netregtest is a test double for the netreg device
// registration server. It implements the same request/response
// contract the real server exposes — form-encoded login minting a
// three-segment HMAC token, JSON device CRUD keyed by MAC, plain-text
// 4xx bodies — so client tests exercise the full wire protocol
// instead of stubbing it.
//
// The double reproduces the server's observable behavior, including
// the normalization the client must treat as authoritative: MAC
// canonicalization, device-name sanitization, owner stamping for
// non-admin sessions, and Enabled forced on at registration.
//
// It deliberately defines its own Device mirror type rather than
// importing the client's, so the client packages can depend on this
// package in their tests without an import cycle.
package netregtest
