// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the netreg client's credential lifecycle: a
// file-backed store for the single bearer token, decoding of the
// token's claims, and the guard check that every protected operation
// runs before touching the device API.
//
// The credential is opaque to the client except for its middle
// segment, which decodes to the claims the server embedded at login
// time (username, admin flag, expiry). The client never verifies the
// token signature — that is the server's job on every request. Expiry
// is checked locally so the client can route to login without burning
// a round trip on a token the server would reject anyway; the stored
// credential is not deleted on expiry, only ignored.
package session
