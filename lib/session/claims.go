// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Errors returned by Decode, DecodeAt, and Store.Identity. All three
// mean "not authenticated" to the guard; they are distinct so tests
// and diagnostics can tell the failure modes apart.
var (
	ErrNoCredential        = errors.New("session: no credential stored")
	ErrMalformedCredential = errors.New("session: credential is not a well-formed token")
	ErrCredentialExpired   = errors.New("session: credential has expired")
)

// Claims is the decoded payload of a netreg credential. The credential
// is three dot-separated base64 segments; the middle segment is JSON
// in this shape. The signature segment is opaque to the client.
type Claims struct {
	// Contents carries the identity claims the server embedded at
	// login time.
	Contents Contents `json:"contents"`

	// Exp is a Unix timestamp (seconds) after which the server will
	// reject the credential.
	Exp int64 `json:"exp"`
}

// Contents are the identity claims inside a credential.
type Contents struct {
	// Username is the authenticated user, for display and for
	// conditional rendering only — authorization is server-side.
	Username string `json:"username"`

	// Admin is "yes" for administrator sessions and "no" or absent
	// otherwise. No other value grants the admin capability.
	Admin string `json:"admin,omitempty"`
}

// Identity is the guard's view of a valid session.
type Identity struct {
	// Username is the authenticated user's name.
	Username string

	// IsAdmin is a rendering capability flag, true iff the admin
	// claim is exactly "yes". It gates what the UI shows, never what
	// the server allows.
	IsAdmin bool
}

// Identity extracts the display identity from the claims.
func (claims *Claims) Identity() *Identity {
	return &Identity{
		Username: claims.Contents.Username,
		IsAdmin:  claims.Contents.Admin == "yes",
	}
}

// ExpiresAt returns the expiry as a time.Time.
func (claims *Claims) ExpiresAt() time.Time {
	return time.Unix(claims.Exp, 0)
}

// Decode parses a credential's claims and checks expiry against the
// current time. Malformed input of any kind — wrong segment count,
// bad base64, bad JSON — returns ErrMalformedCredential rather than
// propagating the underlying error: the guard treats every decode
// failure identically to an absent credential.
func Decode(credential string) (*Claims, error) {
	return DecodeAt(credential, time.Now())
}

// DecodeAt is like Decode but accepts an explicit time for the expiry
// check. This supports deterministic testing.
func DecodeAt(credential string, now time.Time) (*Claims, error) {
	segments := strings.Split(credential, ".")
	if len(segments) != 3 {
		return nil, ErrMalformedCredential
	}

	payload, err := decodeSegment(segments[1])
	if err != nil {
		return nil, ErrMalformedCredential
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformedCredential
	}

	if claims.Exp < now.Unix() {
		return nil, ErrCredentialExpired
	}
	return &claims, nil
}

// decodeSegment decodes a base64url token segment. The netreg server
// emits padded encoding; standard JWT tooling emits unpadded. Accept
// both.
func decodeSegment(segment string) ([]byte, error) {
	if payload, err := base64.URLEncoding.DecodeString(segment); err == nil {
		return payload, nil
	}
	return base64.RawURLEncoding.DecodeString(segment)
}
