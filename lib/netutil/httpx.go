// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP response I/O helpers for the netreg
// client.
//
// All response body reads are bounded at MaxResponseSize to prevent
// unbounded memory allocation from a misbehaving server. These helpers
// are for JSON API responses and short plain-text error bodies — not
// for streaming transfers.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MaxResponseSize is the bound on API response body reads: 16 MB. A
// device list or error body is orders of magnitude smaller; the limit
// exists solely so that a pathological response cannot exhaust memory.
const MaxResponseSize int64 = 16 << 20

// ReadResponse reads an API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads an API response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v. Replaces the common io.ReadAll +
// json.Unmarshal pattern.
func DecodeResponse(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body and returns it as a
// trimmed string for user-facing error messages. Read errors are
// silently ignored — a partial or empty body is still useful.
//
// The netreg server writes 4xx bodies with http.Error, which appends a
// trailing newline; trimming keeps the text presentable inline.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return strings.TrimSpace(string(data))
}
