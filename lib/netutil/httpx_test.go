// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestDecodeResponse(t *testing.T) {
	t.Parallel()

	var result struct {
		Name string `json:"name"`
	}
	if err := DecodeResponse(strings.NewReader(`{"name":"printer"}`), &result); err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if result.Name != "printer" {
		t.Errorf("Name = %q, want printer", result.Name)
	}
}

func TestDecodeResponseInvalidJSON(t *testing.T) {
	t.Parallel()

	var result map[string]any
	if err := DecodeResponse(strings.NewReader(`{not json`), &result); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestErrorBodyTrimsNewline(t *testing.T) {
	t.Parallel()

	// http.Error appends a newline to the message.
	got := ErrorBody(strings.NewReader("No such device exists.\n"))
	if got != "No such device exists." {
		t.Errorf("ErrorBody = %q, want trimmed message", got)
	}
}

func TestErrorBodyEmpty(t *testing.T) {
	t.Parallel()

	if got := ErrorBody(strings.NewReader("")); got != "" {
		t.Errorf("ErrorBody = %q, want empty", got)
	}
}
