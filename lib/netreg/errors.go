// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package netreg

import (
	"errors"
	"fmt"
)

// StatusError is a non-2xx response from the netreg server. The body
// is preserved verbatim: for 4xx responses the server writes a
// user-facing explanation ("This MAC address is already registered.")
// that the UI displays as-is.
type StatusError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the response body, trimmed of trailing whitespace.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("netreg: HTTP %d: %s", e.StatusCode, e.Body)
}

// Rejected reports whether err is a 4xx response — the server
// understood the request and refused it (bad credentials, invalid
// MAC, duplicate registration). Everything else (network failure,
// 5xx) is a service problem the user can only retry.
//
// The two classes get different user messages: a rejection's body is
// shown verbatim, a service problem is masked behind a generic retry
// message so raw server internals never reach the user.
func Rejected(err error) bool {
	var statusError *StatusError
	if !errors.As(err, &statusError) {
		return false
	}
	return statusError.StatusCode >= 400 && statusError.StatusCode < 500
}

// RejectedBody returns the verbatim server explanation for a 4xx
// error, or "" when err is not a rejection.
func RejectedBody(err error) string {
	var statusError *StatusError
	if errors.As(err, &statusError) && Rejected(err) {
		return statusError.Body
	}
	return ""
}
