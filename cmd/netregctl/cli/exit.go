// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error line. Commands that have already written their own output
// (like "whoami --verify" reporting an invalid session) return an
// ExitError; main checks for the ExitCode interface and exits
// silently with the code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
