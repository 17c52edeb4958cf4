// SPDX-License-Identifier: AGPL-3.0-or-later

package clierr

import (
	"errors"
	"fmt"
)

// Process exit codes. Anything that is not a clean run exits 1; the
// distinction is kept for callers that want to tell them apart.
const (
	ExitOK           = 0
	ExitChecksFailed = 1
	ExitSetup        = 1
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// Silent reports whether the error message has already been rendered to the
// user (for example as a failed check section) and should not be printed again.
func (e *ExitError) Silent() bool { return e.msg == "" && e.cause == nil }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Quiet returns an error that only sets the exit code.
func Quiet(code int) error {
	return &ExitError{code: normalize(code)}
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// IsSilent reports whether err is an ExitError that carries no message.
func IsSilent(err error) bool {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Silent()
	}
	return false
}

func normalize(code int) int {
	// Exit code 0 means success; errors should never be 0.
	if code <= 0 {
		return 1
	}
	return code
}
