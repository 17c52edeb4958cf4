package checks

import "errors"

var (
	// ErrToolMissing means none of a check's candidate executables is on PATH.
	ErrToolMissing = errors.New("tool not installed")

	// ErrToolFailed means a tool exited in a way its output parser could not
	// attribute to violations.
	ErrToolFailed = errors.New("tool failed")
)
