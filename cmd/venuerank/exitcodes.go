package main

import (
	"errors"

	"github.com/matsen/venuerank/internal/dblp"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, missing reference data)
	ExitDataError   = 3 // Data error (malformed input, unreadable reference table)
	ExitNotFound    = 4 // No matching author on DBLP
	ExitRateLimited = 5 // DBLP rate limit hit; retry later
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor picks the process exit code for an error returned by a command.
// Rate limiting wins over any code attached further up.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if dblp.IsRateLimited(err) {
		return ExitRateLimited
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}
