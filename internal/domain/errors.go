package domain

import "errors"

var (
	// ErrInvalidConfiguration is returned for unusable options (bad patterns, bad values).
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrPathNotFound is returned when a configured root does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrNoTestsDiscovered is returned when no roots yielded a single test file.
	ErrNoTestsDiscovered = errors.New("no test files discovered")
	// ErrParseFailure wraps any source parser failure other than ErrNoClassFound.
	ErrParseFailure = errors.New("parse failure")
	// ErrNoClassFound signals a file with no concrete test class. Callers skip the file.
	ErrNoClassFound = errors.New("no test class found")
	// ErrUnresolvedDependency is returned under the fail policy when a @depends
	// target is in no batch.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
)
