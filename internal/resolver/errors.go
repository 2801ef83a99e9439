package resolver

import (
	"fmt"
	"strings"

	"github.com/alexhsamuel/supdoc/internal/docpath"
)

// NotFoundError reports that a path component was absent
// at some step of a resolution,
// or that a module could not be loaded.
// It is a per-request failure, never fatal.
type NotFoundError struct {
	// Path is the path whose resolution failed.
	Path docpath.Path

	// Missing is the longest prefix of the path
	// up to and including the component that was absent.
	Missing string

	// Cause is the loader failure that surfaced as this error, if any.
	Cause error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no such name: %v", e.Missing)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

// CycleError reports that ref resolution revisited a path
// it had already passed through within a single call.
type CycleError struct {
	// Path is the path whose resolution failed.
	Path docpath.Path

	// Seen lists the paths visited, in order, ending with the repeat.
	Seen []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic reference resolving %v: %v", e.Path, strings.Join(e.Seen, " -> "))
}
