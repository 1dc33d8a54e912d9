/*
errors.go - Centralized error types for the WOC pipeline

PURPOSE:
  All error types in one place for consistency and discoverability.
  Per-order problems never abort a batch; only setup problems do.

ERROR CATEGORIES:
  1. MissingDataDefault - never an error value; extractors default silently
  2. UnresolvedClassification - a decision tree fell through
  3. LookupMiss - an external table had no entry for the key
  4. FatalSetup - malformed input, unparsable primary date, missing table

USAGE:
    if errors.Is(err, woc.ErrNotFound) {
        // record a diagnostic, carry on with an absent value
    }
    if woc.IsFatal(err) {
        // abort the batch
    }

SEE ALSO:
  - diagnostics.go: Where contained errors end up
  - pipeline/runner.go: The only place fatal errors escalate
*/
package woc

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned by lookup services when a key has no entry.
	ErrNotFound = errors.New("not found")

	// ErrUnresolved is returned when no classification rule matched.
	ErrUnresolved = errors.New("unresolved classification")

	// ErrFatalSetup aborts a batch: bad input file, missing lookup table,
	// unparsable primary date.
	ErrFatalSetup = errors.New("fatal setup error")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// LookupMissError names the table and key that had no entry.
type LookupMissError struct {
	Table string
	Key   string
}

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("%s: no entry for %q", e.Table, e.Key)
}

func (e *LookupMissError) Unwrap() error { return ErrNotFound }

// ClassificationError is reported when a field cannot be derived for an
// order. The field is left blank in the output.
type ClassificationError struct {
	Item   string
	Field  string
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%s: %s unresolved: %s", e.Item, e.Field, e.Reason)
}

func (e *ClassificationError) Unwrap() error { return ErrUnresolved }

// SetupError wraps a failure that prevents the batch from running.
type SetupError struct {
	Op   string
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SetupError) Unwrap() []error { return []error{ErrFatalSetup, e.Err} }

// Setup builds a SetupError.
func Setup(op, path string, err error) error {
	return &SetupError{Op: op, Path: path, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsFatal returns true if the error should abort the batch.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatalSetup)
}

// IsNotFound returns true if the error is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnresolved returns true if the error is an unresolved classification.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnresolved)
}
