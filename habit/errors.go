/*
errors.go - Error types for the habit engine

PURPOSE:
  All sentinel errors in one place. Stores and transports wrap these with
  context; callers classify with errors.Is or the helpers below.

ERROR CATEGORIES:
  1. NotFound     - the singleton document does not exist yet
  2. InvalidInput - malformed payloads (bad date, non-string text)
  3. Client rules - routine name uniqueness, default routine protection
  4. Staleness    - a response superseded by a newer one for the same resource

  Anything else (driver, network) is transient and surfaces as a 500.

SEE ALSO:
  - api/handlers.go: Maps these to HTTP status codes
  - client/http.go: Maps HTTP status codes back to these
*/
package habit

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDocumentNotFound is returned when the singleton document was never saved.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned for malformed request payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateRoutine is returned when a day already has a routine with that name.
	ErrDuplicateRoutine = errors.New("routine already exists")

	// ErrDefaultRoutine is returned when deleting a routine from the default template.
	ErrDefaultRoutine = errors.New("default routines cannot be deleted")

	// ErrEmptyName is returned when adding a routine whose trimmed name is empty.
	ErrEmptyName = errors.New("routine name is empty")

	// ErrStaleResponse is returned when a newer response for the same resource was already applied.
	ErrStaleResponse = errors.New("stale response discarded")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RoutineError carries the routine a client-side rule rejected.
type RoutineError struct {
	Name string
	Err  error
}

func (e *RoutineError) Error() string {
	return fmt.Sprintf("routine %q: %v", e.Name, e.Err)
}

func (e *RoutineError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicateRoutine) ||
		errors.Is(err, ErrDefaultRoutine) ||
		errors.Is(err, ErrEmptyName)
}
