// Package apperr defines the error taxonomy shared across the application.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidGraph = errors.New("invalid graph")
)

// ValidationError reports a structural invariant violation on a candidate
// Person or Relationship. The offending operation is rejected and the graph
// is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError for the given field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidGraphError reports referential-integrity violations in an incoming
// graph document. EdgeIDs lists every edge whose source or target does not
// resolve to a known person.
type InvalidGraphError struct {
	EdgeIDs []string
}

func (e *InvalidGraphError) Error() string {
	return fmt.Sprintf("invalid graph: %d edge(s) reference unknown persons: %s",
		len(e.EdgeIDs), strings.Join(e.EdgeIDs, ", "))
}

// Unwrap makes errors.Is(err, ErrInvalidGraph) hold.
func (e *InvalidGraphError) Unwrap() error { return ErrInvalidGraph }
