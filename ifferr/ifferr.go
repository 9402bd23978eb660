// Package ifferr defines the two typed failure values used throughout the
// iff module: IOError for short reads/writes and other stream failures,
// and StructuralError for malformed chunk hierarchies. Both carry the
// path.Path at which the failure was detected so callers can log a
// precise location without holding references into a partially built
// chunk tree.
package ifferr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jonchammer/iff/path"
)

// IOError reports a short read, short write, or seek failure while
// processing a single attribute of a chunk.
type IOError struct {
	Path      path.Path
	Attribute string
	Expected  int
	Cause     error
}

// NewIOError builds an IOError, wrapping cause with github.com/pkg/errors
// so a %+v format on the result carries a stack trace back to the call
// site that first observed the short read/write.
func NewIOError(p path.Path, attribute string, expected int, cause error) *IOError {
	return &IOError{
		Path:      p,
		Attribute: attribute,
		Expected:  expected,
		Cause:     errors.WithStack(cause),
	}
}

func (e *IOError) Error() string {
	return fmt.Sprintf(
		"iff: I/O error at %s: attribute %q expected %d byte(s): %v",
		e.Path, e.Attribute, e.Expected, e.Cause,
	)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// StructuralError reports a malformed identifier, an illegal child in
// context, a group whose declared size overflows or underflows its
// children, or any other structural violation of the chunk grammar.
type StructuralError struct {
	Path        path.Path
	Description string
}

// NewStructuralError builds a StructuralError at the given path.
func NewStructuralError(p path.Path, description string) *StructuralError {
	return &StructuralError{Path: p, Description: description}
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("iff: structural error at %s: %s", e.Path, e.Description)
}

// Error is the common interface satisfied by both failure kinds, useful
// when a caller wants to handle "any iff error" generically without
// caring whether it was an I/O or structural failure.
type Error interface {
	error
	AttributePath() path.Path
}

// AttributePath implements Error.
func (e *IOError) AttributePath() path.Path { return e.Path }

// AttributePath implements Error.
func (e *StructuralError) AttributePath() path.Path { return e.Path }
