// Package hpcerrors defines the typed, wrappable error values returned by
// the constraint and composition stages of the pipeline and by Generate. Each
// type implements error and, where it wraps another error, Unwrap, so
// callers can use errors.Is/errors.As against the sentinels and types
// exported here rather than matching on message text.
package hpcerrors

import (
	"errors"
	"fmt"

	"github.com/lindner-jonas/hybrid-process-collaboration-models/internal/util"
)

// ErrEmptyInput is returned by compose.Processes when it is given no
// processes at all; at least one process is required to seed the
// multi-process automaton. Generate does not return it: it answers an
// empty process list with a degenerate one-state product instead.
var ErrEmptyInput = errors.New("hpcerrors: at least one process is required")

// UnknownConstraintKind is returned when a Constraint names a kind that is
// not one of the eighteen templates in the constraint catalog.
type UnknownConstraintKind struct {
	Kind  string
	Valid []string
}

func (e UnknownConstraintKind) Error() string {
	return fmt.Sprintf("unknown constraint kind %q (valid kinds are %s)", e.Kind, util.MakeTextList(append([]string(nil), e.Valid...)))
}

// DuplicateConstraintId is returned when two constraints in the same run
// share an id; ids must be unique within a single call to Generate.
type DuplicateConstraintId struct {
	ID string
}

func (e DuplicateConstraintId) Error() string {
	return fmt.Sprintf("duplicate constraint id %q", e.ID)
}

// InternalInvariantViolation wraps the description of an invariant the
// pipeline expected to hold but did not (e.g. a composed automaton was
// found to not be total after totalization). It is either raised via
// panic at the point the invariant is checked and converted back into a
// returned error at the single recover point in Generate, or returned
// directly by input validation inside Generate (e.g. a process transition
// naming an unknown state); callers should never construct one directly.
type InternalInvariantViolation struct {
	Detail string
	wrap   error
}

func (e InternalInvariantViolation) Error() string {
	if e.wrap != nil {
		return fmt.Sprintf("internal invariant violated: %s: %v", e.Detail, e.wrap)
	}
	return fmt.Sprintf("internal invariant violated: %s", e.Detail)
}

func (e InternalInvariantViolation) Unwrap() error {
	return e.wrap
}

// WrapInvariant returns an InternalInvariantViolation describing detail and
// wrapping cause.
func WrapInvariant(cause error, detail string, a ...interface{}) error {
	return InternalInvariantViolation{
		Detail: fmt.Sprintf(detail, a...),
		wrap:   cause,
	}
}
