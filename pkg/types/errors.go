// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a run failed. Callers branch on the kind
// instead of matching error values.
type ErrorKind string

const (
	// KindFetchFailure means the page could not be retrieved after all retries.
	KindFetchFailure ErrorKind = "fetch_failure"

	// KindContentTooShortOrMissing means the commentary was absent or shorter
	// than the minimum length after normalization.
	KindContentTooShortOrMissing ErrorKind = "content_too_short_or_missing"

	// KindDateMissing means no date could be determined.
	KindDateMissing ErrorKind = "date_missing"

	// KindCorruptHistory means the stored history could not be read. It is
	// recovered locally and only surfaces through warnings.
	KindCorruptHistory ErrorKind = "corrupt_history"

	// KindPersistenceFailure means writing an output file failed.
	KindPersistenceFailure ErrorKind = "persistence_failure"
)

// Error is a run failure tagged with its kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError returns an *Error of the given kind wrapping err (which may be nil).
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
