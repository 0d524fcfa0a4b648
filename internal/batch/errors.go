package batch

import (
	"errors"
	"fmt"
)

// Kind classifies batch failures.
type Kind string

// Failure kinds.
const (
	KindInput       Kind = "input"       // missing or malformed batch, sample, data or override input
	KindResolution  Kind = "resolution"  // registry or variant input could not be resolved
	KindCompilation Kind = "compilation" // the compiler failed
	KindWrite       Kind = "write"       // output could not be written
)

// Error is the single failure type returned by Run, Compile and Plan.
// Message is the primary human-readable diagnostic; Detail, when set, is a
// second line identifying the sample and variant being processed.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + " (" + e.Detail + ")"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Diagnostics returns the lines to print for this failure.
func (e *Error) Diagnostics() []string {
	if e.Detail != "" {
		return []string{e.Message, e.Detail}
	}
	return []string{e.Message}
}

// IsKind reports whether err is a batch Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}

func inputErr(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInput, Message: fmt.Sprintf(format, args...), Err: err}
}

func resolutionErr(err error, format string, args ...any) *Error {
	return &Error{Kind: KindResolution, Message: fmt.Sprintf(format, args...), Err: err}
}

// unknownFailure carries a non-error value raised by a compiler panic.
type unknownFailure struct {
	value any
}

func (u *unknownFailure) Error() string {
	return fmt.Sprintf("unknown failure: %v", u.value)
}

func compilationErr(err error) *Error {
	var unknown *unknownFailure
	if errors.As(err, &unknown) {
		return &Error{Kind: KindCompilation, Message: "An unknown error occurred during compilation.", Err: err}
	}
	return &Error{Kind: KindCompilation, Message: "Error during compilation: " + err.Error(), Err: err}
}
