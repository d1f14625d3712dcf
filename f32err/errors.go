// Package f32err defines the failure taxonomy for f32sweep.
//
// Every error surfaced by the sweep driver, the plan loader, or the CLI maps
// to exactly one FailureClass, which determines the process exit code. A
// round-trip mismatch is a defect in the decimal conversion under test; a
// consistency violation is a defect in f32sweep itself.
package f32err

import (
	"errors"
	"fmt"
)

// FailureClass is a stable failure category.
type FailureClass string

const (
	RoundTripMismatch    FailureClass = "ROUNDTRIP_MISMATCH"
	ConsistencyViolation FailureClass = "CONSISTENCY_VIOLATION"
	CLIUsage             FailureClass = "CLI_USAGE"
	InternalIO           FailureClass = "INTERNAL_IO"
	InternalError        FailureClass = "INTERNAL_ERROR"
)

// NoPattern marks an Error that is not tied to a single bit pattern.
const NoPattern int64 = -1

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case CLIUsage:
		return 2
	case RoundTripMismatch:
		return 3
	case ConsistencyViolation:
		return 4
	default:
		return 10
	}
}

// Error is the structured error type for all f32sweep failures.
type Error struct {
	Class   FailureClass
	Pattern int64
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Pattern >= 0 {
		return fmt.Sprintf("f32err: %s at pattern 0x%08x: %s", e.Class, uint32(e.Pattern), msg)
	}
	return fmt.Sprintf("f32err: %s: %s", e.Class, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, pattern int64, message string) *Error {
	return &Error{Class: class, Pattern: pattern, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, pattern int64, message string, cause error) *Error {
	return &Error{Class: class, Pattern: pattern, Message: message, Cause: cause}
}

// ClassOf reports the failure class carried by err, or InternalError when err
// does not wrap an *Error.
func ClassOf(err error) FailureClass {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return InternalError
}
