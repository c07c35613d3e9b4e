// Package dErrors defines coded domain errors shared by services and transports.
//
// Stores return pkg/platform/sentinel errors (infrastructure facts); services
// translate those into coded errors so transports can map them to responses
// without inspecting store internals.
package dErrors

import "errors"

// Code classifies a domain error for transport mapping.
type Code string

const (
	// CodeInvalidInput marks a violated field validation rule.
	CodeInvalidInput Code = "invalid_input"
	// CodeConflict marks a uniqueness conflict (nickname or email in use).
	CodeConflict Code = "conflict"
	// CodeNotFound marks a lookup for an account that has no history or view.
	CodeNotFound Code = "not_found"
	// CodeCorrupted marks structurally invalid stored history. Fatal and
	// alertable; never caused by user input.
	CodeCorrupted Code = "corrupted_state"
	// CodeInternal marks everything else.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with a human-readable description.
type Error struct {
	Code Code
	Desc string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Desc + ": " + e.Err.Error()
	}
	return e.Desc
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error.
func New(code Code, desc string) *Error {
	return &Error{Code: code, Desc: desc}
}

// Wrap builds a coded error around an underlying cause.
func Wrap(code Code, desc string, err error) *Error {
	return &Error{Code: code, Desc: desc, Err: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
