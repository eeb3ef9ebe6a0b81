// Package errs defines the error taxonomy shared across the GMOD/VIS core.
//
// Every error surfaced to a caller carries one of the five kinds below; the
// kind is the caller-facing contract, not the Go type name. Strict parsers
// (Parse) return these directly; tolerant parsers (TryParse) never return
// them and instead report failure via a boolean plus a parsingerrors
// accumulator.
package errs

import "fmt"

// Kind classifies an error the way callers are expected to switch on it.
type Kind string

const (
	// InvalidArgument marks a precondition violation visible to callers,
	// e.g. version ordering, a builder value out of range.
	InvalidArgument Kind = "InvalidArgument"

	// NotFound marks a code absent from the GMOD, or a seed not found
	// during path parsing.
	NotFound Kind = "NotFound"

	// ParseError marks a structural parse failure: empty input, missing
	// separator, unknown code, location grammar violation. Carries a
	// Stage tag naming which accumulator stage raised it.
	ParseError Kind = "ParseError"

	// InvalidState marks an algorithmic invariant violation: occurrence
	// overflow, conflicting locations within one individualizable set,
	// a missing root. Prefer invariant.Invariant for the fail-fast path;
	// use this kind when the caller should be able to recover.
	InvalidState Kind = "InvalidState"

	// ConversionFailed marks a versioning step that could not produce a
	// valid target node or path.
	ConversionFailed Kind = "ConversionFailed"
)

// Error is the structured error type returned by this module's strict APIs.
type Error struct {
	Kind    Kind
	Stage   string // populated only for Kind == ParseError
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Stage != "" {
		prefix = fmt.Sprintf("%s[%s]", e.Kind, e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for diagnostic consumers (CLI, logs).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates an Error of the given kind with no wrapped cause.
func New(kind Kind, message string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(message, args...)}
}

// Wrap creates an Error of the given kind wrapping an existing error.
func Wrap(kind Kind, cause error, message string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(message, args...), Cause: cause}
}

// NewParseError creates a ParseError tagged with the accumulator stage that
// raised it (see package parsingerrors).
func NewParseError(stage, message string, args ...any) *Error {
	return &Error{Kind: ParseError, Stage: stage, Message: fmt.Sprintf(message, args...)}
}

// NewNotFound creates a NotFound error for a missing GMOD code.
func NewNotFound(code string) *Error {
	return New(NotFound, "code %q not found", code).WithContext("code", code)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	}
	if e == nil {
		return false
	}
	return e.Kind == kind
}
