package clasp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzonerzy/go-clasp/internal/fuzzy"
)

// ErrorKind represents error categories for binding, parsing and validation.
// These categories drive exit-code mapping (via ExitCodes).
type ErrorKind string

const (
	KindConversion          ErrorKind = "conversion"
	KindConstraint          ErrorKind = "constraint"
	KindValueUndefined      ErrorKind = "value_undefined"
	KindRegistration        ErrorKind = "registration"
	KindMutualExclusion     ErrorKind = "mutual_exclusion"
	KindMissingMandatory    ErrorKind = "missing_mandatory"
	KindUnknownToken        ErrorKind = "unknown_token"
	KindLifecycle           ErrorKind = "lifecycle"
	KindMissingParameter    ErrorKind = "missing_parameter"
	KindUnexpectedParameter ErrorKind = "unexpected_parameter"
)

// Error is the single error type returned by the engine.
type Error struct {
	Kind    ErrorKind
	Message string
	// Option is the label of the offending option or argument, if any.
	Option string
	// Alternatives lists related labels: the full mutually exclusive set,
	// or the mandatory options that are missing.
	Alternatives []string
	Suggestion   string
	Cause        error
}

func (e *Error) Error() string {
	if e.Suggestion == "" {
		return e.Message
	}
	return e.Message + " (did you mean '" + e.Suggestion + "'?)"
}

// Unwrap exposes the underlying cause, typically a strconv or os error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates an Error with a formatted message
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withOption(label string) *Error {
	e.Option = label
	return e
}

func (e *Error) withAlternatives(labels []string) *Error {
	e.Alternatives = append([]string(nil), labels...)
	return e
}

func (e *Error) withCause(err error) *Error {
	e.Cause = err
	return e
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// unknownTokenError builds the error for an unmatched option or sub-parser
// name, attaching the closest known spelling when one is near enough.
func unknownTokenError(what, token string, candidates []string) *Error {
	err := newError(KindUnknownToken, "unknown %s: %s", what, token)
	err.Option = token
	err.Suggestion = fuzzy.FindBest(token, candidates, 2)
	return err
}

func joinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}
