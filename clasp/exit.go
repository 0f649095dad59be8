package clasp

import (
	"errors"
	"fmt"
)

// ExitRequest asks the caller to stop processing and terminate with Code.
// It is not an error: found-callbacks such as --help and --version use it
// for a graceful early exit.
type ExitRequest struct {
	Code int
}

func (r *ExitRequest) String() string {
	return fmt.Sprintf("exit(%d)", r.Code)
}

// Exit returns an exit request for code.
func Exit(code int) *ExitRequest {
	return &ExitRequest{Code: code}
}

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3}
}

// ExitCodes maps errors to process exit codes.
type ExitCodes struct {
	byKind   map[ErrorKind]int
	defaults ExitCodeDefaults
}

// NewExitCodes returns a mapping prewired for every error kind.
func NewExitCodes() *ExitCodes {
	m := &ExitCodes{
		byKind:   make(map[ErrorKind]int),
		defaults: defaultExitDefaults(),
	}
	m.prewire()
	return m
}

func (m *ExitCodes) prewire() {
	for _, kind := range []ErrorKind{
		KindMissingMandatory, KindMutualExclusion, KindUnknownToken,
		KindMissingParameter, KindUnexpectedParameter,
	} {
		m.byKind[kind] = m.defaults.MisusageError
	}
	m.byKind[KindConversion] = m.defaults.ValidationError
	m.byKind[KindConstraint] = m.defaults.ValidationError
	m.byKind[KindRegistration] = m.defaults.GeneralError
	m.byKind[KindLifecycle] = m.defaults.GeneralError
	m.byKind[KindValueUndefined] = m.defaults.GeneralError
}

// Define overrides the exit code used for a specific error kind.
func (m *ExitCodes) Define(kind ErrorKind, code int) *ExitCodes {
	m.byKind[kind] = code
	return m
}

// Default replaces the default codes and re-derives the per-kind mapping.
// Call it before Define, since it discards earlier overrides.
func (m *ExitCodes) Default(d ExitCodeDefaults) *ExitCodes {
	m.defaults = d
	m.byKind = make(map[ErrorKind]int)
	m.prewire()
	return m
}

// Resolve converts a parse outcome to an exit code.
// Precedence:
//  1. exit request (requested code)
//  2. error kind mapping
//  3. general error
func (m *ExitCodes) Resolve(req *ExitRequest, err error) int {
	if err == nil {
		if req != nil {
			return req.Code
		}
		return m.defaults.Success
	}

	var e *Error
	if errors.As(err, &e) {
		if code, ok := m.byKind[e.Kind]; ok {
			return code
		}
	}
	return m.defaults.GeneralError
}
