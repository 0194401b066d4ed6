// ABOUTME: Sentinel failure kinds and the structured LoadError returned by the DFA loader and processor.
// ABOUTME: LoadError unwraps to its kind so callers can match with errors.Is.
package dfa

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound indicates the description source could not be opened or read.
	ErrSourceNotFound = errors.New("automaton source not found")

	// ErrMalformedStructure indicates a description that references unknown states or
	// symbols, or a transition rule with too few fields.
	ErrMalformedStructure = errors.New("malformed automaton")

	// ErrTypeMismatch indicates a wrongly typed word or automaton value at an external boundary.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrStructuralIntegrity indicates an automaton value missing a required field.
	ErrStructuralIntegrity = errors.New("automaton is missing required fields")
)

// LoadError carries the failure kind plus the location and reason of the failure.
type LoadError struct {
	Kind   error
	Line   int // 1-based; 0 when the failure is not tied to a line
	Reason string
	Err    error // underlying cause, if any
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func malformed(line int, format string, args ...any) *LoadError {
	return &LoadError{Kind: ErrMalformedStructure, Line: line, Reason: fmt.Sprintf(format, args...)}
}
