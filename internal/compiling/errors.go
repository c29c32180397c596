package compiling

import "fmt"

// UnavailableError indicates no LaTeX processor could be resolved on the
// host. Callers treat this as an expected outcome, not a hard failure.
type UnavailableError struct {
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("latex processor unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("latex processor unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Reason returns the short diagnostic surfaced to API callers.
func (e *UnavailableError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return "processor not found"
}

// CompilationError represents a LaTeX compilation failure, including
// timeouts. LogOutput carries the captured processor output for operator
// debugging.
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
