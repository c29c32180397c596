package evaluation

import "fmt"

// EvaluationError represents a failure while producing an ATS evaluation.
// Model records which LLM produced (or failed to produce) the response.
type EvaluationError struct {
	Model   string
	Message string
	Cause   error
}

func (e *EvaluationError) Error() string {
	msg := e.Message
	if e.Model != "" {
		msg = fmt.Sprintf("%s (model %s)", msg, e.Model)
	}
	if e.Cause != nil {
		return fmt.Sprintf("ats evaluation error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("ats evaluation error: %s", msg)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
