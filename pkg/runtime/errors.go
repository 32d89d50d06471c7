package runtime

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, one per failure category. Call sites wrap
// these with fmt.Errorf("%w: ...") so errors.Is still classifies them.
var (
	// ErrGateFailure is a Phase-0 admission gate failure (exit 10).
	ErrGateFailure = errors.New("gate failure")
	// ErrContractDefect covers missing provides, identity mismatch, hash
	// mismatch, or a zero signal threshold (exit 11 in PROD).
	ErrContractDefect = errors.New("contract defect")
	// ErrSynchronization covers missing/duplicate chunks, duplicate task
	// ids, and cross-task cardinality mismatches (exit 12 for ingestion
	// and chunk-matrix failures, exit 13 for plan-build failures).
	ErrSynchronization = errors.New("synchronization error")
	// ErrMethodExecution is a per-question method failure after retry.
	ErrMethodExecution = errors.New("method execution failure")
	// ErrAggregationViolation is a severity-tagged aggregation invariant
	// violation; CRITICAL instances abort (exit 30).
	ErrAggregationViolation = errors.New("aggregation violation")
	// ErrRender covers report rendering failures (HTML/Markdown fatal,
	// PDF non-fatal, exit 40 for the fatal case).
	ErrRender = errors.New("render failure")
	// ErrTimeout marks an abort triggered by a phase timeout (exit 20).
	ErrTimeout = errors.New("timeout")
)

// GateError wraps a Phase-0 gate failure with the gate id and the
// accumulated errors observed while evaluating it.
type GateError struct {
	GateID int    // 1..4
	Gate   string // human name, e.g. "bootstrap"
	Errs   []error
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate %d (%s) failed: %v", e.GateID, e.Gate, e.Errs)
}

func (e *GateError) Unwrap() error { return ErrGateFailure }

// NewGateError builds a GateError for the given gate.
func NewGateError(id int, name string, errs []error) *GateError {
	return &GateError{GateID: id, Gate: name, Errs: errs}
}

// PhaseError wraps an error with the phase, and optionally the question id
// and invariant id, it occurred in, so the run-level errors summary can
// classify it without string matching.
type PhaseError struct {
	Phase       string
	QuestionID  string // optional
	InvariantID string // optional
	Err         error
}

func (e *PhaseError) Error() string {
	switch {
	case e.QuestionID != "" && e.InvariantID != "":
		return fmt.Sprintf("phase %s: question %s: invariant %s: %v", e.Phase, e.QuestionID, e.InvariantID, e.Err)
	case e.QuestionID != "":
		return fmt.Sprintf("phase %s: question %s: %v", e.Phase, e.QuestionID, e.Err)
	case e.InvariantID != "":
		return fmt.Sprintf("phase %s: invariant %s: %v", e.Phase, e.InvariantID, e.Err)
	default:
		return fmt.Sprintf("phase %s: %v", e.Phase, e.Err)
	}
}

func (e *PhaseError) Unwrap() error { return e.Err }

// NewPhaseError builds a PhaseError for the given phase.
func NewPhaseError(phase string, err error) *PhaseError {
	return &PhaseError{Phase: phase, Err: err}
}

// WithQuestion returns a copy of the PhaseError annotated with a question id.
func (e *PhaseError) WithQuestion(questionID string) *PhaseError {
	cp := *e
	cp.QuestionID = questionID
	return &cp
}

// WithInvariant returns a copy of the PhaseError annotated with an invariant id.
func (e *PhaseError) WithInvariant(invariantID string) *PhaseError {
	cp := *e
	cp.InvariantID = invariantID
	return &cp
}
