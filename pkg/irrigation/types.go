// Package irrigation implements the JOIN table / ExecutionPlan
// builder: it turns the contract registry, chunk matrix, and signal
// registry into one immutable ExecutionPlan with full provenance.
package irrigation

import (
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/signals"
)

// BindingStatus is the closed outcome set for one JOIN-table row.
type BindingStatus string

const (
	StatusMatched        BindingStatus = "matched"
	StatusMissingChunk   BindingStatus = "missing_chunk"
	StatusDuplicateChunk BindingStatus = "duplicate_chunk"
	StatusMissingSignals BindingStatus = "missing_signals"
	StatusMismatch       BindingStatus = "mismatch"
)

// ExecutorChunkBinding is one row of the 300-entry JOIN table.
type ExecutorChunkBinding struct {
	ExecutorContractID string                      `json:"executor_contract_id"`
	ChunkID            string                      `json:"chunk_id"`
	ExpectedPatterns   []questionnaire.PatternSpec `json:"expected_patterns"`
	ExpectedSignals    []string                    `json:"expected_signals"`
	IrrigatedPatterns  []questionnaire.PatternSpec `json:"irrigated_patterns"`
	IrrigatedSignals   []string                    `json:"irrigated_signals"`
	Status             BindingStatus               `json:"status"`
}

// ExecutableTask is the Phase-2 unit of work.
type ExecutableTask struct {
	TaskID             string                               `json:"task_id"`
	QuestionID         string                               `json:"question_id"`
	PolicyAreaID       questionnaire.PolicyArea             `json:"policy_area_id"`
	DimensionID        questionnaire.Dimension              `json:"dimension_id"`
	ChunkID            string                               `json:"chunk_id"`
	ChunkText          string                               `json:"chunk_text"`
	ApplicablePatterns []questionnaire.PatternSpec          `json:"applicable_patterns"`
	ResolvedSignals    map[string]*signals.SignalDescriptor `json:"resolved_signals"`
	ExpectedElements   []contracts.ExpectedElement          `json:"expected_elements"`
}

// ExecutionPlan is the immutable tuple of 300 ExecutableTasks plus
// provenance.
type ExecutionPlan struct {
	Tasks         []ExecutableTask `json:"tasks"`
	PlanID        string           `json:"plan_id"`
	IntegrityHash string           `json:"integrity_hash"`
	CorrelationID string           `json:"correlation_id"`
	CreatedAt     string           `json:"created_at"` // RFC3339, stamped by the caller
}

// VerificationManifest is the plan build's audit output: the full
// bindings array, per-invariant pass/fail, and aggregate statistics.
type VerificationManifest struct {
	Bindings       []ExecutorChunkBinding `json:"bindings"`
	Invariants     map[string]bool        `json:"invariants"`
	PerChunkCounts map[string]int         `json:"per_chunk_task_counts"`
	PerPACounts    map[string]int         `json:"per_pa_task_counts"`
	PerDimCounts   map[string]int         `json:"per_dim_task_counts"`
}

// taskProjection is the subset of an ExecutableTask's fields that feed
// plan_id hashing. It excludes chunk_text so the hash commits to
// structure and identity, not to the full source text.
type taskProjection struct {
	TaskID       string                   `json:"task_id"`
	QuestionID   string                   `json:"question_id"`
	PolicyAreaID questionnaire.PolicyArea `json:"policy_area_id"`
	DimensionID  questionnaire.Dimension  `json:"dimension_id"`
	ChunkID      string                   `json:"chunk_id"`
}
