// Package evidence implements the Evidence Nexus: per-task
// method execution, evidence-graph construction from assembly rules,
// relationship inference, bounded belief propagation, rule-based
// validation, and final evidence assembly with a content digest.
package evidence

import (
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
)

// NodeType is the closed set of fact kinds a method can contribute to
// the graph.
type NodeType string

// EdgeType is the closed set of method-inferred relationships.
type EdgeType string

const (
	EdgeSupports         EdgeType = "supports"
	EdgeContradicts      EdgeType = "contradicts"
	EdgeQuantifies       EdgeType = "quantifies"
	EdgeTemporallyOrders EdgeType = "temporally_orders"
)

// Node is one extracted fact.
type Node struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Value      any     `json:"value"`
	Source     string  `json:"source"` // provides key the node came from
	Confidence float64 `json:"confidence"`
}

// Edge is one method-inferred relationship between two nodes.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// Graph is the per-question directed labeled multigraph. Built in
// Phase 2 and discarded after scoring; only its digest is retained.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ValidationFailure is one validation_rules violation.
type ValidationFailure struct {
	Field    string                       `json:"field"`
	Rule     string                       `json:"rule"`
	Severity contracts.ValidationSeverity `json:"severity"`
	Message  string                       `json:"message"`
}

// Assembled is the final `evidence` object the output schema declares.
type Assembled struct {
	ElementsFound    []string           `json:"elements_found"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	PatternMatches   []string           `json:"pattern_matches"`
	Metadata         map[string]any     `json:"metadata"`
	GraphDigest      string             `json:"graph_digest"`
}

// SignalProvenance records, per question, the signals irrigated into
// the task and the names seeded into the method pipeline's shared
// context under "resolved_signals". Every irrigated signal is seeded,
// so Used lists the same names as Irrigated; which signals an
// individual method read is not tracked.
type SignalProvenance struct {
	Irrigated []string `json:"irrigated"`
	Used      []string `json:"used"`
}

// Result is everything produced for one question by the Evidence
// Nexus: the assembled evidence, the validation failures (if any), and
// whether a CRITICAL failure with na_policy=abort_on_critical means
// the question itself aborts (not the plan).
type Result struct {
	Graph       Graph
	Assembled   Assembled
	Failures    []ValidationFailure
	Provenance  SignalProvenance
	Aborted     bool
	AbortReason string
}
