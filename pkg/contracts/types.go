// Package contracts implements the Contract Registry: loading,
// hash verification, and well-formedness validation of the 300 per-question
// contract files.
package contracts

import (
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// MergeStrategy is the closed set of evidence-assembly merge
// strategies.
type MergeStrategy string

const (
	MergeConcat            MergeStrategy = "concat"
	MergeFirst             MergeStrategy = "first"
	MergeMajority          MergeStrategy = "majority"
	MergeWeightedMean      MergeStrategy = "weighted_mean"
	MergeGraphConstruction MergeStrategy = "graph_construction"
)

// MethodBindingEntry is one (class, method) call in the contract's ordered
// pipeline.
type MethodBindingEntry struct {
	ClassName  string `json:"class_name" validate:"required"`
	MethodName string `json:"method_name" validate:"required"`
	Priority   int    `json:"priority"`
	Provides   string `json:"provides" validate:"required"`
}

// ExpectedElement is one entry of question_context.expected_elements.
type ExpectedElement struct {
	Type        string `json:"type" validate:"required"`
	Required    bool   `json:"required"`
	Minimum     int    `json:"minimum"`
	Description string `json:"description"`
}

// QuestionContext carries the question text, applicable patterns, and
// expected elements.
type QuestionContext struct {
	QuestionText     string                      `json:"question_text" validate:"required"`
	Patterns         []questionnaire.PatternSpec `json:"patterns"`
	ExpectedElements []ExpectedElement           `json:"expected_elements"`
}

// SignalRequirements declares the mandatory/optional signal names a
// question needs and how to aggregate them.
type SignalRequirements struct {
	MandatorySignals    []string `json:"mandatory_signals"`
	OptionalSignals     []string `json:"optional_signals"`
	AggregationStrategy string   `json:"aggregation_strategy"`
	MinimumThreshold    float64  `json:"minimum_signal_threshold"`
}

// AssemblyRule merges named method outputs (by provides key) into one
// evidence element.
type AssemblyRule struct {
	Target        string             `json:"target" validate:"required"`
	Sources       []string           `json:"sources" validate:"required,min=1"`
	MergeStrategy MergeStrategy      `json:"merge_strategy" validate:"required"`
	Weights       map[string]float64 `json:"weights,omitempty"` // for weighted_mean
}

// EvidenceAssembly is the contract's set of merge rules.
type EvidenceAssembly struct {
	AssemblyRules []AssemblyRule `json:"assembly_rules" validate:"required,min=1,dive"`
}

// ValidationSeverity is the closed severity set for evidence validation
// failures.
type ValidationSeverity string

const (
	SeverityCritical ValidationSeverity = "CRITICAL"
	SeverityMajor    ValidationSeverity = "MAJOR"
	SeverityMinor    ValidationSeverity = "MINOR"
	SeverityCosmetic ValidationSeverity = "COSMETIC"
)

// ValidationRule is one field-level constraint applied to assembled
// evidence.
type ValidationRule struct {
	Field    string             `json:"field" validate:"required"`
	Rule     string             `json:"rule" validate:"required"` // e.g. "non_empty", "min_count:2"
	Severity ValidationSeverity `json:"severity" validate:"required"`
	NAPolicy string             `json:"na_policy,omitempty"` // "abort_on_critical"
}

// OutputSchema is the shape of Phase2QuestionResult the contract declares
// ; Required must include "evidence".
type OutputSchema struct {
	Required []string `json:"required" validate:"required,min=1"`
}

// OutputContract wraps the schema.
type OutputContract struct {
	Schema OutputSchema `json:"schema"`
}

// Contract is the per-question declarative bundle, version 3.
type Contract struct {
	Version      int                      `json:"version" validate:"eq=3"`
	QuestionID   string                   `json:"question_id" validate:"required"`
	PolicyAreaID questionnaire.PolicyArea `json:"policy_area_id" validate:"required"`
	DimensionID  questionnaire.Dimension  `json:"dimension_id" validate:"required"`
	BaseSlot     string                   `json:"base_slot" validate:"required"`

	MethodBinding      []MethodBindingEntry `json:"method_binding" validate:"required,min=1,dive"`
	QuestionContext    QuestionContext      `json:"question_context"`
	SignalRequirements SignalRequirements   `json:"signal_requirements"`
	EvidenceAssembly   EvidenceAssembly     `json:"evidence_assembly" validate:"required"`
	ValidationRules    []ValidationRule     `json:"validation_rules"`
	OutputContract     OutputContract       `json:"output_contract"`

	ContractHash string `json:"contract_hash" validate:"required"`
}

// Provides returns the set of provides keys this contract's method
// bindings publish, used by A2 (assembly sources ⊆ provides).
func (c *Contract) Provides() map[string]bool {
	out := make(map[string]bool, len(c.MethodBinding))
	for _, m := range c.MethodBinding {
		out[m.Provides] = true
	}
	return out
}
