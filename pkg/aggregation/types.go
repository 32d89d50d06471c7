// Package aggregation implements the four-level score aggregator:
// Dimension -> Area -> Cluster -> Macro, each checking the
// common AGG-001..AGG-006 invariants and surfacing violations by
// severity rather than failing silently.
package aggregation

import "github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"

// MaxScore is the output scale ceiling every level rescales onto.
const MaxScore = 3.0

// Severity is the closed severity set for AGG-00x invariant violations.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

// Violation is one AGG-00x invariant failure, tagged with its severity
// and the level/group it occurred in.
type Violation struct {
	InvariantID string   `json:"invariant_id"`
	Severity    Severity `json:"severity"`
	Level       string   `json:"level"`
	GroupKey    string   `json:"group_key"`
	Message     string   `json:"message"`
}

// Shape is the closed classification of a score distribution's
// dispersion pattern.
type Shape string

const (
	ShapeUniform   Shape = "uniform"
	ShapeClustered Shape = "clustered"
	ShapeBimodal   Shape = "bimodal"
	ShapeDispersed Shape = "dispersed"
)

// MicroScore is the per-question input to dimension aggregation: the
// calibrated [0,1] score plus its weight.
type MicroScore struct {
	QuestionID   string                   `json:"question_id"`
	PolicyAreaID questionnaire.PolicyArea `json:"policy_area_id"`
	DimensionID  questionnaire.Dimension  `json:"dimension_id"`
	Score01      float64                  `json:"score_01"`
	Weight       float64                  `json:"weight"`
}

// DimensionScore is the dimension-level aggregation output.
type DimensionScore struct {
	PolicyAreaID       questionnaire.PolicyArea   `json:"policy_area_id"`
	DimensionID        questionnaire.Dimension    `json:"dimension_id"`
	Score              float64                    `json:"score"` // [0, MaxScore]
	QualityLevel       questionnaire.QualityLevel `json:"quality_level"`
	ContributingMicro  []string                   `json:"contributing_micro"`
	CredibleInterval95 *[2]float64                `json:"credible_interval_95,omitempty"`
}

// AreaScore is the area-level aggregation output.
type AreaScore struct {
	PolicyAreaID           questionnaire.PolicyArea   `json:"policy_area_id"`
	Score                  float64                    `json:"score"`
	QualityLevel           questionnaire.QualityLevel `json:"quality_level"`
	ContributingDimensions []string                   `json:"contributing_dimensions"`
}

// ClusterScore is the cluster-level aggregation output.
type ClusterScore struct {
	ClusterID              questionnaire.Cluster      `json:"cluster_id"`
	Score                  float64                    `json:"score"`
	QualityLevel           questionnaire.QualityLevel `json:"quality_level"`
	ContributingAreas      []string                   `json:"contributing_areas"`
	Coherence              float64                    `json:"coherence"`
	CoefficientOfVariation float64                    `json:"coefficient_of_variation"`
	Shape                  Shape                      `json:"shape"`
	PenaltyFactor          float64                    `json:"penalty_factor"`
}

// MacroScore is the top-level aggregation output.
type MacroScore struct {
	Score                float64                    `json:"score"`
	QualityLevel         questionnaire.QualityLevel `json:"quality_level"`
	ContributingClusters []string                   `json:"contributing_clusters"`
	CoverageRate         float64                    `json:"coverage_rate"`
	DimensionRanking     []string                   `json:"dimension_ranking"` // dimension IDs, best first
	BalanceScore         float64                    `json:"balance_score"`     // variance across PA area scores
	ClusterCoherence     float64                    `json:"cluster_coherence"`
	SystemicGaps         []string                   `json:"systemic_gaps"` // "PAxx-DIMyy" cells below INSUFICIENTE
}
