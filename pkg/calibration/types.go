// Package calibration implements the Calibration Policy:
// converting raw method scores into calibrated quality labels with
// uncertainty, delegating to a method's own calibrable capability when
// available and falling back to a central Gaussian-posterior synthesis
// otherwise, with every decision appended to a deterministic audit log.
package calibration

import "github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"

// CalibratedOutput is the per-question calibration result.
type CalibratedOutput struct {
	Label              questionnaire.QualityLevel `json:"label"`
	Weight             float64                    `json:"weight"`
	CalibratedScore    float64                    `json:"calibrated_score"`
	LabelProbabilities map[string]float64         `json:"label_probabilities"`
	CredibleInterval95 *[2]float64                `json:"credible_interval_95,omitempty"`
	PosteriorSamples   []float64                  `json:"posterior_samples,omitempty"`
	Provenance         CalibrationProvenance      `json:"provenance"`
}

// CalibrationProvenance records how a calibration was produced: which
// path was taken (method-delegated vs. central Gaussian fallback), the
// raw score it started from, the resulting label mass and assignment,
// and a deterministic hash over its fields.
type CalibrationProvenance struct {
	QuestionID         string                     `json:"question_id"`
	Domain             string                     `json:"domain"`
	Transformation     string                     `json:"transformation"`
	RawScore           float64                    `json:"raw_score"`
	LabelProbabilities map[string]float64         `json:"label_probabilities"`
	AssignedLabel      questionnaire.QualityLevel `json:"assigned_label"`
	AssignedWeight     float64                    `json:"assigned_weight"`
	Hash               string                     `json:"hash"`
}
