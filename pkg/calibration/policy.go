package calibration

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// Policy is the central Calibration Policy: it delegates to a
// method's own Calibrable capability when the producing method exposes
// one, otherwise synthesizes the Gaussian-posterior fallback, and
// appends every decision to its audit log.
type Policy struct {
	Thresholds questionnaire.Thresholds
	Audit      *AuditLog
}

// NewPolicy builds a Policy over the monolith's loaded (never
// hard-coded) quality thresholds, with a fresh audit log.
func NewPolicy(thresholds questionnaire.Thresholds) *Policy {
	return &Policy{Thresholds: thresholds, Audit: NewAuditLog()}
}

// Calibrate produces a CalibratedOutput for one question's raw score.
// rawOutput, when it implements methods.Calibrable, drives the
// method-delegated path; otherwise the central Gaussian-posterior
// fallback runs. Both paths sample from rng and bucket against the
// policy's loaded thresholds — callers should derive rng
// deterministically (e.g. via pkg/runtime's seed registry) so repeated
// runs reproduce identical calibrations.
func (p *Policy) Calibrate(ctx context.Context, questionID string, rawScore float64, rawOutput any, shared map[string]any, rng *rand.Rand) (*CalibratedOutput, error) {
	var (
		probs           map[string]float64
		samples         []float64
		transformation  string
		domain          string
		calibratedScore = rawScore
	)

	if calibrable, ok := rawOutput.(methods.Calibrable); ok {
		result, err := calibrable.CalibrateOutput(ctx, rawScore, nil, p.Thresholds, rng, shared)
		if err != nil {
			return nil, fmt.Errorf("calibration: method-delegated calibrate for %s: %w", questionID, err)
		}
		probs = result.LabelProbabilities
		samples = result.PosteriorSamples
		transformation = result.Transformation
		domain = calibrable.Domain()
		calibratedScore = result.CalibratedScore
	} else {
		samples, probs = synthesizeGaussianPosterior(rng, rawScore, p.Thresholds)
		transformation = "gaussian_posterior"
		domain = "raw_score_0_1"
	}

	if err := validateProbabilityMass(probs); err != nil {
		return nil, fmt.Errorf("calibration: %s: %w", questionID, err)
	}

	label, modal := argmaxLabel(probs)
	weight := label.BaseWeight() * (0.7 + 0.3*modal)

	var ci *[2]float64
	if len(samples) > 0 {
		lo, hi := credibleInterval95(samples)
		ci = &[2]float64{lo, hi}
	}

	provenance, err := p.Audit.append(CalibrationProvenance{
		QuestionID:         questionID,
		Domain:             domain,
		Transformation:     transformation,
		RawScore:           rawScore,
		LabelProbabilities: probs,
		AssignedLabel:      label,
		AssignedWeight:     weight,
	})
	if err != nil {
		return nil, err
	}

	return &CalibratedOutput{
		Label:              label,
		Weight:             weight,
		CalibratedScore:    calibratedScore,
		LabelProbabilities: probs,
		CredibleInterval95: ci,
		PosteriorSamples:   samples,
		Provenance:         provenance,
	}, nil
}

// validateProbabilityMass enforces the constructor invariant:
// label-probability mass sums to 1.0 ± 1e-6.
func validateProbabilityMass(probs map[string]float64) error {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if sum < 1-1e-6 || sum > 1+1e-6 {
		return fmt.Errorf("label probability mass sums to %v, want 1.0 ± 1e-6", sum)
	}
	return nil
}

// argmaxLabel returns the highest-probability label and its mass,
// breaking ties by label name for determinism.
func argmaxLabel(probs map[string]float64) (questionnaire.QualityLevel, float64) {
	names := make([]string, 0, len(probs))
	for name := range probs {
		names = append(names, name)
	}
	sort.Strings(names)

	var best string
	bestProb := -1.0
	for _, name := range names {
		if probs[name] > bestProb {
			bestProb = probs[name]
			best = name
		}
	}
	return questionnaire.QualityLevel(best), bestProb
}
