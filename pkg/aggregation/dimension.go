package aggregation

import (
	"math/rand"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

const bootstrapResamples = 1000

// AggregateDimension folds the 5 micro scores of one (PA, DIM) cell
// into a dimension score on the output [0,3] scale, with an
// optional bootstrap 95% CI over 1,000 resamples. rng is nil-safe: pass
// nil to skip the CI.
func AggregateDimension(pa questionnaire.PolicyArea, dim questionnaire.Dimension, micro []MicroScore, thresholds questionnaire.Thresholds, rng *rand.Rand) (DimensionScore, []Violation) {
	var violations []Violation
	groupKey := questionnaire.ChunkKey(pa, dim)

	values := make([]float64, len(micro))
	weights := make([]float64, len(micro))
	ids := make([]string, len(micro))
	for i, m := range micro {
		values[i] = m.Score01
		weights[i] = m.Weight
		ids[i] = m.QuestionID
	}
	// Calibration weights arrive as relative weights (base weight times
	// modal-confidence modulation); the vector actually used must
	// sum to 1 (AGG-001), so normalize before use.
	if len(weights) > 0 {
		if allZero(weights) {
			weights = equalWeights(len(micro))
		} else {
			weights = normalizeWeights(weights)
		}
	}

	violations = appendIfNotNil(violations, checkWeightNormalization("dimension", groupKey, weights))

	score01 := weightedMean(values, weights)
	violations = appendIfNotNil(violations, checkConvexity("dimension", groupKey, values, score01))

	score := score01 * MaxScore
	violations = appendIfNotNil(violations, checkScoreBounds("dimension", groupKey, score))

	sort.Strings(ids)

	result := DimensionScore{
		PolicyAreaID:      pa,
		DimensionID:       dim,
		Score:             score,
		QualityLevel:      thresholds.Label(score01),
		ContributingMicro: ids,
	}

	if rng != nil && len(values) > 0 {
		lo, hi := bootstrapCI95(rng, values, weights)
		ci := [2]float64{lo * MaxScore, hi * MaxScore}
		result.CredibleInterval95 = &ci
	}

	return result, violations
}

// bootstrapCI95 resamples (values, weights) with replacement 1,000
// times and returns the 2.5th/97.5th percentile of the resulting
// weighted means.
func bootstrapCI95(rng *rand.Rand, values, weights []float64) (float64, float64) {
	n := len(values)
	means := make([]float64, bootstrapResamples)
	resampled := make([]float64, n)
	resampledWeights := make([]float64, n)
	for r := 0; r < bootstrapResamples; r++ {
		for i := 0; i < n; i++ {
			idx := rng.Intn(n)
			resampled[i] = values[idx]
			resampledWeights[i] = weights[idx]
		}
		means[r] = weightedMean(resampled, resampledWeights)
	}
	sort.Float64s(means)
	lo := means[int(0.025*float64(len(means)))]
	hiIdx := int(0.975 * float64(len(means)))
	if hiIdx >= len(means) {
		hiIdx = len(means) - 1
	}
	return lo, means[hiIdx]
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
