package aggregation

import (
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// AggregateArea folds the 6 dimension scores of one policy area into an
// area score, checking hermeticity over the full dimension set.
func AggregateArea(pa questionnaire.PolicyArea, dims []DimensionScore, thresholds questionnaire.Thresholds) (AreaScore, []Violation) {
	var violations []Violation
	groupKey := string(pa)

	expected := make([]string, 0, 6)
	for _, d := range questionnaire.AllDimensions() {
		expected = append(expected, string(d))
	}
	actual := make([]string, 0, len(dims))
	for _, d := range dims {
		actual = append(actual, string(d.DimensionID))
	}
	violations = appendIfNotNil(violations, checkHermeticity("area", groupKey, expected, actual))

	values := make([]float64, len(dims))
	ids := make([]string, len(dims))
	for i, d := range dims {
		values[i] = d.Score / MaxScore
		ids[i] = string(d.DimensionID)
	}
	weights := equalWeights(len(dims))
	violations = appendIfNotNil(violations, checkWeightNormalization("area", groupKey, weights))

	score01 := weightedMean(values, weights)
	violations = appendIfNotNil(violations, checkConvexity("area", groupKey, values, score01))

	score := score01 * MaxScore
	violations = appendIfNotNil(violations, checkScoreBounds("area", groupKey, score))

	sort.Strings(ids)

	return AreaScore{
		PolicyAreaID:           pa,
		Score:                  score,
		QualityLevel:           thresholds.Label(score01),
		ContributingDimensions: ids,
	}, violations
}
