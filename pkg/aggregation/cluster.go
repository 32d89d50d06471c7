package aggregation

import (
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// AggregateCluster folds a cluster's member areas (2-3) into a cluster
// score, applying an adaptive dispersion penalty that rewards
// convergence and penalizes divergence, and computes cluster coherence.
func AggregateCluster(cluster questionnaire.Cluster, members []AreaScore, expectedAreas []questionnaire.PolicyArea, thresholds questionnaire.Thresholds) (ClusterScore, []Violation) {
	var violations []Violation
	groupKey := string(cluster)

	expected := make([]string, 0, len(expectedAreas))
	for _, pa := range expectedAreas {
		expected = append(expected, string(pa))
	}
	actual := make([]string, 0, len(members))
	for _, m := range members {
		actual = append(actual, string(m.PolicyAreaID))
	}
	violations = appendIfNotNil(violations, checkHermeticity("cluster", groupKey, expected, actual))

	values01 := make([]float64, len(members))
	values3 := make([]float64, len(members))
	ids := make([]string, len(members))
	for i, m := range members {
		values01[i] = m.Score / MaxScore
		values3[i] = m.Score
		ids[i] = string(m.PolicyAreaID)
	}
	weights := equalWeights(len(members))
	violations = appendIfNotNil(violations, checkWeightNormalization("cluster", groupKey, weights))

	baseMean01 := weightedMean(values01, weights)

	cv := coefficientOfVariation(values3)
	shape := classifyShape(values3, cv)
	sensitivity := sensitivityMultiplier(cv)
	shapeFactor := shapeMultiplier(shape)

	basePenalty := stdDev(values3) / MaxScore
	penaltyFactor := 1 - basePenalty*sensitivity*shapeFactor
	if penaltyFactor < 0.5 {
		penaltyFactor = 0.5
	}

	adjustedScore := baseMean01 * MaxScore * penaltyFactor
	violations = appendIfNotNil(violations, checkConvexity("cluster", groupKey, values3, adjustedScore))
	violations = appendIfNotNil(violations, checkScoreBounds("cluster", groupKey, adjustedScore))

	coherence := 1 - minFloat(stdDev(values3)/MaxScore, 1)
	violations = appendIfNotNil(violations, checkCoherenceBounds("cluster", groupKey, coherence))

	sort.Strings(ids)

	return ClusterScore{
		ClusterID:              cluster,
		Score:                  adjustedScore,
		QualityLevel:           thresholds.Label(adjustedScore / MaxScore),
		ContributingAreas:      ids,
		Coherence:              coherence,
		CoefficientOfVariation: cv,
		Shape:                  shape,
		PenaltyFactor:          penaltyFactor,
	}, violations
}

// sensitivityMultiplier maps CV into the four sensitivity bands.
func sensitivityMultiplier(cv float64) float64 {
	switch {
	case cv < 0.15:
		return 0.5
	case cv < 0.40:
		return 1.0
	case cv < 0.60:
		return 1.5
	default:
		return 2.0
	}
}

func shapeMultiplier(s Shape) float64 {
	if s == ShapeBimodal {
		return 1.3
	}
	return 1.0
}

// classifyShape buckets a score distribution by dispersion and
// modality. Bimodality is detected by a simple gap test: sorted values
// split into two clusters separated by a gap wider than the mean
// intra-cluster spacing — sufficient for the 2-3-member distributions
// this aggregator ever sees.
func classifyShape(values []float64, cv float64) Shape {
	if len(values) < 2 {
		return ShapeUniform
	}
	if cv < 0.15 {
		return ShapeUniform
	}
	if isBimodal(values) {
		return ShapeBimodal
	}
	if cv < 0.40 {
		return ShapeClustered
	}
	return ShapeDispersed
}

func isBimodal(values []float64) bool {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	if len(sorted) < 3 {
		return false
	}
	maxGap := 0.0
	gapIdx := 0
	totalSpan := sorted[len(sorted)-1] - sorted[0]
	if totalSpan == 0 {
		return false
	}
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i] - sorted[i-1]
		if gap > maxGap {
			maxGap = gap
			gapIdx = i
		}
	}
	return maxGap > 0.5*totalSpan && gapIdx > 0 && gapIdx < len(sorted)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
