package aggregation

import (
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// MatrixCell is one (PA,DIM) dimension score, the unit the macro-level
// strategic metrics (coverage, systemic gaps) are derived over across
// the full 60-cell PA x DIM matrix.
type MatrixCell struct {
	PolicyAreaID questionnaire.PolicyArea
	DimensionID  questionnaire.Dimension
	Score01      float64 // dimension score rescaled back to [0,1]
}

// AggregateMacro folds the 4 cluster scores into the single macro score
// and derives the strategic matrix metrics over all 60
// (PA,DIM) dimension cells: coverage_rate, dimension_ranking,
// balance_score, cluster_coherence, and systemic_gaps. No post-hoc
// clamp is applied when an adaptive cluster
// penalty pushes the weighted mean outside [0,3] in theory; in practice
// AGG-002 surfaces any such violation as a warning rather than
// silently rewriting the score.
func AggregateMacro(clusters []ClusterScore, areas []AreaScore, matrix []MatrixCell, thresholds questionnaire.Thresholds) (MacroScore, []Violation) {
	var violations []Violation
	const groupKey = "macro"

	expected := make([]string, 0, 4)
	for _, c := range questionnaire.AllClusters() {
		expected = append(expected, string(c))
	}
	actual := make([]string, 0, len(clusters))
	for _, c := range clusters {
		actual = append(actual, string(c.ClusterID))
	}
	violations = appendIfNotNil(violations, checkHermeticity("macro", groupKey, expected, actual))

	values := make([]float64, len(clusters))
	ids := make([]string, len(clusters))
	for i, c := range clusters {
		values[i] = c.Score / MaxScore
		ids[i] = string(c.ClusterID)
	}
	weights := equalWeights(len(clusters))
	violations = appendIfNotNil(violations, checkWeightNormalization("macro", groupKey, weights))

	score01 := weightedMean(values, weights)
	violations = appendIfNotNil(violations, checkConvexity("macro", groupKey, values, score01))

	score := score01 * MaxScore
	violations = appendIfNotNil(violations, checkScoreBounds("macro", groupKey, score))

	clusterCoherence := meanCoherence(clusters)
	violations = appendIfNotNil(violations, checkCoherenceBounds("macro", groupKey, clusterCoherence))

	sort.Strings(ids)

	coverageRate := coverage(matrix)
	balanceScore := balance(areas)
	ranking := dimensionRanking(matrix)
	gaps := systemicGaps(matrix, thresholds)

	return MacroScore{
		Score:                score,
		QualityLevel:         thresholds.Label(score01),
		ContributingClusters: ids,
		CoverageRate:         coverageRate,
		DimensionRanking:     ranking,
		BalanceScore:         balanceScore,
		ClusterCoherence:     clusterCoherence,
		SystemicGaps:         gaps,
	}, violations
}

// meanCoherence is the unweighted mean of the four cluster coherences,
// the macro-level cross-cutting coherence figure.
func meanCoherence(clusters []ClusterScore) float64 {
	values := make([]float64, len(clusters))
	for i, c := range clusters {
		values[i] = c.Coherence
	}
	return mean(values)
}

// coverage is the fraction of the 60-cell PA x DIM matrix actually
// present — always 1.0 for a successful Phase-2 run (all 300 questions
// scored), but computed from the matrix rather than hard-coded so a
// partial run is
// still reflected honestly.
func coverage(matrix []MatrixCell) float64 {
	if len(matrix) == 0 {
		return 0
	}
	return float64(len(matrix)) / 60.0
}

// balance computes the variance across PA area scores.
func balance(areas []AreaScore) float64 {
	values := make([]float64, len(areas))
	for i, a := range areas {
		values[i] = a.Score
	}
	sd := stdDev(values)
	return sd * sd
}

// dimensionRanking ranks dimensions by their mean cell score across all
// policy areas, best first, ties broken by dimension id for
// determinism.
func dimensionRanking(matrix []MatrixCell) []string {
	sums := make(map[questionnaire.Dimension]float64)
	counts := make(map[questionnaire.Dimension]int)
	for _, cell := range matrix {
		sums[cell.DimensionID] += cell.Score01
		counts[cell.DimensionID]++
	}

	dims := questionnaire.AllDimensions()
	means := make(map[questionnaire.Dimension]float64, len(dims))
	for _, d := range dims {
		if counts[d] > 0 {
			means[d] = sums[d] / float64(counts[d])
		}
	}

	sort.SliceStable(dims, func(i, j int) bool {
		if means[dims[i]] != means[dims[j]] {
			return means[dims[i]] > means[dims[j]]
		}
		return dims[i] < dims[j]
	})

	out := make([]string, len(dims))
	for i, d := range dims {
		out[i] = string(d)
	}
	return out
}

// systemicGaps lists every (PA,DIM) cell scoring below the
// INSUFICIENTE threshold's floor, i.e. below ACEPTABLE, the monolith
// threshold marking the boundary into INSUFICIENTE. Sorted for
// determinism.
func systemicGaps(matrix []MatrixCell, thresholds questionnaire.Thresholds) []string {
	gaps := make([]string, 0)
	for _, cell := range matrix {
		if thresholds.Label(cell.Score01) == questionnaire.QualityInsuficiente {
			gaps = append(gaps, questionnaire.ChunkKey(cell.PolicyAreaID, cell.DimensionID))
		}
	}
	sort.Strings(gaps)
	return gaps
}
