package aggregation

import "math"

// weightedMean computes sum(values[i]*weights[i]) / sum(weights). The
// caller is responsible for checking weight normalization separately
// (AGG-001) — this just computes the arithmetic.
func weightedMean(values, weights []float64) float64 {
	var sum, weightTotal float64
	for i, v := range values {
		sum += v * weights[i]
		weightTotal += weights[i]
	}
	if weightTotal == 0 {
		return 0
	}
	return sum / weightTotal
}

// equalWeights returns n equal weights summing to 1.0.
func equalWeights(n int) []float64 {
	if n == 0 {
		return nil
	}
	w := make([]float64, n)
	share := 1.0 / float64(n)
	for i := range w {
		w[i] = share
	}
	return w
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// coefficientOfVariation is std_dev/mean, or 0 when the mean is 0 (a
// degenerate all-zero distribution has no meaningful dispersion ratio).
func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	return stdDev(values) / math.Abs(m)
}

// normalizeWeights rescales a weight vector to sum to 1.0. Callers must
// ensure the input sum is non-zero.
func normalizeWeights(weights []float64) []float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / sum
	}
	return out
}
