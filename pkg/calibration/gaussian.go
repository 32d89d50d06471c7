package calibration

import (
	"math/rand"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

const gaussianPosteriorStdDev = 0.1
const gaussianPosteriorSampleCount = 10000

// synthesizeGaussianPosterior is the central fallback path: a
// Gaussian(rawScore, sigma=0.1) posterior, clipped to [0,1],
// 10,000 samples, bucketed against the loaded (not hard-coded) monolith
// thresholds.
func synthesizeGaussianPosterior(rng *rand.Rand, rawScore float64, thresholds questionnaire.Thresholds) (samples []float64, probs map[string]float64) {
	samples = make([]float64, gaussianPosteriorSampleCount)
	for i := range samples {
		s := rawScore + rng.NormFloat64()*gaussianPosteriorStdDev
		samples[i] = clip01(s)
	}
	return samples, bucketByThresholds(samples, thresholds)
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func bucketByThresholds(samples []float64, thresholds questionnaire.Thresholds) map[string]float64 {
	counts := map[questionnaire.QualityLevel]int{
		questionnaire.QualityExcelente:    0,
		questionnaire.QualityBueno:        0,
		questionnaire.QualityAceptable:    0,
		questionnaire.QualityInsuficiente: 0,
	}
	for _, s := range samples {
		counts[thresholds.Label(s)]++
	}
	total := float64(len(samples))
	probs := make(map[string]float64, 4)
	for label, n := range counts {
		probs[string(label)] = float64(n) / total
	}
	return probs
}

// credibleInterval95 returns the 2.5th/97.5th percentile bounds of a
// sorted-in-place copy of samples.
func credibleInterval95(samples []float64) (float64, float64) {
	sorted := append([]float64{}, samples...)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		return 0, 0
	}
	lo := sorted[int(0.025*float64(len(sorted)))]
	hiIdx := int(0.975 * float64(len(sorted)))
	if hiIdx >= len(sorted) {
		hiIdx = len(sorted) - 1
	}
	return lo, sorted[hiIdx]
}
