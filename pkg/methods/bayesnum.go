package methods

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// BayesnumClass extracts numeric claims (budgets, targets, dates) and
// scores their internal consistency; it is calibrable, exposing
// CalibrateOutput with a Beta-like synthetic posterior instead of
// deferring to the central Gaussian-posterior fallback.
type BayesnumClass struct{}

// NumericConsistency is the output of AnalyzeNumericClaims.
type NumericConsistency struct {
	Values                 []float64 `json:"values"`
	Mean                   float64   `json:"mean"`
	CoefficientOfVariation float64   `json:"coefficient_of_variation"`
	ConsistencyScore       float64   `json:"consistency_score"` // in [0,1], 1 = fully consistent
}

func (BayesnumClass) ClassName() string { return "bayesnum" }

func (c BayesnumClass) Methods() map[string]Method {
	return map[string]Method{
		"AnalyzeNumericClaims": {
			Spec: MethodSpec{Name: "AnalyzeNumericClaims"},
			Func: c.analyzeNumericClaims,
		},
	}
}

func (BayesnumClass) analyzeNumericClaims(_ context.Context, in Input) (any, error) {
	matches := numericClaimRe.FindAllStringSubmatch(in.ChunkText, -1)
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := parseFloatLoose(m[2])
		if err != nil {
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return NumericConsistency{ConsistencyScore: 0}, nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	stddev := math.Sqrt(variance)

	cv := 0.0
	if mean != 0 {
		cv = stddev / math.Abs(mean)
	}

	// Lower dispersion relative to the mean implies higher consistency.
	score := 1 / (1 + cv)

	return NumericConsistency{
		Values:                 values,
		Mean:                   mean,
		CoefficientOfVariation: cv,
		ConsistencyScore:       score,
	}, nil
}

// Domain implements Calibrable.
func (NumericConsistency) Domain() string { return "numeric_consistency_0_1" }

// CalibrateOutput implements Calibrable: synthesizes a Beta-like
// posterior around the consistency score (via Beta sampling from two
// Gamma draws) instead of the central Gaussian
// fallback. thresholds are the monolith-loaded cut points, never a
// local constant, and rng must be seeded by the caller so sampling
// reproduces across runs.
func (n NumericConsistency) CalibrateOutput(_ context.Context, rawScore float64, posteriorSamples []float64, thresholds questionnaire.Thresholds, rng *rand.Rand, _ map[string]any) (MethodCalibrationResult, error) {
	const sampleCount = 10000
	alpha := 2 + rawScore*8 // shifts shape toward high scores as rawScore grows
	beta := 2 + (1-rawScore)*8

	samples := make([]float64, sampleCount)
	for i := range samples {
		samples[i] = sampleBeta(rng, alpha, beta)
	}

	probs := bucketLabelProbabilities(samples, thresholds)

	lo, hi := credibleInterval95(samples)

	return MethodCalibrationResult{
		CalibratedScore:    rawScore,
		LabelProbabilities: probs,
		Transformation:     "beta_posterior",
		PosteriorSamples:   samples,
		CredibleInterval95: &[2]float64{lo, hi},
	}, nil
}

// sampleBeta draws one Beta(alpha, beta) sample via two Gamma(k,1)
// draws using Marsaglia-Tsang for k>=1 (alpha, beta here are always >1).
func sampleBeta(rng *rand.Rand, alpha, beta float64) float64 {
	x := sampleGamma(rng, alpha)
	y := sampleGamma(rng, beta)
	return x / (x + y)
}

func sampleGamma(rng *rand.Rand, k float64) float64 {
	d := k - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*(x*x)*(x*x) {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func bucketLabelProbabilities(samples []float64, thresholds questionnaire.Thresholds) map[string]float64 {
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

func credibleInterval95(samples []float64) (float64, float64) {
	sorted := append([]float64{}, samples...)
	sort.Float64s(sorted)
	lo := sorted[int(0.025*float64(len(sorted)))]
	hi := sorted[int(0.975*float64(len(sorted)))-1]
	return lo, hi
}
