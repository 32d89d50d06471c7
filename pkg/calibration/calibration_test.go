package calibration

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

func sampleThresholds() questionnaire.Thresholds {
	return questionnaire.Thresholds{Excelente: 0.85, Bueno: 0.70, Aceptable: 0.55}
}

func TestCalibrateGaussianFallbackSumsToOne(t *testing.T) {
	policy := NewPolicy(sampleThresholds())
	rng := rand.New(rand.NewSource(42))

	out, err := policy.Calibrate(context.Background(), "Q001", 0.8, "not-calibrable", nil, rng)
	require.NoError(t, err)

	var sum float64
	for _, p := range out.LabelProbabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.NotEmpty(t, out.Label)
	assert.Greater(t, out.Weight, 0.0)
	assert.NotEmpty(t, out.Provenance.Hash)
	assert.Equal(t, "gaussian_posterior", out.Provenance.Transformation)
}

func TestCalibrateDelegatesToCalibrableMethod(t *testing.T) {
	policy := NewPolicy(sampleThresholds())
	rng := rand.New(rand.NewSource(1))

	numeric := methods.NumericConsistency{ConsistencyScore: 0.9, Values: []float64{1, 2}}
	out, err := policy.Calibrate(context.Background(), "Q002", 0.9, numeric, nil, rng)
	require.NoError(t, err)

	assert.Equal(t, "beta_posterior", out.Provenance.Transformation)
	assert.Equal(t, "numeric_consistency_0_1", out.Provenance.Domain)
	assert.NotNil(t, out.CredibleInterval95)
}

func TestCalibrateWeightFormula(t *testing.T) {
	policy := NewPolicy(sampleThresholds())
	label, modal := argmaxLabel(map[string]float64{"EXCELENTE": 1.0})
	weight := label.BaseWeight() * (0.7 + 0.3*modal)
	assert.InDelta(t, questionnaire.QualityExcelente.BaseWeight(), weight, 1e-9)
	_ = policy
}

func TestAuditLogAccumulatesEntries(t *testing.T) {
	policy := NewPolicy(sampleThresholds())
	rng := rand.New(rand.NewSource(7))

	_, err := policy.Calibrate(context.Background(), "Q001", 0.5, nil, nil, rng)
	require.NoError(t, err)
	_, err = policy.Calibrate(context.Background(), "Q002", 0.6, nil, nil, rng)
	require.NoError(t, err)

	assert.Equal(t, 2, policy.Audit.Len())
	entries := policy.Audit.All()
	assert.Equal(t, "Q001", entries[0].QuestionID)
	assert.Equal(t, "Q002", entries[1].QuestionID)
}

func TestValidateProbabilityMassRejectsBadSum(t *testing.T) {
	err := validateProbabilityMass(map[string]float64{"EXCELENTE": 0.5, "BUENO": 0.2})
	assert.Error(t, err)
}

func TestArgmaxLabelIsDeterministicOnTies(t *testing.T) {
	probs := map[string]float64{"EXCELENTE": 0.5, "BUENO": 0.5}
	label1, _ := argmaxLabel(probs)
	label2, _ := argmaxLabel(probs)
	assert.Equal(t, label1, label2)
}
