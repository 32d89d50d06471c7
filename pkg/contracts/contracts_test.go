package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// validContract builds a self-consistent, hash-correct Contract for
// (questionID, baseSlot, pa, dim), used across this package's tests.
func validContract(t *testing.T, questionID, baseSlot string, pa questionnaire.PolicyArea, dim questionnaire.Dimension) *Contract {
	t.Helper()
	c := &Contract{
		Version:      3,
		QuestionID:   questionID,
		PolicyAreaID: pa,
		DimensionID:  dim,
		BaseSlot:     baseSlot,
		MethodBinding: []MethodBindingEntry{
			{ClassName: "textmining", MethodName: "ExtractKeywordHits", Priority: 1, Provides: "keyword_hits"},
			{ClassName: "semantic", MethodName: "ScoreSimilarity", Priority: 2, Provides: "similarity_score"},
		},
		QuestionContext: QuestionContext{QuestionText: "does the document address " + string(dim) + "?"},
		SignalRequirements: SignalRequirements{
			MandatorySignals:    []string{"keyword_hits"},
			AggregationStrategy: "weighted_mean",
			MinimumThreshold:    0.5,
		},
		EvidenceAssembly: EvidenceAssembly{
			AssemblyRules: []AssemblyRule{
				{
					Target:        "combined_signal",
					Sources:       []string{"keyword_hits", "similarity_score"},
					MergeStrategy: MergeWeightedMean,
					Weights:       map[string]float64{"keyword_hits": 0.6, "similarity_score": 0.4},
				},
			},
		},
		ValidationRules: []ValidationRule{
			{Field: "evidence", Rule: "non_empty", Severity: SeverityCritical},
		},
		OutputContract: OutputContract{Schema: OutputSchema{Required: []string{"evidence", "score"}}},
	}
	hash, err := c.ContentHash()
	require.NoError(t, err)
	c.ContractHash = hash
	return c
}

func TestValidateAcceptsWellFormedContract(t *testing.T) {
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	assert.Empty(t, c.Validate())
}

func TestValidateCatchesHashMismatch(t *testing.T) {
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	c.ContractHash = "deadbeef"
	errs := c.Validate()
	require.NotEmpty(t, errs)
}

func TestValidateCatchesUnknownAssemblySource(t *testing.T) {
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	c.EvidenceAssembly.AssemblyRules[0].Sources = append(c.EvidenceAssembly.AssemblyRules[0].Sources, "nonexistent_signal")
	hash, err := c.ContentHash()
	require.NoError(t, err)
	c.ContractHash = hash
	errs := c.Validate()
	require.NotEmpty(t, errs)
}

func TestValidateCatchesZeroThresholdWithMandatorySignals(t *testing.T) {
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	c.SignalRequirements.MinimumThreshold = 0
	hash, err := c.ContentHash()
	require.NoError(t, err)
	c.ContractHash = hash
	errs := c.Validate()
	require.NotEmpty(t, errs)
}

func TestValidateCatchesMissingEvidenceInOutputSchema(t *testing.T) {
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	c.OutputContract.Schema.Required = []string{"score"}
	hash, err := c.ContentHash()
	require.NoError(t, err)
	c.ContractHash = hash
	errs := c.Validate()
	require.NotEmpty(t, errs)
}

func TestValidatePositionalEquivalenceRejectsIncompleteSlot(t *testing.T) {
	group := map[string][]*Contract{
		"D1-Q1": {
			validContract(t, "Q001", "D1-Q1", "PA01", "DIM01"),
			validContract(t, "Q031", "D1-Q1", "PA02", "DIM01"),
		},
	}
	assert.Error(t, ValidatePositionalEquivalence(group)) // only 2 of 10 PAs present
}

func TestValidatePositionalEquivalenceRejectsDimensionDrift(t *testing.T) {
	pas := questionnaire.AllPolicyAreas()
	group := make([]*Contract, 0, 10)
	for i, pa := range pas {
		dim := questionnaire.Dimension("DIM01")
		if i == 3 {
			dim = "DIM02"
		}
		group = append(group, validContract(t, "Q"+string(rune('0'+i)), "D1-Q1", pa, dim))
	}
	assert.Error(t, ValidatePositionalEquivalence(map[string][]*Contract{"D1-Q1": group}))
}
