package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/calibration"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/evidence"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

func sampleContract() *contracts.Contract {
	return &contracts.Contract{
		QuestionID: "Q001",
		QuestionContext: contracts.QuestionContext{
			QuestionText: "¿El plan define metas de inversión en infraestructura vial?",
		},
	}
}

func sampleResult() *evidence.Result {
	return &evidence.Result{
		Assembled: evidence.Assembled{ElementsFound: []string{"combined", "keyword_hits"}},
	}
}

func sampleCalibrated() *calibration.CalibratedOutput {
	return &calibration.CalibratedOutput{
		Label: questionnaire.QualityBueno,
		LabelProbabilities: map[string]float64{
			"EXCELENTE": 0.1, "BUENO": 0.6, "ACEPTABLE": 0.2, "INSUFICIENTE": 0.1,
		},
	}
}

func TestRenderProducesDeterministicBytes(t *testing.T) {
	n1, err := Render(sampleContract(), sampleResult(), sampleCalibrated(), DefaultGate())
	require.NoError(t, err)
	n2, err := Render(sampleContract(), sampleResult(), sampleCalibrated(), DefaultGate())
	require.NoError(t, err)

	assert.Equal(t, n1.Text, n2.Text)
	assert.Contains(t, n1.Text, "¿El plan define metas de inversión en infraestructura vial?")
	assert.Contains(t, n1.Text, "BUENO")
}

func TestRenderCitesEvidenceElements(t *testing.T) {
	n, err := Render(sampleContract(), sampleResult(), sampleCalibrated(), DefaultGate())
	require.NoError(t, err)
	assert.Contains(t, n.Text, "combined")
	assert.Contains(t, n.Text, "keyword_hits")
}

func TestRenderEnumeratesGapsWithSeverity(t *testing.T) {
	result := sampleResult()
	result.Failures = []evidence.ValidationFailure{
		{Field: "combined", Rule: "non_empty", Severity: contracts.SeverityMajor, Message: "falta evidencia financiera"},
	}
	n, err := Render(sampleContract(), result, sampleCalibrated(), DefaultGate())
	require.NoError(t, err)
	assert.Contains(t, n.Text, "falta evidencia financiera")
	assert.Contains(t, n.Text, "MAJOR")
}

func TestRenderAnnotatesWhenStillUnreadableAfterRetry(t *testing.T) {
	strict := Gate{MinFleschEase: 1000, MaxMeanSentenceLength: 1}
	n, err := Render(sampleContract(), sampleResult(), sampleCalibrated(), strict)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Attempts)
	assert.NotEmpty(t, n.ReadabilityNote)
	assert.Contains(t, n.Text, "Nota de legibilidad")
}

func TestSplitLongSentencesBreaksAtComma(t *testing.T) {
	long := "Esta es una oracion muy larga que contiene muchas palabras relacionadas, y una segunda clausula que la extiende considerablemente mas alla del limite"
	split := splitLongSentences(long)
	assert.Contains(t, split, ".")
}
