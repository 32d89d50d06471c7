// Package synthesis implements the Synthesis Renderer:
// per-question Spanish-language narrative generation over assembled
// evidence, validation results, and a calibrated output, gated on a
// readability check with a sentence-splitting retry.
package synthesis

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/calibration"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/evidence"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/readability"
)

// Gate holds the readability thresholds the narrative must clear
// (Flesch reading-ease >= 60, mean sentence length <= 20 words),
// loaded from pipeline.yaml rather than hard-coded so ops can retune
// without a rebuild.
type Gate struct {
	MinFleschEase         float64
	MaxMeanSentenceLength float64
}

// DefaultGate is the standard threshold pair.
func DefaultGate() Gate {
	return Gate{MinFleschEase: 60, MaxMeanSentenceLength: 20}
}

// Narrative is the rendered result for one question.
type Narrative struct {
	Text            string              `json:"text"`
	Metrics         readability.Metrics `json:"metrics"`
	Attempts        int                 `json:"attempts"`
	ReadabilityNote string              `json:"readability_note,omitempty"`
}

// Render produces the deterministic Spanish narrative for one
// question. Identical inputs always produce identical bytes: no
// timestamps, no randomness, and map iteration is sorted before use.
func Render(contract *contracts.Contract, result *evidence.Result, calibrated *calibration.CalibratedOutput, gate Gate) (Narrative, error) {
	text := compose(contract, result, calibrated)

	metrics, err := readability.Score(text)
	if err != nil {
		return Narrative{}, fmt.Errorf("synthesis: score narrative for %s: %w", contract.QuestionID, err)
	}
	if readability.Meets(metrics, gate.MinFleschEase, gate.MaxMeanSentenceLength) {
		return Narrative{Text: text, Metrics: metrics, Attempts: 1}, nil
	}

	retried := splitLongSentences(text)
	retriedMetrics, err := readability.Score(retried)
	if err != nil {
		return Narrative{}, fmt.Errorf("synthesis: score retried narrative for %s: %w", contract.QuestionID, err)
	}
	if readability.Meets(retriedMetrics, gate.MinFleschEase, gate.MaxMeanSentenceLength) {
		return Narrative{Text: retried, Metrics: retriedMetrics, Attempts: 2}, nil
	}

	note := fmt.Sprintf(
		"[Nota de legibilidad: este texto no alcanzó el umbral de legibilidad (Flesch=%.1f, longitud media de oración=%.1f) tras una reescritura.]",
		retriedMetrics.FleschReadingEase, retriedMetrics.AvgSentenceLength,
	)
	return Narrative{
		Text:            retried + " " + note,
		Metrics:         retriedMetrics,
		Attempts:        2,
		ReadabilityNote: note,
	}, nil
}

// compose builds the base narrative: question text verbatim, cited
// evidence elements, the quality label and its confidence, and
// enumerated gaps by severity.
func compose(contract *contracts.Contract, result *evidence.Result, calibrated *calibration.CalibratedOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pregunta evaluada: \"%s\". ", contract.QuestionContext.QuestionText)

	if len(result.Assembled.ElementsFound) > 0 {
		elements := append([]string{}, result.Assembled.ElementsFound...)
		sort.Strings(elements)
		fmt.Fprintf(&b, "Se identificaron los siguientes elementos de evidencia: %s. ", strings.Join(elements, ", "))
	} else {
		b.WriteString("No se identificaron elementos de evidencia en el fragmento analizado. ")
	}

	modal := calibrated.LabelProbabilities[string(calibrated.Label)]
	fmt.Fprintf(&b, "El nivel de calidad asignado es %s, con una probabilidad modal de %.0f%%. ", calibrated.Label, modal*100)

	if len(result.Failures) == 0 {
		b.WriteString("No se registraron brechas de validación.")
		return b.String()
	}

	failures := append([]evidence.ValidationFailure{}, result.Failures...)
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Field < failures[j].Field })
	b.WriteString("Se identificaron las siguientes brechas: ")
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Message, f.Severity))
	}
	b.WriteString(strings.Join(parts, "; "))
	b.WriteString(".")

	return b.String()
}

// splitLongSentences breaks sentences over the word-length budget at
// their first comma, a cheap deterministic rewrite that lowers mean
// sentence length without altering meaning.
func splitLongSentences(text string) string {
	sentences := strings.Split(text, ". ")
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if wordCount(s) <= 20 {
			out = append(out, s)
			continue
		}
		if idx := strings.Index(s, ", "); idx > 0 && idx+2 < len(s) {
			rest := []rune(s[idx+2:])
			rest[0] = unicode.ToUpper(rest[0])
			out = append(out, s[:idx]+".", string(rest))
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, ". ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
