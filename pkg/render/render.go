// Package render implements the HTML/Markdown templating and the
// pluggable PDF renderer contract used by the report assembler. The
// act of turning a report into HTML/PDF bytes is
// treated as an external templating engine's job; this package is that
// templating engine (plain string assembly plus go-wordwrap for line
// wrapping, no third-party HTML templating framework beyond the
// standard library's html/template).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/aggregation"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// MicroRow is one rendered micro-question line, the row shape
// `AnalysisReport`'s 300 micro rows take.
type MicroRow struct {
	QuestionID     string
	PolicyAreaID   questionnaire.PolicyArea
	DimensionID    questionnaire.Dimension
	Score          float64 // [0,1]
	QualityLevel   questionnaire.QualityLevel
	EvidenceDigest string
	Narrative      string
}

// ReportView is the fully assembled, renderer-agnostic view of an
// AnalysisReport: cover metadata, macro summary, 4 cluster
// tables, 10 area tables, 60 dimension rows, 300 micro rows. It
// carries no timestamp field — rendering must be byte-deterministic
// for identical inputs, so any wall-clock value lives only in
// the manifest, never in the rendered body.
type ReportView struct {
	ReportID   string
	PlanID     string
	Macro      aggregation.MacroScore
	Clusters   []aggregation.ClusterScore
	Areas      []aggregation.AreaScore
	Dimensions []aggregation.DimensionScore
	Micro      []MicroRow
}

// sortedMicro returns Micro sorted by question_id, defensively, so
// rendering never depends on caller-supplied ordering.
func (v ReportView) sortedMicro() []MicroRow {
	out := append([]MicroRow{}, v.Micro...)
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func (v ReportView) sortedDimensions() []aggregation.DimensionScore {
	out := append([]aggregation.DimensionScore{}, v.Dimensions...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PolicyAreaID != out[j].PolicyAreaID {
			return out[i].PolicyAreaID < out[j].PolicyAreaID
		}
		return out[i].DimensionID < out[j].DimensionID
	})
	return out
}

func (v ReportView) sortedAreas() []aggregation.AreaScore {
	out := append([]aggregation.AreaScore{}, v.Areas...)
	sort.Slice(out, func(i, j int) bool { return out[i].PolicyAreaID < out[j].PolicyAreaID })
	return out
}

func (v ReportView) sortedClusters() []aggregation.ClusterScore {
	out := append([]aggregation.ClusterScore{}, v.Clusters...)
	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return out
}

// Markdown renders the deterministic Markdown artifact
// (plan_report.md). Narrative text is wrapped to 100 columns with
// go-wordwrap.
func Markdown(v ReportView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Informe de calidad del plan de desarrollo\n\n")
	fmt.Fprintf(&b, "- Report ID: `%s`\n", v.ReportID)
	fmt.Fprintf(&b, "- Plan ID: `%s`\n\n", v.PlanID)

	fmt.Fprintf(&b, "## Resumen macro\n\n")
	fmt.Fprintf(&b, "- Puntaje: **%.2f / 3.00** (%s)\n", v.Macro.Score, v.Macro.QualityLevel)
	fmt.Fprintf(&b, "- Cobertura: %.1f%%\n", v.Macro.CoverageRate*100)
	fmt.Fprintf(&b, "- Balance (varianza entre áreas): %.4f\n", v.Macro.BalanceScore)
	fmt.Fprintf(&b, "- Coherencia entre clústeres: %.4f\n", v.Macro.ClusterCoherence)
	if len(v.Macro.SystemicGaps) > 0 {
		fmt.Fprintf(&b, "- Brechas sistémicas: %s\n", strings.Join(v.Macro.SystemicGaps, ", "))
	} else {
		b.WriteString("- Brechas sistémicas: ninguna\n")
	}
	fmt.Fprintf(&b, "- Ranking de dimensiones: %s\n\n", strings.Join(v.Macro.DimensionRanking, " > "))

	b.WriteString("## Clústeres\n\n")
	b.WriteString("| Clúster | Puntaje | Calidad | Coherencia | CV | Forma |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range v.sortedClusters() {
		fmt.Fprintf(&b, "| %s | %.2f | %s | %.3f | %.3f | %s |\n",
			c.ClusterID, c.Score, c.QualityLevel, c.Coherence, c.CoefficientOfVariation, c.Shape)
	}
	b.WriteString("\n")

	b.WriteString("## Áreas de política\n\n")
	b.WriteString("| Área | Puntaje | Calidad |\n")
	b.WriteString("|---|---|---|\n")
	for _, a := range v.sortedAreas() {
		fmt.Fprintf(&b, "| %s | %.2f | %s |\n", a.PolicyAreaID, a.Score, a.QualityLevel)
	}
	b.WriteString("\n")

	b.WriteString("## Dimensiones\n\n")
	b.WriteString("| Área | Dimensión | Puntaje | Calidad |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, d := range v.sortedDimensions() {
		fmt.Fprintf(&b, "| %s | %s | %.2f | %s |\n", d.PolicyAreaID, d.DimensionID, d.Score, d.QualityLevel)
	}
	b.WriteString("\n")

	b.WriteString("## Preguntas micro\n\n")
	for _, m := range v.sortedMicro() {
		fmt.Fprintf(&b, "### %s (%s / %s)\n\n", m.QuestionID, m.PolicyAreaID, m.DimensionID)
		fmt.Fprintf(&b, "- Puntaje: %.3f — %s\n", m.Score, m.QualityLevel)
		fmt.Fprintf(&b, "- Huella de evidencia: `%s`\n\n", m.EvidenceDigest)
		b.WriteString(wordwrap.WrapString(m.Narrative, 100))
		b.WriteString("\n\n")
	}

	return b.String()
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Informe de calidad del plan de desarrollo</title></head>
<body>
<h1>Informe de calidad del plan de desarrollo</h1>
<p>Report ID: <code>{{.ReportID}}</code><br>Plan ID: <code>{{.PlanID}}</code></p>

<h2>Resumen macro</h2>
<ul>
<li>Puntaje: <strong>{{printf "%.2f" .Macro.Score}} / 3.00</strong> ({{.Macro.QualityLevel}})</li>
<li>Cobertura: {{printf "%.1f" .CoveragePct}}%</li>
<li>Balance: {{printf "%.4f" .Macro.BalanceScore}}</li>
<li>Coherencia entre clústeres: {{printf "%.4f" .Macro.ClusterCoherence}}</li>
</ul>

<h2>Clústeres</h2>
<table border="1">
<tr><th>Clúster</th><th>Puntaje</th><th>Calidad</th><th>Coherencia</th></tr>
{{range .Clusters}}<tr><td>{{.ClusterID}}</td><td>{{printf "%.2f" .Score}}</td><td>{{.QualityLevel}}</td><td>{{printf "%.3f" .Coherence}}</td></tr>
{{end}}</table>

<h2>Áreas</h2>
<table border="1">
<tr><th>Área</th><th>Puntaje</th><th>Calidad</th></tr>
{{range .Areas}}<tr><td>{{.PolicyAreaID}}</td><td>{{printf "%.2f" .Score}}</td><td>{{.QualityLevel}}</td></tr>
{{end}}</table>

<h2>Preguntas micro</h2>
{{range .Micro}}<h3>{{.QuestionID}} ({{.PolicyAreaID}} / {{.DimensionID}})</h3>
<p>Puntaje: {{printf "%.3f" .Score}} — {{.QualityLevel}}<br>
Huella: <code>{{.EvidenceDigest}}</code></p>
<p>{{.Narrative}}</p>
{{end}}
</body>
</html>
`))

// htmlViewModel adapts ReportView into the flat, pre-sorted shape the
// html/template above ranges over.
type htmlViewModel struct {
	ReportID    string
	PlanID      string
	Macro       aggregation.MacroScore
	CoveragePct float64
	Clusters    []aggregation.ClusterScore
	Areas       []aggregation.AreaScore
	Micro       []MicroRow
}

// HTML renders the deterministic HTML artifact via html/template.
func HTML(v ReportView) (string, error) {
	model := htmlViewModel{
		ReportID:    v.ReportID,
		PlanID:      v.PlanID,
		Macro:       v.Macro,
		CoveragePct: v.Macro.CoverageRate * 100,
		Clusters:    v.sortedClusters(),
		Areas:       v.sortedAreas(),
		Micro:       v.sortedMicro(),
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, model); err != nil {
		return "", fmt.Errorf("render: execute html template: %w", err)
	}
	return buf.String(), nil
}

// PDFRenderer is the pluggable PDF-rendering collaborator contract:
// html in, pdf bytes out. It may be absent (warning, not error).
type PDFRenderer interface {
	RenderPDF(html string) ([]byte, error)
}

// NoPDFRenderer is the zero-value Provider used when no PDF renderer is
// configured: RenderPDF always reports ErrNoPDFRenderer, which callers
// in pkg/report treat as a non-fatal warning.
type NoPDFRenderer struct{}

// ErrNoPDFRenderer is returned by NoPDFRenderer.RenderPDF.
var ErrNoPDFRenderer = fmt.Errorf("render: no PDF renderer configured")

func (NoPDFRenderer) RenderPDF(string) ([]byte, error) { return nil, ErrNoPDFRenderer }

var _ PDFRenderer = NoPDFRenderer{}
