// Package report implements the report assembler and manifest:
// assembling the final AnalysisReport object from aggregated
// scores, per-question evidence digests, and synthesized narratives;
// rendering Markdown/HTML/PDF/chart artifacts; and hashing every
// emitted artifact into a manifest. The manifest records SHA-256
// digests only; it carries no cryptographic signature.
package report

import (
	"time"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/aggregation"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/render"
)

// MicroRow is reused directly from pkg/render: the report row shape
// and the render row shape are the same data — the 300 micro rows
// are exactly what render.ReportView.Micro iterates over.
type MicroRow = render.MicroRow

// AnalysisReport is the full assembled report object: cover
// metadata, macro summary, 4 cluster tables, 10 area tables, 60
// dimension rows, 300 micro rows.
type AnalysisReport struct {
	ReportID            string                       `json:"report_id"`
	PlanID              string                       `json:"plan_id"`
	InputPDFSHA256      string                       `json:"input_pdf_sha256"`
	QuestionnaireSHA256 string                       `json:"questionnaire_sha256"`
	Macro               aggregation.MacroScore       `json:"macro"`
	Clusters            []aggregation.ClusterScore   `json:"clusters"`
	Areas               []aggregation.AreaScore      `json:"areas"`
	Dimensions          []aggregation.DimensionScore `json:"dimensions"`
	Micro               []MicroRow                   `json:"micro"`
}

// View converts the report into pkg/render's renderer-agnostic shape.
func (r *AnalysisReport) View() render.ReportView {
	return render.ReportView{
		ReportID:   r.ReportID,
		PlanID:     r.PlanID,
		Macro:      r.Macro,
		Clusters:   r.Clusters,
		Areas:      r.Areas,
		Dimensions: r.Dimensions,
		Micro:      r.Micro,
	}
}

// Manifest is the final manifest.json: generation
// timestamp, report id, plan id, input hashes, the SHA-256 of every
// emitted artifact, and the evidence-chain hash.
type Manifest struct {
	GeneratedAt         time.Time         `json:"generated_at"`
	ReportID            string            `json:"report_id"`
	PlanID              string            `json:"plan_id"`
	InputPDFSHA256      string            `json:"input_pdf_sha256"`
	QuestionnaireSHA256 string            `json:"questionnaire_sha256"`
	EvidenceChainHash   string            `json:"evidence_chain_hash"`
	Artifacts           map[string]string `json:"artifacts"` // filename -> sha256
	Warnings            []string          `json:"warnings,omitempty"`
}
