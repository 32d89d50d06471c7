package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/render"
)

const (
	fileMarkdown          = "plan_report.md"
	fileHTML              = "plan_report.html"
	filePDF               = "plan_report.pdf"
	fileDimensionScores   = "dimension_scores.json"
	fileAreaScores        = "area_scores.json"
	fileClusterScores     = "cluster_scores.json"
	fileMacroScore        = "macro_score.json"
	fileScoredMicro       = "scored_micro.jsonl"
	fileScoreHistogram    = "score_distribution.png"
	fileClusterComparison = "cluster_comparison.png"
	fileManifest          = "manifest.json"
)

// WriteArtifacts renders and writes every output artifact for one
// AnalysisReport into dir, hashing each one into the returned Manifest.
// PDF rendering failure (including the absence of a configured
// PDFRenderer) is logged and skipped rather than returned as an error:
// only HTML/Markdown render failures are fatal, PDF is best-effort.
func WriteArtifacts(dir string, rep *AnalysisReport, pdf render.PDFRenderer, generatedAt time.Time) (*Manifest, error) {
	if pdf == nil {
		pdf = render.NoPDFRenderer{}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create artifacts dir: %w", err)
	}

	artifacts := make(map[string]string)
	var warnings []string

	view := rep.View()

	md := render.Markdown(view)
	if err := writeHashed(dir, fileMarkdown, []byte(md), artifacts); err != nil {
		return nil, fmt.Errorf("report: write markdown: %w", err)
	}

	html, err := render.HTML(view)
	if err != nil {
		return nil, fmt.Errorf("report: render html: %w", err)
	}
	if err := writeHashed(dir, fileHTML, []byte(html), artifacts); err != nil {
		return nil, fmt.Errorf("report: write html: %w", err)
	}

	if pdfBytes, perr := pdf.RenderPDF(html); perr != nil {
		slog.Warn("report: pdf rendering unavailable, continuing without plan_report.pdf", "error", perr)
		warnings = append(warnings, fmt.Sprintf("pdf not rendered: %v", perr))
	} else if err := writeHashed(dir, filePDF, pdfBytes, artifacts); err != nil {
		return nil, fmt.Errorf("report: write pdf: %w", err)
	}

	dimJSON := canon.MustMarshal(rep.Dimensions)
	if err := writeHashed(dir, fileDimensionScores, dimJSON, artifacts); err != nil {
		return nil, fmt.Errorf("report: write dimension scores: %w", err)
	}

	areaJSON := canon.MustMarshal(rep.Areas)
	if err := writeHashed(dir, fileAreaScores, areaJSON, artifacts); err != nil {
		return nil, fmt.Errorf("report: write area scores: %w", err)
	}

	clusterJSON := canon.MustMarshal(rep.Clusters)
	if err := writeHashed(dir, fileClusterScores, clusterJSON, artifacts); err != nil {
		return nil, fmt.Errorf("report: write cluster scores: %w", err)
	}

	macroJSON := canon.MustMarshal(rep.Macro)
	if err := writeHashed(dir, fileMacroScore, macroJSON, artifacts); err != nil {
		return nil, fmt.Errorf("report: write macro score: %w", err)
	}

	microJSONL, err := scoredMicroJSONL(rep.Micro)
	if err != nil {
		return nil, fmt.Errorf("report: marshal scored micro: %w", err)
	}
	if err := writeHashed(dir, fileScoredMicro, microJSONL, artifacts); err != nil {
		return nil, fmt.Errorf("report: write scored micro: %w", err)
	}

	histogram, err := ScoreDistributionHistogram(rep.Micro)
	if err != nil {
		slog.Warn("report: chart rendering failed, continuing without score_distribution.png", "error", err)
		warnings = append(warnings, fmt.Sprintf("score_distribution.png not rendered: %v", err))
	} else if err := writeHashed(dir, fileScoreHistogram, histogram, artifacts); err != nil {
		return nil, fmt.Errorf("report: write score histogram: %w", err)
	}

	clusterChart, err := ClusterComparisonBars(rep.Clusters)
	if err != nil {
		slog.Warn("report: chart rendering failed, continuing without cluster_comparison.png", "error", err)
		warnings = append(warnings, fmt.Sprintf("cluster_comparison.png not rendered: %v", err))
	} else if err := writeHashed(dir, fileClusterComparison, clusterChart, artifacts); err != nil {
		return nil, fmt.Errorf("report: write cluster comparison: %w", err)
	}

	manifest := &Manifest{
		GeneratedAt:         generatedAt,
		ReportID:            rep.ReportID,
		PlanID:              rep.PlanID,
		InputPDFSHA256:      rep.InputPDFSHA256,
		QuestionnaireSHA256: rep.QuestionnaireSHA256,
		EvidenceChainHash:   evidenceChainHash(rep.Micro),
		Artifacts:           artifacts,
		Warnings:            warnings,
	}

	manifestJSON := canon.MustMarshal(manifest)
	if err := os.WriteFile(filepath.Join(dir, fileManifest), manifestJSON, 0o644); err != nil {
		return nil, fmt.Errorf("report: write manifest: %w", err)
	}

	return manifest, nil
}

func writeHashed(dir, name string, content []byte, artifacts map[string]string) error {
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return err
	}
	artifacts[name] = canon.SHA256Hex(content)
	return nil
}

func scoredMicroJSONL(rows []MicroRow) ([]byte, error) {
	var out []byte
	for _, row := range rows {
		line := canon.MustMarshal(row)
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}

// evidenceChainHash folds every micro row's evidence digest into one
// chain hash, sorted by question_id first so the chain is
// independent of emission order.
func evidenceChainHash(rows []MicroRow) string {
	sorted := append([]MicroRow{}, rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].QuestionID < sorted[j].QuestionID })
	digests := make([]string, 0, len(sorted))
	for _, row := range sorted {
		digests = append(digests, row.EvidenceDigest)
	}
	return canon.SHA256OfConcat(digests)
}
