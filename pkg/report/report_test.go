package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/aggregation"
)

func fixtureReport() *AnalysisReport {
	return Assemble(AssembleOptions{
		ReportID:            "rep-1",
		PlanID:              "plan-1",
		InputPDFSHA256:      "deadbeef",
		QuestionnaireSHA256: "feedface",
		Macro: aggregation.MacroScore{
			Score: 2.7, QualityLevel: "EXCELENTE", CoverageRate: 1.0,
			DimensionRanking: []string{"DIM01", "DIM02"},
		},
		Clusters: []aggregation.ClusterScore{
			{ClusterID: "C2", Score: 2.4, QualityLevel: "BUENO", Coherence: 0.9},
			{ClusterID: "C1", Score: 2.7, QualityLevel: "EXCELENTE", Coherence: 1.0},
		},
		Areas: []aggregation.AreaScore{
			{PolicyAreaID: "PA02", Score: 2.4, QualityLevel: "BUENO"},
			{PolicyAreaID: "PA01", Score: 2.7, QualityLevel: "EXCELENTE"},
		},
		Dimensions: []aggregation.DimensionScore{
			{PolicyAreaID: "PA01", DimensionID: "DIM02", Score: 2.7, QualityLevel: "EXCELENTE"},
			{PolicyAreaID: "PA01", DimensionID: "DIM01", Score: 2.7, QualityLevel: "EXCELENTE"},
		},
		Micro: []MicroRow{
			{QuestionID: "Q002", PolicyAreaID: "PA01", DimensionID: "DIM02", Score: 0.9, QualityLevel: "EXCELENTE", EvidenceDigest: "bbb", Narrative: "Segunda narrativa."},
			{QuestionID: "Q001", PolicyAreaID: "PA01", DimensionID: "DIM01", Score: 0.9, QualityLevel: "EXCELENTE", EvidenceDigest: "aaa", Narrative: "Primera narrativa."},
		},
	})
}

func TestAssembleSortsEveryLevel(t *testing.T) {
	rep := fixtureReport()

	wantMicro := []MicroRow{
		{QuestionID: "Q001", PolicyAreaID: "PA01", DimensionID: "DIM01", Score: 0.9, QualityLevel: "EXCELENTE", EvidenceDigest: "aaa", Narrative: "Primera narrativa."},
		{QuestionID: "Q002", PolicyAreaID: "PA01", DimensionID: "DIM02", Score: 0.9, QualityLevel: "EXCELENTE", EvidenceDigest: "bbb", Narrative: "Segunda narrativa."},
	}
	if diff := cmp.Diff(wantMicro, rep.Micro); diff != "" {
		t.Errorf("micro rows not in canonical order (-want +got):\n%s", diff)
	}

	wantDims := []aggregation.DimensionScore{
		{PolicyAreaID: "PA01", DimensionID: "DIM01", Score: 2.7, QualityLevel: "EXCELENTE"},
		{PolicyAreaID: "PA01", DimensionID: "DIM02", Score: 2.7, QualityLevel: "EXCELENTE"},
	}
	if diff := cmp.Diff(wantDims, rep.Dimensions, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("dimension rows not in canonical order (-want +got):\n%s", diff)
	}

	wantAreas := []aggregation.AreaScore{
		{PolicyAreaID: "PA01", Score: 2.7, QualityLevel: "EXCELENTE"},
		{PolicyAreaID: "PA02", Score: 2.4, QualityLevel: "BUENO"},
	}
	if diff := cmp.Diff(wantAreas, rep.Areas, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("area rows not in canonical order (-want +got):\n%s", diff)
	}

	wantClusters := []aggregation.ClusterScore{
		{ClusterID: "C1", Score: 2.7, QualityLevel: "EXCELENTE", Coherence: 1.0},
		{ClusterID: "C2", Score: 2.4, QualityLevel: "BUENO", Coherence: 0.9},
	}
	if diff := cmp.Diff(wantClusters, rep.Clusters, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("cluster rows not in canonical order (-want +got):\n%s", diff)
	}
}

func TestWriteArtifactsProducesManifestWithAllHashes(t *testing.T) {
	rep := fixtureReport()
	dir := t.TempDir()

	manifest, err := WriteArtifacts(dir, rep, nil, time.Unix(0, 0).UTC())
	require.NoError(t, err)

	for _, name := range []string{
		fileMarkdown, fileHTML, fileDimensionScores, fileAreaScores,
		fileClusterScores, fileMacroScore, fileScoredMicro,
		fileScoreHistogram, fileClusterComparison,
	} {
		digest, ok := manifest.Artifacts[name]
		assert.True(t, ok, "missing artifact %s", name)
		assert.NotEmpty(t, digest)

		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr)
	}

	_, hasPDF := manifest.Artifacts[filePDF]
	assert.False(t, hasPDF)
	assert.NotEmpty(t, manifest.Warnings)

	assert.NotEmpty(t, manifest.EvidenceChainHash)
	assert.Equal(t, "rep-1", manifest.ReportID)

	manifestBytes, err := os.ReadFile(filepath.Join(dir, fileManifest))
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, json.Unmarshal(manifestBytes, &decoded))
	assert.Equal(t, manifest.EvidenceChainHash, decoded.EvidenceChainHash)
}

func TestWriteArtifactsIsByteDeterministic(t *testing.T) {
	rep := fixtureReport()
	dirA := t.TempDir()
	dirB := t.TempDir()

	_, err := WriteArtifacts(dirA, rep, nil, time.Unix(0, 0).UTC())
	require.NoError(t, err)
	_, err = WriteArtifacts(dirB, rep, nil, time.Unix(0, 0).UTC())
	require.NoError(t, err)

	for _, name := range []string{fileMarkdown, fileHTML, fileDimensionScores, fileScoredMicro} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "artifact %s not deterministic", name)
	}
}
