package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProviderIngestSortsDeterministically(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "plan.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("pdf bytes"), 0o644))

	sidecar := `[
		{"policy_area_id":"PA02","dimension_id":"DIM01","text":"b"},
		{"policy_area_id":"PA01","dimension_id":"DIM02","text":"a2"},
		{"policy_area_id":"PA01","dimension_id":"DIM01","text":"a1"}
	]`
	require.NoError(t, os.WriteFile(pdfPath+".chunks.json", []byte(sidecar), 0o644))

	provider := FileProvider{}
	out, err := provider.Ingest(context.Background(), pdfPath, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "a1", out[0].Text)
	assert.Equal(t, "a2", out[1].Text)
	assert.Equal(t, "b", out[2].Text)
}

func TestFileProviderIngestMissingSidecar(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "plan.pdf")

	provider := FileProvider{}
	_, err := provider.Ingest(context.Background(), pdfPath, nil)
	assert.Error(t, err)
}
