// Package ingestion implements Phase 1: the
// boundary to the PDF-extraction collaborator, which this module treats
// as opaque ("passed to the ingestion collaborator"). Provider is the
// collaborator contract; FileProvider is the deterministic, file-based
// reference implementation used in place of a real PDF-text-extraction
// library, which is explicitly out of scope.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/chunks"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// Provider is the ingestion collaborator contract: given the plan
// PDF path and the loaded questionnaire, return the ordered 60-chunk
// decomposition, deterministically for the same inputs.
type Provider interface {
	Ingest(ctx context.Context, pdfPath string, monolith *questionnaire.Monolith) ([]chunks.Chunk, error)
}

// sidecarChunk is one row of a FileProvider sidecar file.
type sidecarChunk struct {
	PolicyAreaID questionnaire.PolicyArea `json:"policy_area_id"`
	DimensionID  questionnaire.Dimension  `json:"dimension_id"`
	Text         string                   `json:"text"`
	ByteStart    *int                     `json:"byte_start,omitempty"`
	ByteEnd      *int                     `json:"byte_end,omitempty"`
}

// FileProvider is the deterministic reference Provider: it reads a
// pre-segmented sidecar JSON file (the same directory as the plan PDF,
// named "<plan>.chunks.json") rather than performing PDF text
// extraction itself, since that extraction step is an external
// collaborator out of this module's scope. Swappable for a real
// PDF-extraction-backed Provider without touching any downstream phase.
type FileProvider struct {
	// SidecarPath overrides the default "<pdf_path>.chunks.json"
	// location when set.
	SidecarPath string
}

// Ingest reads the sidecar chunk file and returns the ordered 60-Chunk
// decomposition, sorted into (PA,DIM) canonical order so the result is
// deterministic regardless of the sidecar file's own row order.
func (p FileProvider) Ingest(_ context.Context, pdfPath string, _ *questionnaire.Monolith) ([]chunks.Chunk, error) {
	path := p.SidecarPath
	if path == "" {
		path = pdfPath + ".chunks.json"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingestion: read sidecar %s: %w", path, err)
	}

	var rows []sidecarChunk
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("ingestion: parse sidecar %s: %w", path, err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PolicyAreaID != rows[j].PolicyAreaID {
			return rows[i].PolicyAreaID < rows[j].PolicyAreaID
		}
		return rows[i].DimensionID < rows[j].DimensionID
	})

	out := make([]chunks.Chunk, 0, len(rows))
	for _, r := range rows {
		c := chunks.Chunk{PolicyAreaID: r.PolicyAreaID, DimensionID: r.DimensionID, Text: r.Text}
		if r.ByteStart != nil && r.ByteEnd != nil {
			c.ByteRange = &chunks.ByteRange{Start: *r.ByteStart, End: *r.ByteEnd}
		}
		out = append(out, c)
	}
	return out, nil
}

var _ Provider = FileProvider{}
