// Package chunks implements the Chunk Matrix: a frozen
// (PolicyArea, Dimension) -> Chunk lookup built from ingestion output,
// asserting the full 10x6 Cartesian product is present exactly once.
package chunks

import (
	"fmt"
	"sync"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// Chunk is one unit of source text bound to a single (PA, DIM) cell.
type Chunk struct {
	PolicyAreaID questionnaire.PolicyArea `json:"policy_area_id"`
	DimensionID  questionnaire.Dimension  `json:"dimension_id"`
	Text         string                   `json:"text"`
	ByteRange    *ByteRange               `json:"byte_range,omitempty"`
}

// ByteRange locates a chunk's text within the ingested source document.
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Key formats the (PA,DIM) pair the way the irrigation orchestrator's
// chunk_id does ("PA03-DIM02"), matching questionnaire.ChunkKey.
func (c Chunk) Key() string {
	return questionnaire.ChunkKey(c.PolicyAreaID, c.DimensionID)
}

// Matrix is the frozen 60-entry (PA,DIM) -> Chunk lookup. Safe for
// concurrent reads once constructed (same pattern as
// pkg/contracts.Registry / pkg/signals.Registry).
type Matrix struct {
	mu     sync.RWMutex
	lookup map[string]*Chunk
}

// NewMatrix validates and freezes an ordered list of chunks into a
// Matrix. It asserts:
//   - exactly 60 chunks,
//   - every (PA,DIM) in the full 10x6 grid present exactly once,
//   - each chunk has non-empty text.
//
// Any violation aborts construction — the matrix is never partially
// built.
func NewMatrix(ordered []Chunk) (*Matrix, error) {
	if len(ordered) != 60 {
		return nil, fmt.Errorf("chunks: expected 60 chunks, got %d", len(ordered))
	}

	lookup := make(map[string]*Chunk, 60)
	for i := range ordered {
		c := ordered[i]
		if !c.PolicyAreaID.IsValid() {
			return nil, fmt.Errorf("chunks: invalid policy_area_id %q", c.PolicyAreaID)
		}
		if !c.DimensionID.IsValid() {
			return nil, fmt.Errorf("chunks: invalid dimension_id %q", c.DimensionID)
		}
		if c.Text == "" {
			return nil, fmt.Errorf("chunks: chunk %s has empty text", c.Key())
		}
		key := c.Key()
		if _, dup := lookup[key]; dup {
			return nil, fmt.Errorf("chunks: duplicate chunk for %s", key)
		}
		lookup[key] = &ordered[i]
	}

	for _, pa := range questionnaire.AllPolicyAreas() {
		for _, dim := range questionnaire.AllDimensions() {
			key := questionnaire.ChunkKey(pa, dim)
			if _, ok := lookup[key]; !ok {
				return nil, fmt.Errorf("chunks: missing chunk for %s", key)
			}
		}
	}

	return &Matrix{lookup: lookup}, nil
}

// Get returns the chunk for (PA, DIM), or ok=false if absent — callers
// in the irrigation orchestrator treat a miss as status=missing_chunk
// rather than a panic.
func (m *Matrix) Get(pa questionnaire.PolicyArea, dim questionnaire.Dimension) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.lookup[questionnaire.ChunkKey(pa, dim)]
	return c, ok
}

// Len returns the number of chunks held (always 60 once constructed).
func (m *Matrix) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lookup)
}
