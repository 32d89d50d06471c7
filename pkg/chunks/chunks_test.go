package chunks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

func fullGrid() []Chunk {
	out := make([]Chunk, 0, 60)
	for _, pa := range questionnaire.AllPolicyAreas() {
		for _, dim := range questionnaire.AllDimensions() {
			out = append(out, Chunk{PolicyAreaID: pa, DimensionID: dim, Text: "some source text about " + string(dim)})
		}
	}
	return out
}

func TestNewMatrixAcceptsFullGrid(t *testing.T) {
	m, err := NewMatrix(fullGrid())
	require.NoError(t, err)
	assert.Equal(t, 60, m.Len())

	c, ok := m.Get("PA03", "DIM02")
	require.True(t, ok)
	assert.Equal(t, "PA03-DIM02", c.Key())
}

func TestNewMatrixRejectsWrongCount(t *testing.T) {
	grid := fullGrid()[:59]
	_, err := NewMatrix(grid)
	assert.Error(t, err)
}

func TestNewMatrixRejectsMissingCell(t *testing.T) {
	grid := fullGrid()
	grid[0].DimensionID = grid[1].DimensionID // creates a duplicate, leaves a cell missing
	_, err := NewMatrix(grid)
	assert.Error(t, err)
}

func TestNewMatrixRejectsEmptyText(t *testing.T) {
	grid := fullGrid()
	grid[0].Text = ""
	_, err := NewMatrix(grid)
	assert.Error(t, err)
}

func TestMatrixGetMissReturnsFalse(t *testing.T) {
	m, err := NewMatrix(fullGrid())
	require.NoError(t, err)
	_, ok := m.Get("PA01", "DIM99")
	assert.False(t, ok)
}
