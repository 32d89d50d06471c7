package contracts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/runtime"
)

func writeContract(t *testing.T, dir string, c *Contract) {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	path := filepath.Join(dir, c.QuestionID+".v3.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadAcceptsAllValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeContract(t, dir, validContract(t, "Q001", "D1-Q1", "PA01", "DIM01"))
	writeContract(t, dir, validContract(t, "Q002", "D1-Q1", "PA02", "DIM01"))

	res, err := Load(dir, runtime.ModeDev)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Registry.Len())
	assert.Empty(t, res.Rejected)
}

func TestLoadProdAbortsOnInvalidContract(t *testing.T) {
	dir := t.TempDir()
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	c.ContractHash = "corrupted"
	writeContract(t, dir, c)

	_, err := Load(dir, runtime.ModeProd)
	assert.Error(t, err)
}

func TestLoadDevExcludesInvalidContractInstead(t *testing.T) {
	dir := t.TempDir()
	good := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	bad := validContract(t, "Q002", "D1-Q2", "PA01", "DIM01")
	bad.ContractHash = "corrupted"
	writeContract(t, dir, good)
	writeContract(t, dir, bad)

	res, err := Load(dir, runtime.ModeDev)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Registry.Len())
	assert.True(t, res.Registry.Has("Q001"))
	assert.NotEmpty(t, res.Rejected["Q002"])
}

func TestLoadRejectsDuplicateQuestionID(t *testing.T) {
	dir := t.TempDir()
	c1 := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	writeContract(t, dir, c1)
	// Second file with same question_id but different filename.
	data, err := json.Marshal(c1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Q001-dup.v3.json"), data, 0o644))

	_, err = Load(dir, runtime.ModeProd)
	assert.Error(t, err)
}

func TestLoadCheckPositionalEquivalenceAcrossFullSlot(t *testing.T) {
	dir := t.TempDir()
	pas := questionnaire.AllPolicyAreas()
	for i, pa := range pas {
		c := validContract(t, fmt.Sprintf("Q%03d", i+1), "D1-Q1", pa, "DIM01")
		writeContract(t, dir, c)
	}

	res, err := Load(dir, runtime.ModeDev)
	require.NoError(t, err)
	assert.Equal(t, len(pas), res.Registry.Len())
}
