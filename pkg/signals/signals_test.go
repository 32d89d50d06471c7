package signals

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

func samplePack(pa questionnaire.PolicyArea) *SignalPack {
	return &SignalPack{
		PolicyAreaID: pa,
		Signals: []SignalDescriptor{
			{
				SignalName:    "keyword_hits",
				Pattern:       PatternDescriptor{Regex: `\bpresupuesto\b`, Weight: 0.7},
				ExpectedValue: ExpectedValue{Type: "numeric", Minimum: 0, Maximum: 100},
			},
			{
				SignalName:    "similarity_score",
				Pattern:       PatternDescriptor{Regex: `.*`, Weight: 0.3},
				ExpectedValue: ExpectedValue{Type: "numeric", Minimum: 0, Maximum: 1},
			},
		},
	}
}

func TestRegistryGetAndResolve(t *testing.T) {
	r := NewRegistry(map[questionnaire.PolicyArea]*SignalPack{
		"PA01": samplePack("PA01"),
	})

	pack, err := r.Get("PA01")
	require.NoError(t, err)
	assert.Equal(t, 2, len(pack.Signals))

	res, err := r.Resolve("PA01", []string{"keyword_hits"}, []string{"similarity_score"})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, res.Mandatory, "keyword_hits")
	assert.Contains(t, res.Optional, "similarity_score")
}

func TestRegistryGetUnknownPA(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Get("PA99")
	assert.True(t, errors.Is(err, ErrPackNotFound))
}

func TestResolveReportsMissingMandatory(t *testing.T) {
	r := NewRegistry(map[questionnaire.PolicyArea]*SignalPack{"PA01": samplePack("PA01")})
	res, err := r.Resolve("PA01", []string{"keyword_hits", "nonexistent_signal"}, nil)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, []string{"nonexistent_signal"}, res.Missing)
}

func TestLoadReadsAllTenPacks(t *testing.T) {
	dir := t.TempDir()
	for _, pa := range questionnaire.AllPolicyAreas() {
		data, err := json.Marshal(samplePack(pa))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "enriched_signal_pack_"+string(pa)+".json"), data, 0o644))
	}

	r, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 10, r.Len())
}

func TestLoadRejectsPolicyAreaMismatch(t *testing.T) {
	dir := t.TempDir()
	for _, pa := range questionnaire.AllPolicyAreas() {
		pack := samplePack(pa)
		if pa == "PA01" {
			pack.PolicyAreaID = "PA02"
		}
		data, err := json.Marshal(pack)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "enriched_signal_pack_"+string(pa)+".json"), data, 0o644))
	}

	_, err := Load(dir)
	assert.Error(t, err)
}
