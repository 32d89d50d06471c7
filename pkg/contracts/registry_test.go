package contracts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetAndHas(t *testing.T) {
	c := validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")
	r := NewRegistry(map[string]*Contract{"Q001": c})

	got, err := r.Get("Q001")
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.True(t, r.Has("Q001"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryGetUnknownReturnsErrContractNotFound(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Get("Q999")
	assert.True(t, errors.Is(err, ErrContractNotFound))
}

func TestRegistryIterateIsQuestionIDOrdered(t *testing.T) {
	r := NewRegistry(map[string]*Contract{
		"Q003": validContract(t, "Q003", "D1-Q3", "PA01", "DIM01"),
		"Q001": validContract(t, "Q001", "D1-Q1", "PA01", "DIM01"),
		"Q002": validContract(t, "Q002", "D1-Q2", "PA01", "DIM01"),
	})

	var seen []string
	r.Iterate(func(c *Contract) { seen = append(seen, c.QuestionID) })
	assert.Equal(t, []string{"Q001", "Q002", "Q003"}, seen)
}

func TestRegistryAllReturnsDefensiveCopy(t *testing.T) {
	r := NewRegistry(map[string]*Contract{"Q001": validContract(t, "Q001", "D1-Q1", "PA01", "DIM01")})
	out := r.All()
	delete(out, "Q001")
	assert.True(t, r.Has("Q001"))
}
