package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreShortSimpleSentenceIsReadable(t *testing.T) {
	m, err := Score("El plan es bueno. La meta es clara.")
	require.NoError(t, err)
	assert.Greater(t, m.AvgSentenceLength, 0.0)
	assert.True(t, Meets(m, 0, 20))
}

func TestScoreEmptyTextReturnsZeroMetrics(t *testing.T) {
	m, err := Score("")
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, m)
}

func TestMeetsRejectsLongSentences(t *testing.T) {
	m := Metrics{FleschReadingEase: 70, AvgSentenceLength: 30}
	assert.False(t, Meets(m, 60, 20))
}

func TestMeetsRejectsLowEase(t *testing.T) {
	m := Metrics{FleschReadingEase: 10, AvgSentenceLength: 5}
	assert.False(t, Meets(m, 60, 20))
}

func TestSplitSentencesHandlesMultiplePunctuation(t *testing.T) {
	sentences := splitSentences("Uno. Dos! Tres? Cuatro")
	assert.Len(t, sentences, 4)
}
