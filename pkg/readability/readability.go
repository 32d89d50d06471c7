// Package readability implements the readability metric provider
// collaborator contract — text in, {flesch_reading_ease, grade_level,
// avg_sentence_length} out — with a deterministic Spanish-calibrated
// implementation. No ML or external linting dependency; the provider
// is pluggable.
package readability

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/apparentlymart/go-textseg/v15/textseg"
)

// Metrics is the collaborator contract's return shape.
type Metrics struct {
	FleschReadingEase float64  `json:"flesch_reading_ease"`
	GradeLevel        float64  `json:"grade_level"`
	AvgSentenceLength float64  `json:"avg_sentence_length"`
	ProselintScore    *float64 `json:"proselint_score,omitempty"` // never populated: no lint collaborator in this build
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)

// vowelsRe counts Spanish vowel clusters (including accented forms) as
// a syllable-nucleus approximation — syllable counting without a
// phonetic dictionary is inherently approximate; this is the same
// trade-off English Flesche implementations make with vowel-group
// counting.
var vowelsRe = regexp.MustCompile(`(?i)[aeiouáéíóúü]+`)

// Score computes a Spanish-calibrated Flesche reading-ease
// approximation (Fernández-Huerta formula: 206.84 - 0.60*syllables_per_100_words
// - 1.02*words_per_sentence), the derived grade level, and mean
// sentence length in words.
func Score(text string) (Metrics, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return Metrics{}, nil
	}

	totalWords := 0
	totalSyllables := 0
	for _, s := range sentences {
		words, err := textseg.TokenCount([]byte(s), bufio.ScanWords)
		if err != nil {
			continue
		}
		totalWords += words
		totalSyllables += countSyllables(s)
	}
	if totalWords == 0 {
		return Metrics{}, nil
	}

	wordsPerSentence := float64(totalWords) / float64(len(sentences))
	syllablesPer100Words := float64(totalSyllables) / float64(totalWords) * 100

	ease := 206.84 - 0.60*syllablesPer100Words - 1.02*wordsPerSentence
	grade := (0.39 * wordsPerSentence) + (11.8 * float64(totalSyllables) / float64(totalWords)) - 15.59

	return Metrics{
		FleschReadingEase: ease,
		GradeLevel:        grade,
		AvgSentenceLength: wordsPerSentence,
	}, nil
}

// Meets reports whether the given metrics satisfy the synthesis
// renderer's readability gate: Flesch reading-ease at or above
// minEase, mean sentence length at or below maxSentenceLength.
func Meets(m Metrics, minEase, maxSentenceLength float64) bool {
	return m.FleschReadingEase >= minEase && m.AvgSentenceLength <= maxSentenceLength
}

func splitSentences(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	parts := sentenceSplitRe.Split(trimmed, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func countSyllables(sentence string) int {
	return len(vowelsRe.FindAllString(sentence, -1))
}
