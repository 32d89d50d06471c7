package methods

import (
	"bufio"
	"context"

	"github.com/apparentlymart/go-textseg/v15/textseg"
)

// TextMiningClass implements pattern-frequency and keyword-density
// analysis over the chunk text.
type TextMiningClass struct{}

// KeywordHits is the output of ExtractKeywordHits.
type KeywordHits struct {
	TotalMatches  int            `json:"total_matches"`
	WordCount     int            `json:"word_count"`
	Density       float64        `json:"density"` // matches per 100 words
	ByPattern     map[string]int `json:"by_pattern"`
	WeightedScore float64        `json:"weighted_score"` // in [0,1]
}

func (TextMiningClass) ClassName() string { return "textmining" }

func (c TextMiningClass) Methods() map[string]Method {
	return map[string]Method{
		"ExtractKeywordHits": {
			Spec: MethodSpec{
				Name: "ExtractKeywordHits",
				Params: []ParamSpec{
					{Name: "patterns", Kind: ParamAny, Required: true},
				},
			},
			Func: c.extractKeywordHits,
		},
	}
}

func (TextMiningClass) extractKeywordHits(_ context.Context, in Input) (any, error) {
	patterns := patternsArg(in.Args, "patterns")
	compiled := compilePatterns(patterns)

	wordCount, err := textseg.TokenCount([]byte(in.ChunkText), bufio.ScanWords)
	if err != nil {
		wordCount = 0
	}

	byPattern := make(map[string]int, len(compiled))
	total := 0
	var weightedSum float64
	for _, p := range compiled {
		n := len(p.Regex.FindAllStringIndex(in.ChunkText, -1))
		byPattern[p.ID] = n
		total += n
		weightedSum += float64(n) * p.Weight
	}

	density := 0.0
	if wordCount > 0 {
		density = float64(total) / float64(wordCount) * 100
	}

	score := weightedSum
	if score > 1 {
		score = 1
	}

	return KeywordHits{
		TotalMatches:  total,
		WordCount:     wordCount,
		Density:       density,
		ByPattern:     byPattern,
		WeightedScore: score,
	}, nil
}
