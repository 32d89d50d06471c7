package methods

import (
	"context"
	"strings"
)

// SemanticClass computes token-overlap similarity between the chunk
// text and the question text — a deterministic, dependency-free
// fallback implementation of the pluggable PatternMatcher collaborator
// contract, not an ML embedding model.
type SemanticClass struct{}

// SimilarityScore is the output of ScoreSimilarity.
type SimilarityScore struct {
	Score           float64  `json:"score"` // Jaccard similarity in [0,1]
	SharedTokens    []string `json:"shared_tokens"`
	ChunkTokenCount int      `json:"chunk_token_count"`
}

func (SemanticClass) ClassName() string { return "semantic" }

func (c SemanticClass) Methods() map[string]Method {
	return map[string]Method{
		"ScoreSimilarity": {
			Spec: MethodSpec{
				Name: "ScoreSimilarity",
				Params: []ParamSpec{
					{Name: "question_text", Kind: ParamString, Required: true},
				},
			},
			Func: c.scoreSimilarity,
		},
	}
}

func (SemanticClass) scoreSimilarity(_ context.Context, in Input) (any, error) {
	questionText, _ := stringArg(in.Args, "question_text")

	chunkTokens := tokenSet(in.ChunkText)
	questionTokens := tokenSet(questionText)

	shared := make([]string, 0)
	for t := range chunkTokens {
		if questionTokens[t] {
			shared = append(shared, t)
		}
	}

	union := len(chunkTokens)
	for t := range questionTokens {
		if !chunkTokens[t] {
			union++
		}
	}

	score := 0.0
	if union > 0 {
		score = float64(len(shared)) / float64(union)
	}

	return SimilarityScore{
		Score:           score,
		SharedTokens:    shared,
		ChunkTokenCount: len(chunkTokens),
	}, nil
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:¿?¡!()\"'")
		if f != "" {
			out[f] = true
		}
	}
	return out
}
