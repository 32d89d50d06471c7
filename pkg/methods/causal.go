package methods

import (
	"context"
	"regexp"
	"strings"
)

// CausalClass extracts (cause, effect, connective) triples from the
// chunk text via Spanish causal connectives, feeding the
// supports/quantifies evidence edges.
type CausalClass struct{}

// CausalLink is one extracted triple.
type CausalLink struct {
	Cause      string `json:"cause"`
	Effect     string `json:"effect"`
	Connective string `json:"connective"`
}

// CausalLinks is the output of ExtractCausalLinks.
type CausalLinks struct {
	Links []CausalLink `json:"links"`
}

var causalConnectives = []string{"porque", "debido a", "por lo tanto", "como resultado de", "dado que"}

func (CausalClass) ClassName() string { return "causal" }

func (c CausalClass) Methods() map[string]Method {
	return map[string]Method{
		"ExtractCausalLinks": {
			Spec: MethodSpec{
				Name:   "ExtractCausalLinks",
				Params: nil,
			},
			Func: c.extractCausalLinks,
		},
	}
}

func (CausalClass) extractCausalLinks(_ context.Context, in Input) (any, error) {
	sentences := splitSentences(in.ChunkText)
	links := make([]CausalLink, 0)

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, conn := range causalConnectives {
			idx := strings.Index(lower, conn)
			if idx < 0 {
				continue
			}
			cause := strings.TrimSpace(sentence[:idx])
			effect := strings.TrimSpace(sentence[idx+len(conn):])
			if cause == "" || effect == "" {
				continue
			}
			links = append(links, CausalLink{Cause: cause, Effect: effect, Connective: conn})
			break
		}
	}

	return CausalLinks{Links: links}, nil
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)

func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
