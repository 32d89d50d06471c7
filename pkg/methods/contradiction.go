package methods

import (
	"context"
	"regexp"
)

// ContradictionClass pairs facts sharing type+subject with disagreeing
// values and emits contradicts edges.
type ContradictionClass struct{}

// NumericClaim is one "<subject> <verb> <number>" style statement
// extracted from the chunk text.
type NumericClaim struct {
	Subject string  `json:"subject"`
	Value   float64 `json:"value"`
	Raw     string  `json:"raw"`
}

// ContradictionPair is two claims about the same subject that disagree.
type ContradictionPair struct {
	Subject string  `json:"subject"`
	ValueA  float64 `json:"value_a"`
	ValueB  float64 `json:"value_b"`
}

// Contradictions is the output of DetectContradictions.
type Contradictions struct {
	Claims         []NumericClaim      `json:"claims"`
	Contradictions []ContradictionPair `json:"contradictions"`
}

var numericClaimRe = regexp.MustCompile(`(?i)\b([a-záéíóúñ ]{3,40}?)\s+(?:es|fue|será|asciende a|equivale a)\s+([0-9]+(?:[.,][0-9]+)?)`)

func (ContradictionClass) ClassName() string { return "contradiction" }

func (c ContradictionClass) Methods() map[string]Method {
	return map[string]Method{
		"DetectContradictions": {
			Spec: MethodSpec{Name: "DetectContradictions"},
			Func: c.detectContradictions,
		},
	}
}

func (ContradictionClass) detectContradictions(_ context.Context, in Input) (any, error) {
	matches := numericClaimRe.FindAllStringSubmatch(in.ChunkText, -1)
	claims := make([]NumericClaim, 0, len(matches))
	for _, m := range matches {
		v, err := parseFloatLoose(m[2])
		if err != nil {
			continue
		}
		claims = append(claims, NumericClaim{Subject: normalizeSubject(m[1]), Value: v, Raw: m[0]})
	}

	pairs := make([]ContradictionPair, 0)
	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			if claims[i].Subject == claims[j].Subject && claims[i].Value != claims[j].Value {
				pairs = append(pairs, ContradictionPair{
					Subject: claims[i].Subject,
					ValueA:  claims[i].Value,
					ValueB:  claims[j].Value,
				})
			}
		}
	}

	return Contradictions{Claims: claims, Contradictions: pairs}, nil
}

func normalizeSubject(s string) string {
	return regexp.MustCompile(`\s+`).ReplaceAllString(s, " ")
}
