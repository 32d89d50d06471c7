package methods

import (
	"context"
	"regexp"
	"sort"
	"time"
)

// TemporalClass orders dated facts extracted from the chunk text and
// flags out-of-order sequences.
type TemporalClass struct{}

// DatedFact is one date found in the chunk text, with its surrounding
// sentence as context.
type DatedFact struct {
	Date     string `json:"date"`
	Sentence string `json:"sentence"`
}

// TemporalOrder is the output of VerifyTemporalOrder.
type TemporalOrder struct {
	Facts      []DatedFact `json:"facts"`
	InOrder    bool        `json:"in_order"`
	OutOfOrder []int       `json:"out_of_order_indices,omitempty"`
}

var isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

func (TemporalClass) ClassName() string { return "temporal" }

func (c TemporalClass) Methods() map[string]Method {
	return map[string]Method{
		"VerifyTemporalOrder": {
			Spec: MethodSpec{Name: "VerifyTemporalOrder"},
			Func: c.verifyTemporalOrder,
		},
	}
}

func (TemporalClass) verifyTemporalOrder(_ context.Context, in Input) (any, error) {
	sentences := splitSentences(in.ChunkText)
	facts := make([]DatedFact, 0)
	parsed := make([]time.Time, 0)

	for _, s := range sentences {
		loc := isoDateRe.FindString(s)
		if loc == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", loc)
		if err != nil {
			continue
		}
		facts = append(facts, DatedFact{Date: loc, Sentence: s})
		parsed = append(parsed, t)
	}

	outOfOrder := make([]int, 0)
	sortedCopy := append([]time.Time{}, parsed...)
	sort.Slice(sortedCopy, func(i, j int) bool { return sortedCopy[i].Before(sortedCopy[j]) })
	for i := range parsed {
		if !parsed[i].Equal(sortedCopy[i]) {
			outOfOrder = append(outOfOrder, i)
		}
	}

	return TemporalOrder{
		Facts:      facts,
		InOrder:    len(outOfOrder) == 0,
		OutOfOrder: outOfOrder,
	}, nil
}
