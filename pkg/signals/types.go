// Package signals implements the Signal Registry: ten
// per-policy-area SignalPacks and the per-question resolution of
// mandatory/optional signal descriptors a Contract declares.
package signals

import (
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// PatternDescriptor is one named regex/weight descriptor inside a
// SignalPack.
type PatternDescriptor struct {
	Regex  string  `json:"regex" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0,lte=1"`
}

// ExpectedValue constrains what a resolved signal's value should look
// like.
type ExpectedValue struct {
	Type    string   `json:"type" validate:"required"` // "numeric", "boolean", "categorical"
	Minimum float64  `json:"minimum,omitempty"`
	Maximum float64  `json:"maximum,omitempty"`
	Options []string `json:"options,omitempty"`
}

// ScoringContext is free-form per-signal scoring metadata (e.g. a
// baseline or normalization hint) carried through unmodified.
type ScoringContext map[string]any

// SignalDescriptor is one entry of a SignalPack: the bundle
// the signal_name -> pattern descriptor, expected values, and scoring
// context bundle one pack entry carries.
type SignalDescriptor struct {
	SignalName     string            `json:"signal_name" validate:"required"`
	Pattern        PatternDescriptor `json:"pattern"`
	ExpectedValue  ExpectedValue     `json:"expected_value"`
	ScoringContext ScoringContext    `json:"scoring_context,omitempty"`
}

// SignalPack is one policy area's full set of signal descriptors.
type SignalPack struct {
	PolicyAreaID questionnaire.PolicyArea `json:"policy_area_id" validate:"required"`
	Signals      []SignalDescriptor       `json:"signals" validate:"required,min=1,dive"`
}

// ByName indexes a pack's signals for O(1) lookup.
func (p *SignalPack) ByName() map[string]*SignalDescriptor {
	out := make(map[string]*SignalDescriptor, len(p.Signals))
	for i := range p.Signals {
		out[p.Signals[i].SignalName] = &p.Signals[i]
	}
	return out
}

// Resolution is the outcome of resolving a contract's mandatory/optional
// signal names against a PA's SignalPack.
type Resolution struct {
	Mandatory map[string]*SignalDescriptor // name -> descriptor, all present
	Optional  map[string]*SignalDescriptor // name -> descriptor, present subset
	Missing   []string                     // mandatory names absent from the pack
}

// OK reports whether every mandatory signal resolved.
func (r *Resolution) OK() bool {
	return len(r.Missing) == 0
}
