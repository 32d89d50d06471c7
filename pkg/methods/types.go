// Package methods hosts the method classes the contract's
// method_binding pipeline invokes: text-mining, causal
// extraction, Bayesian numerical analysis, financial auditing, temporal
// logic verification, contradiction detection, semantic processing, and
// institutional policy processing. The Router validates keyword
// arguments per method (strict: unknown keys rejected, required keys
// missing rejected) and threads a shared per-question context keyed by
// provides.
package methods

import (
	"context"
	"math/rand"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// ParamKind is the accepted shape of a keyword argument value.
type ParamKind string

const (
	ParamString ParamKind = "string"
	ParamFloat  ParamKind = "float"
	ParamInt    ParamKind = "int"
	ParamBool   ParamKind = "bool"
	ParamAny    ParamKind = "any"
)

// ParamSpec declares one accepted keyword argument of a method.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
}

// MethodSpec declares a named method's accepted parameter set, used by
// the Router for strict kwarg validation.
type MethodSpec struct {
	Name   string
	Params []ParamSpec
}

// Input is everything one method invocation needs: the chunk text, the
// resolved kwargs (already validated by the Router), and the shared
// per-question context holding prior methods' outputs keyed by
// provides.
type Input struct {
	ChunkText string
	Args      map[string]any
	Shared    map[string]any
}

// MethodFunc is the executable body of one named method.
type MethodFunc func(ctx context.Context, in Input) (any, error)

// Method bundles a method's parameter contract with its executable
// body.
type Method struct {
	Spec MethodSpec
	Func MethodFunc
}

// Class is one method class (e.g. "textmining"): a named bundle of
// methods — one small interface, many concrete implementations hosted
// by the executor.
type Class interface {
	ClassName() string
	Methods() map[string]Method
}

// MethodCalibrationResult is returned by a calibrable method's
// CalibrateOutput.
type MethodCalibrationResult struct {
	CalibratedScore    float64
	LabelProbabilities map[string]float64
	Transformation     string
	PosteriorSamples   []float64
	CredibleInterval95 *[2]float64
}

// Calibrable is the optional capability a method class's method output
// may expose: self-calibration instead of the central Gaussian-posterior
// fallback. The caller supplies the monolith-loaded thresholds so
// label-probability bucketing stays consistent with every other label
// assigned in the run, and a deterministically-seeded rng so posterior
// sampling reproduces across runs.
type Calibrable interface {
	// Domain names the output's semantic domain (e.g. "keyword_density",
	// "similarity_0_1") for provenance.
	Domain() string
	CalibrateOutput(ctx context.Context, rawScore float64, posteriorSamples []float64, thresholds questionnaire.Thresholds, rng *rand.Rand, shared map[string]any) (MethodCalibrationResult, error)
}
