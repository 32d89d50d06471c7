package methods

import (
	"log/slog"
	"regexp"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
)

// compiledPattern pairs a contract's declared pattern with its compiled
// regex. Invalid patterns are logged and skipped rather than aborting
// the method.
type compiledPattern struct {
	ID     string
	Type   string
	Regex  *regexp.Regexp
	Weight float64
}

// compilePatterns compiles a contract's question_context.patterns,
// skipping any that fail to compile.
func compilePatterns(specs []questionnaire.PatternSpec) []compiledPattern {
	out := make([]compiledPattern, 0, len(specs))
	for _, p := range specs {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			slog.Warn("methods: skipping uncompilable pattern", "pattern_id", p.ID, "error", err)
			continue
		}
		out = append(out, compiledPattern{ID: p.ID, Type: p.Type, Regex: re, Weight: p.Weight})
	}
	return out
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func patternsArg(args map[string]any, key string) []questionnaire.PatternSpec {
	v, ok := args[key]
	if !ok {
		return nil
	}
	ps, _ := v.([]questionnaire.PatternSpec)
	return ps
}
