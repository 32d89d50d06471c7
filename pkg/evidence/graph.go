package evidence

import (
	"fmt"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
)

// buildGraph walks the contract's assembly_rules and merges the shared
// pipeline outputs (keyed by provides) into one Node per rule target,
// per the rule's merge_strategy.
func buildGraph(rules []contracts.AssemblyRule, shared map[string]any) (Graph, error) {
	g := Graph{}

	for _, rule := range rules {
		var sourceValues []any
		var sourceNames []string
		for _, src := range rule.Sources {
			if v, ok := shared[src]; ok {
				sourceValues = append(sourceValues, v)
				sourceNames = append(sourceNames, src)
				g.Nodes = append(g.Nodes, Node{
					ID:         src,
					Type:       "method_output",
					Value:      v,
					Source:     src,
					Confidence: 1,
				})
			}
		}

		merged, confidence, err := mergeValues(rule, sourceValues)
		if err != nil {
			return Graph{}, fmt.Errorf("evidence: assembly rule %s: %w", rule.Target, err)
		}

		g.Nodes = append(g.Nodes, Node{
			ID:         rule.Target,
			Type:       "assembled",
			Value:      merged,
			Source:     rule.Target,
			Confidence: confidence,
		})
		for _, src := range sourceNames {
			g.Edges = append(g.Edges, Edge{From: src, To: rule.Target, Type: EdgeSupports})
		}
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.SliceStable(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
	return g, nil
}

// mergeValues applies one of the five closed merge strategies an
// assembly rule can declare and returns the merged value plus a
// confidence in [0,1].
func mergeValues(rule contracts.AssemblyRule, values []any) (any, float64, error) {
	if len(values) == 0 {
		return nil, 0, nil
	}

	switch rule.MergeStrategy {
	case contracts.MergeFirst:
		return values[0], 1, nil

	case contracts.MergeConcat:
		return values, 1, nil

	case contracts.MergeMajority:
		counts := make(map[string]int, len(values))
		for _, v := range values {
			counts[fmt.Sprintf("%v", v)]++
		}
		var winner string
		best := -1
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if counts[k] > best {
				best = counts[k]
				winner = k
			}
		}
		return winner, float64(best) / float64(len(values)), nil

	case contracts.MergeWeightedMean:
		var sum, weightTotal float64
		for i, v := range values {
			f, ok := asFloat(v)
			if !ok {
				return nil, 0, fmt.Errorf("weighted_mean source %d is not numeric: %v", i, v)
			}
			w := 1.0
			if rule.Weights != nil && i < len(rule.Sources) {
				if rw, ok := rule.Weights[rule.Sources[i]]; ok {
					w = rw
				}
			}
			sum += f * w
			weightTotal += w
		}
		if weightTotal == 0 {
			return nil, 0, fmt.Errorf("weighted_mean: zero total weight")
		}
		mean := sum / weightTotal
		return mean, 1, nil

	case contracts.MergeGraphConstruction:
		return values, 1, nil

	default:
		return nil, 0, fmt.Errorf("unknown merge_strategy %q", rule.MergeStrategy)
	}
}

// asFloat extracts a numeric value from the loosely-typed method output
// shapes used across pkg/methods: a bare number, or one of the known
// scalar-scored result structs.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case methods.KeywordHits:
		return t.WeightedScore, true
	case methods.SimilarityScore:
		return t.Score, true
	case methods.NumericConsistency:
		return t.ConsistencyScore, true
	default:
		return 0, false
	}
}
