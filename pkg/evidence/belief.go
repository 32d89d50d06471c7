package evidence

// propagateBelief applies a bounded Dempster-Shafer-style combination
// pass over the graph: each assembled node's confidence
// is combined with its supporting sources' via Dempster's rule, and
// each contradicts edge discounts both endpoints. Bounded to a single
// pass — the graphs here are shallow (assembly fan-in is rarely more
// than a handful of sources), so iterating to a fixed point adds
// nothing a one-pass combination doesn't already capture.
func propagateBelief(g *Graph) {
	byID := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		byID[n.ID] = i
	}

	supports := make(map[string][]string, len(g.Edges))
	contradicts := make(map[string]int, len(g.Edges))
	for _, e := range g.Edges {
		switch e.Type {
		case EdgeSupports:
			supports[e.To] = append(supports[e.To], e.From)
		case EdgeContradicts:
			contradicts[e.From]++
			contradicts[e.To]++
		}
	}

	for target, sources := range supports {
		idx, ok := byID[target]
		if !ok {
			continue
		}
		belief := g.Nodes[idx].Confidence
		for _, src := range sources {
			srcIdx, ok := byID[src]
			if !ok {
				continue
			}
			belief = dempsterCombine(belief, g.Nodes[srcIdx].Confidence)
		}
		g.Nodes[idx].Confidence = belief
	}

	for id, n := range contradicts {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		discount := 1.0
		for i := 0; i < n; i++ {
			discount *= 0.8
		}
		g.Nodes[idx].Confidence *= discount
	}
}

// dempsterCombine combines two independent confidence masses for the
// same proposition under Dempster's rule with no conflict mass (both
// masses are taken to agree on the proposition, so the normalizer is
// 1): m(A) = m1(A) + m2(A) - m1(A)*m2(A).
func dempsterCombine(a, b float64) float64 {
	return a + b - a*b
}
