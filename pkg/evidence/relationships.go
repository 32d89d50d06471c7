package evidence

import (
	"fmt"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
)

// inferRelationships walks the shared pipeline outputs for
// temporal-ordering and contradiction method results and adds the
// implicit edges they describe to the graph: an
// out-of-order temporal fact becomes a temporally_orders edge, and each
// detected numeric contradiction becomes a contradicts edge. A node is
// added for the originating provides key if buildGraph didn't already
// add one (not every method output feeds an assembly rule).
func inferRelationships(g *Graph, shared map[string]any) {
	hasNode := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		hasNode[n.ID] = true
	}
	ensureNode := func(key string, v any) {
		if hasNode[key] {
			return
		}
		g.Nodes = append(g.Nodes, Node{ID: key, Type: "method_output", Value: v, Source: key, Confidence: 1})
		hasNode[key] = true
	}

	for key, v := range shared {
		switch out := v.(type) {
		case methods.TemporalOrder:
			if !out.InOrder {
				ensureNode(key, out)
				for _, idx := range out.OutOfOrder {
					g.Edges = append(g.Edges, Edge{
						From: key,
						To:   fmt.Sprintf("%s#fact%d", key, idx),
						Type: EdgeTemporallyOrders,
					})
				}
			}
		case methods.Contradictions:
			if len(out.Contradictions) > 0 {
				ensureNode(key, out)
				for i := range out.Contradictions {
					g.Edges = append(g.Edges, Edge{
						From: key,
						To:   fmt.Sprintf("%s#pair%d", key, i),
						Type: EdgeContradicts,
					})
				}
			}
		case methods.NumericConsistency:
			if len(out.Values) > 1 {
				ensureNode(key, out)
				g.Edges = append(g.Edges, Edge{From: key, To: key, Type: EdgeQuantifies})
			}
		}
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.SliceStable(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
}
