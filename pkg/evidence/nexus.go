package evidence

import (
	"context"
	"fmt"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/irrigation"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
)

// digestInput is the hash-only subset of the graph: graph_digest is
// the SHA-256 over the sorted nodes and edges.
type digestInput struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Run executes the full six-step Evidence Nexus pipeline for one
// executable task against its contract: method execution, graph
// construction, relationship inference, belief propagation, validation,
// and final assembly.
func Run(ctx context.Context, router *methods.Router, contract *contracts.Contract, task irrigation.ExecutableTask) (*Result, error) {
	// Step 1: execution.
	shared, err := runPipeline(ctx, router, contract, task)
	if err != nil {
		return nil, err
	}

	// Step 2: graph construction.
	graph, err := buildGraph(contract.EvidenceAssembly.AssemblyRules, shared)
	if err != nil {
		return nil, err
	}

	// Step 3: relationship inference.
	inferRelationships(&graph, shared)

	// Step 4: bounded belief propagation.
	propagateBelief(&graph)

	// Step 6 (assembled first so validation can reference elements_found).
	assembled, err := assemble(contract, graph, task)
	if err != nil {
		return nil, err
	}

	// Step 5: validation.
	failures := validate(contract.ValidationRules, graph, assembled)
	aborted, reason := hasCriticalAbort(contract.ValidationRules, failures)

	irrigated := make([]string, 0, len(task.ResolvedSignals))
	for name := range task.ResolvedSignals {
		irrigated = append(irrigated, name)
	}
	sort.Strings(irrigated)

	used := make([]string, 0)
	if v, ok := shared["resolved_signals"].([]string); ok {
		used = append(used, v...)
	}

	return &Result{
		Graph:       graph,
		Assembled:   assembled,
		Failures:    failures,
		Provenance:  SignalProvenance{Irrigated: irrigated, Used: used},
		Aborted:     aborted,
		AbortReason: reason,
	}, nil
}

// assemble produces the final evidence object:
// elements_found from assembled-node targets, confidence_scores keyed
// by node ID, pattern_matches from the applicable patterns that
// actually matched (derived from textmining's ByPattern), and a
// graph_digest committing to the full sorted node/edge set.
func assemble(contract *contracts.Contract, g Graph, task irrigation.ExecutableTask) (Assembled, error) {
	elementsFound := make([]string, 0, len(contract.EvidenceAssembly.AssemblyRules))
	confidenceScores := make(map[string]float64, len(g.Nodes))
	for _, rule := range contract.EvidenceAssembly.AssemblyRules {
		elementsFound = append(elementsFound, rule.Target)
	}
	for _, n := range g.Nodes {
		confidenceScores[n.ID] = n.Confidence
	}

	var patternMatches []string
	for _, n := range g.Nodes {
		hits, ok := n.Value.(methods.KeywordHits)
		if !ok {
			continue
		}
		names := make([]string, 0, len(hits.ByPattern))
		for name, count := range hits.ByPattern {
			if count > 0 {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		patternMatches = append(patternMatches, names...)
	}

	digest, err := canon.SHA256OfJSON(digestInput{Nodes: g.Nodes, Edges: g.Edges})
	if err != nil {
		return Assembled{}, fmt.Errorf("evidence: hash graph for %s: %w", task.QuestionID, err)
	}

	return Assembled{
		ElementsFound:    elementsFound,
		ConfidenceScores: confidenceScores,
		PatternMatches:   patternMatches,
		Metadata: map[string]any{
			"question_id":    task.QuestionID,
			"policy_area_id": string(task.PolicyAreaID),
			"dimension_id":   string(task.DimensionID),
		},
		GraphDigest: digest,
	}, nil
}
