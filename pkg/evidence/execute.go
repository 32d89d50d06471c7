package evidence

import (
	"context"
	"fmt"
	"sort"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/irrigation"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
)

// buildArgs returns the kwargs a given (class, method) expects, drawn
// from the task's irrigated context (applicable patterns, resolved
// signals, expected elements). Methods not listed here take no kwargs.
func buildArgs(entry contracts.MethodBindingEntry, task irrigation.ExecutableTask, contract *contracts.Contract) map[string]any {
	switch entry.MethodName {
	case "ExtractKeywordHits":
		return map[string]any{"patterns": task.ApplicablePatterns}
	case "ScoreSimilarity":
		return map[string]any{"question_text": contract.QuestionContext.QuestionText}
	case "AuditFinancialFigures", "ClassifyInstitutionalReferences":
		return map[string]any{"expected_elements": task.ExpectedElements}
	default:
		return nil
	}
}

// runPipeline executes the contract's method_binding pipeline, ordered
// by Priority, over the task's chunk text. The shared
// context returned is keyed by provides and seeded with the irrigated
// signal names so method bodies that inspect task.ResolvedSignals via
// Shared can find them.
func runPipeline(ctx context.Context, router *methods.Router, contract *contracts.Contract, task irrigation.ExecutableTask) (map[string]any, error) {
	ordered := append([]contracts.MethodBindingEntry{}, contract.MethodBinding...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	shared := make(map[string]any, len(ordered)+1)
	resolvedNames := make([]string, 0, len(task.ResolvedSignals))
	for name := range task.ResolvedSignals {
		resolvedNames = append(resolvedNames, name)
	}
	sort.Strings(resolvedNames)
	shared["resolved_signals"] = resolvedNames

	bindings := make([]methods.Binding, 0, len(ordered))
	for _, entry := range ordered {
		bindings = append(bindings, methods.Binding{
			ClassName:  entry.ClassName,
			MethodName: entry.MethodName,
			Provides:   entry.Provides,
			Args:       buildArgs(entry, task, contract),
		})
	}

	if err := router.RunPipeline(ctx, task.ChunkText, bindings, shared); err != nil {
		return nil, fmt.Errorf("evidence: method pipeline for %s: %w", task.QuestionID, err)
	}
	return shared, nil
}
