package irrigation

import (
	"fmt"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/chunks"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/runtime"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/signals"
)

// BuildOptions carries everything Build needs beyond the three
// registries.
type BuildOptions struct {
	Monolith      *questionnaire.Monolith
	CorrelationID string
	CreatedAt     string
	Mode          runtime.Mode
}

// Build runs the eight plan-construction sub-phases and emits one immutable
// ExecutionPlan plus its VerificationManifest. Building the plan is a
// single transaction: any sub-phase failure aborts the whole build. The
// one Mode-dependent check is signal resolution: a contract with missing
// mandatory signals aborts the build in PROD, while in DEV its task is
// built with the signals that did resolve.
func Build(contractReg *contracts.Registry, matrix *chunks.Matrix, signalReg *signals.Registry, opts BuildOptions) (*ExecutionPlan, *VerificationManifest, error) {
	// Sub-phase 1: validate monolith counts.
	if contractReg.Len() != 300 {
		return nil, nil, fmt.Errorf("irrigation: expected 300 contracts, got %d", contractReg.Len())
	}
	if matrix.Len() != 60 {
		return nil, nil, fmt.Errorf("irrigation: expected 60 chunks, got %d", matrix.Len())
	}
	if signalReg.Len() != 10 {
		return nil, nil, fmt.Errorf("irrigation: expected 10 signal packs, got %d", signalReg.Len())
	}

	bindings := make([]ExecutorChunkBinding, 0, 300)
	tasks := make([]ExecutableTask, 0, 300)
	taskIDs := make(map[string]bool, 300)

	var buildErr error
	contractReg.Iterate(func(c *contracts.Contract) {
		if buildErr != nil {
			return
		}

		// Sub-phase 2: chunk lookup.
		chunk, ok := matrix.Get(c.PolicyAreaID, c.DimensionID)
		if !ok {
			bindings = append(bindings, ExecutorChunkBinding{
				ExecutorContractID: c.QuestionID,
				ChunkID:            questionnaire.ChunkKey(c.PolicyAreaID, c.DimensionID),
				Status:             StatusMissingChunk,
			})
			buildErr = fmt.Errorf("irrigation: missing chunk for %s (%s/%s)", c.QuestionID, c.PolicyAreaID, c.DimensionID)
			return
		}
		if chunk.PolicyAreaID != c.PolicyAreaID || chunk.DimensionID != c.DimensionID {
			bindings = append(bindings, ExecutorChunkBinding{
				ExecutorContractID: c.QuestionID,
				ChunkID:            chunk.Key(),
				Status:             StatusMismatch,
			})
			buildErr = fmt.Errorf("irrigation: chunk (PA,DIM) disagrees with contract for %s", c.QuestionID)
			return
		}

		// Sub-phase 4: filter expected_patterns to the chunk's (PA,DIM).
		expectedPatterns := c.QuestionContext.Patterns
		if len(expectedPatterns) == 0 && opts.Monolith != nil {
			expectedPatterns = filterPatternsForPA(opts.Monolith.DefaultPatterns, c.PolicyAreaID)
		}

		// Sub-phase 5: resolve expected_signals against the SignalPack.
		resolution, err := signalReg.Resolve(c.PolicyAreaID, c.SignalRequirements.MandatorySignals, c.SignalRequirements.OptionalSignals)
		if err != nil {
			buildErr = fmt.Errorf("irrigation: resolve signals for %s: %w", c.QuestionID, err)
			return
		}
		if !resolution.OK() && opts.Mode == runtime.ModeProd {
			bindings = append(bindings, ExecutorChunkBinding{
				ExecutorContractID: c.QuestionID,
				ChunkID:            chunk.Key(),
				Status:             StatusMissingSignals,
			})
			buildErr = fmt.Errorf("irrigation: missing mandatory signals for %s: %v", c.QuestionID, resolution.Missing)
			return
		}

		resolvedSignals := make(map[string]*signals.SignalDescriptor, len(resolution.Mandatory)+len(resolution.Optional))
		irrigatedNames := make([]string, 0, len(resolvedSignals))
		for name, d := range resolution.Mandatory {
			resolvedSignals[name] = d
			irrigatedNames = append(irrigatedNames, name)
		}
		for name, d := range resolution.Optional {
			resolvedSignals[name] = d
			irrigatedNames = append(irrigatedNames, name)
		}

		// Sub-phase 3 + 6: build the binding and the task.
		binding := ExecutorChunkBinding{
			ExecutorContractID: c.QuestionID,
			ChunkID:            chunk.Key(),
			ExpectedPatterns:   expectedPatterns,
			ExpectedSignals:    append(append([]string{}, c.SignalRequirements.MandatorySignals...), c.SignalRequirements.OptionalSignals...),
			IrrigatedPatterns:  expectedPatterns,
			IrrigatedSignals:   irrigatedNames,
			Status:             StatusMatched,
		}
		bindings = append(bindings, binding)

		global := questionGlobalFromID(c.QuestionID)
		taskID := fmt.Sprintf("MQC-%03d_%s", global, c.PolicyAreaID)
		if taskIDs[taskID] {
			buildErr = fmt.Errorf("irrigation: duplicate task_id %s (HARD STOP)", taskID)
			return
		}
		taskIDs[taskID] = true

		tasks = append(tasks, ExecutableTask{
			TaskID:             taskID,
			QuestionID:         c.QuestionID,
			PolicyAreaID:       c.PolicyAreaID,
			DimensionID:        c.DimensionID,
			ChunkID:            chunk.Key(),
			ChunkText:          chunk.Text,
			ApplicablePatterns: expectedPatterns,
			ResolvedSignals:    resolvedSignals,
			ExpectedElements:   c.QuestionContext.ExpectedElements,
		})
	})

	if buildErr != nil {
		return nil, nil, buildErr
	}

	// Sub-phase 7: cross-task cardinality.
	invariants, perChunk, perPA, perDim := checkCardinality(tasks)
	for name, ok := range invariants {
		if !ok {
			return nil, nil, fmt.Errorf("irrigation: cardinality invariant %s violated", name)
		}
	}

	// Sub-phase 8: emit plan with deterministic plan_id.
	projections := make([]taskProjection, len(tasks))
	for i, t := range tasks {
		projections[i] = taskProjection{
			TaskID:       t.TaskID,
			QuestionID:   t.QuestionID,
			PolicyAreaID: t.PolicyAreaID,
			DimensionID:  t.DimensionID,
			ChunkID:      t.ChunkID,
		}
	}
	planID, err := canon.SHA256OfJSON(projections)
	if err != nil {
		return nil, nil, fmt.Errorf("irrigation: hash plan: %w", err)
	}
	integrityHash, err := canon.SHA256OfJSON(tasks)
	if err != nil {
		return nil, nil, fmt.Errorf("irrigation: hash tasks: %w", err)
	}

	plan := &ExecutionPlan{
		Tasks:         tasks,
		PlanID:        planID,
		IntegrityHash: integrityHash,
		CorrelationID: opts.CorrelationID,
		CreatedAt:     opts.CreatedAt,
	}

	manifest := &VerificationManifest{
		Bindings:       bindings,
		Invariants:     invariants,
		PerChunkCounts: perChunk,
		PerPACounts:    perPA,
		PerDimCounts:   perDim,
	}

	return plan, manifest, nil
}

func filterPatternsForPA(patterns []questionnaire.PatternSpec, pa questionnaire.PolicyArea) []questionnaire.PatternSpec {
	out := make([]questionnaire.PatternSpec, 0, len(patterns))
	for _, p := range patterns {
		if p.PolicyAreaID == "" || p.PolicyAreaID == pa {
			out = append(out, p)
		}
	}
	return out
}

func questionGlobalFromID(questionID string) int {
	var n int
	fmt.Sscanf(questionID, "Q%d", &n)
	return n
}

func checkCardinality(tasks []ExecutableTask) (invariants map[string]bool, perChunk, perPA, perDim map[string]int) {
	perChunk = make(map[string]int)
	perPA = make(map[string]int)
	perDim = make(map[string]int)

	for _, t := range tasks {
		perChunk[t.ChunkID]++
		perPA[string(t.PolicyAreaID)]++
		perDim[string(t.DimensionID)]++
	}

	invariants = make(map[string]bool, 3)

	chunkOK := true
	for _, n := range perChunk {
		if n != 5 {
			chunkOK = false
			break
		}
	}
	invariants["per_chunk_equals_5"] = chunkOK && len(perChunk) == 60

	paOK := true
	for _, n := range perPA {
		if n != 30 {
			paOK = false
			break
		}
	}
	invariants["per_pa_equals_30"] = paOK && len(perPA) == 10

	dimOK := true
	for _, n := range perDim {
		if n != 50 {
			dimOK = false
			break
		}
	}
	invariants["per_dim_equals_50"] = dimOK && len(perDim) == 6

	invariants["task_count_equals_300"] = len(tasks) == 300

	return invariants, perChunk, perPA, perDim
}
