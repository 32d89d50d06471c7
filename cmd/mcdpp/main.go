// Command mcdpp scores a municipal development plan against the 300
// micro-question questionnaire and emits the full artifact set under
// artifacts-dir.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/aggregation"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/calibration"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/chunks"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/contracts"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/evidence"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/ingestion"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/irrigation"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/methods"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/pipeline"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/questionnaire"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/render"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/report"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/runtime"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/signals"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/synthesis"
	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/pkg/version"
)

// Exit codes, one per failure phase.
const (
	exitOK                   = 0
	exitUsage                = 2
	exitGateFailure          = 10
	exitContractDefect       = 11
	exitSynchronization      = 12
	exitPlanBuild            = 13
	exitPhase2Abort          = 20
	exitAggregationViolation = 30
	exitRenderFailure        = 40
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// cliFlags holds the parsed command-line flags. --artifacts-dir, --mode
// and --questionnaire override their environment variables when set;
// --plan and --config-dir have no environment counterpart.
type cliFlags struct {
	plan          string
	artifactsDir  string
	mode          string
	questionnaire string
	configDir     string
}

func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("mcdpp", flag.ContinueOnError)
	f := &cliFlags{}
	fs.StringVar(&f.plan, "plan", "", "path to the plan PDF (required)")
	fs.StringVar(&f.artifactsDir, "artifacts-dir", "", "artifact output directory (overrides ARTIFACTS_ROOT)")
	fs.StringVar(&f.mode, "mode", "", "prod|dev (overrides MODE)")
	fs.StringVar(&f.questionnaire, "questionnaire", "", "path to questionnaire_monolith.json (overrides QUESTIONNAIRE_PATH)")
	fs.StringVar(&f.configDir, "config-dir", ".", "directory holding .env, pipeline.yaml, contracts/, signal_packs/")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.plan == "" {
		return nil, fmt.Errorf("--plan is required")
	}
	return f, nil
}

// envOverride builds the EnvLookup runtime.Bootstrap consumes: flags
// win over the process environment.
func envOverride(f *cliFlags) runtime.EnvLookup {
	return func(key string) string {
		switch key {
		case "MODE":
			if f.mode != "" {
				return f.mode
			}
		case "ARTIFACTS_ROOT":
			if f.artifactsDir != "" {
				return f.artifactsDir
			}
		case "QUESTIONNAIRE_PATH":
			if f.questionnaire != "" {
				return f.questionnaire
			}
		}
		return os.Getenv(key)
	}
}

func run(args []string) int {
	for _, a := range args {
		if a == "--version" || a == "-version" {
			fmt.Println(version.Full())
			return exitOK
		}
	}

	f, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mcdpp:", err)
		return exitUsage
	}

	cfg, err := runtime.Bootstrap(runtime.BootstrapOptions{
		ConfigDir: f.configDir,
		PlanPath:  f.plan,
		Getenv:    envOverride(f),
	})
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		return exitGateFailure
	}

	ctx := context.Background()

	inputHash, err := hashFile(cfg.PlanPath)
	if err != nil {
		slog.Error("could not hash plan pdf", "path", cfg.PlanPath, "error", err)
		return exitGateFailure
	}
	questionnaireHash, err := hashFile(cfg.QuestionnairePath)
	if err != nil {
		slog.Error("could not hash questionnaire", "path", cfg.QuestionnairePath, "error", err)
		return exitGateFailure
	}

	seeds := runtime.NewSeedRegistry(inputHash)
	seeds.Apply()

	contractsDir := filepath.Join(f.configDir, "contracts")
	signalsDir := filepath.Join(f.configDir, "signal_packs")
	bootChecks := map[string]bool{
		"ingestion_collaborator": true, // FileProvider is always present
		"contracts_dir":          dirExists(contractsDir),
		"signal_packs_dir":       dirExists(signalsDir),
	}

	gateResults, gateErr := runtime.RunGates(runtime.GateAttributes{
		ConfigInitialized:       true,
		SeedRegistryInitialized: true,
		ArtifactRootInitialized: dirExists(cfg.ArtifactsDir),
		InputHash:               inputHash,
		QuestionnaireHash:       questionnaireHash,
		Mode:                    cfg.Mode,
		BootChecks:              bootChecks,
		Seeds:                   seeds,
	})

	verification := runtime.VerificationManifest{
		GeneratedAt: time.Now().UTC(),
		ToolVersion: version.Full(),
		Gates:       gateResults,
		Seeds:       seeds.Snapshot(),
	}
	if gateErr != nil {
		var failing int
		if len(gateResults) > 0 {
			failing = gateResults[len(gateResults)-1].ID
		}
		verification.FailingGate = &failing
		verification.AbortReason = gateErr.Error()
		writeJSON(cfg.ArtifactsDir, "verification_manifest.json", verification)
		slog.Error("admission gates failed", "error", gateErr)
		return exitGateFailure
	}

	monolith, err := questionnaire.Load(cfg.QuestionnairePath)
	if err != nil {
		slog.Error("questionnaire load failed", "error", err)
		return exitContractDefect
	}

	contractResult, err := contracts.Load(contractsDir, cfg.Mode)
	if err != nil {
		slog.Error("contract load failed", "error", err)
		return exitContractDefect
	}
	for name, errs := range contractResult.Rejected {
		slog.Warn("contract rejected", "file_or_id", name, "errors", len(errs))
	}

	signalReg, err := signals.Load(signalsDir)
	if err != nil {
		slog.Error("signal pack load failed", "error", err)
		return exitContractDefect
	}

	provider := ingestion.FileProvider{}
	chunkList, err := provider.Ingest(ctx, cfg.PlanPath, monolith)
	if err != nil {
		slog.Error("ingestion failed", "error", err)
		return exitSynchronization
	}
	matrix, err := chunks.NewMatrix(chunkList)
	if err != nil {
		slog.Error("chunk matrix build failed", "error", err)
		return exitSynchronization
	}

	plan, irrigationManifest, err := irrigation.Build(contractResult.Registry, matrix, signalReg, irrigation.BuildOptions{
		Monolith:      monolith,
		CorrelationID: cfg.CorrelationID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Mode:          cfg.Mode,
	})
	if err != nil {
		slog.Error("execution plan build failed", "error", err)
		return exitPlanBuild
	}

	verification.Bindings = irrigationManifest
	writeJSON(cfg.ArtifactsDir, "verification_manifest.json", verification)
	writeJSON(cfg.ArtifactsDir, "execution_plan.json", plan)

	driver := pipeline.NewDriver(cfg.MaxWorkers, cfg.Pipeline.Resources.SampleInterval, map[string]time.Duration{
		"phase2":      cfg.Pipeline.Timeouts.Phase2,
		"aggregation": cfg.Pipeline.Timeouts.Aggregation,
		"report":      cfg.Pipeline.Timeouts.Report,
	})
	driver.Start(ctx)
	defer driver.Stop()

	router := methods.NewBuiltinRouter()
	calPolicy := calibration.NewPolicy(monolith.Thresholds)
	gate := synthesis.Gate{
		MinFleschEase:         cfg.Pipeline.Readability.MinFleschReadingEase,
		MaxMeanSentenceLength: cfg.Pipeline.Readability.MaxAvgSentenceWords,
	}

	microRows := make([]report.MicroRow, len(plan.Tasks))
	microScores := make([]aggregation.MicroScore, len(plan.Tasks))
	indices := make([]int, len(plan.Tasks))
	for i := range indices {
		indices[i] = i
	}

	phase2Ctx := ctx
	if timeout := cfg.Pipeline.Timeouts.Phase2; timeout > 0 {
		var cancel context.CancelFunc
		phase2Ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	phase2Err := pipeline.RunPhase2(phase2Ctx, driver, "phase2", indices, func(ctx context.Context, idx int) error {
		task := plan.Tasks[idx]
		contract, err := contractResult.Registry.Get(task.QuestionID)
		if err != nil {
			return fmt.Errorf("phase2: %s: %w", task.QuestionID, err)
		}

		result, evErr := evidence.Run(ctx, router, contract, task)
		if evErr != nil {
			// Method failures retry once with optional signals dropped
			// before failing the question (not the phase).
			result, evErr = evidence.Run(ctx, router, contract, withoutOptionalSignals(task, contract))
		}
		if evErr != nil {
			row, score := degradedMicro(task, evErr)
			microRows[idx] = row
			microScores[idx] = score
			return nil
		}
		if result.Aborted {
			// abort_on_critical fails the question, not the plan.
			row, score := degradedMicro(task, fmt.Errorf("critical validation failure: %s", result.AbortReason))
			microRows[idx] = row
			microScores[idx] = score
			return nil
		}

		rng := deriveQuestionRand(inputHash, task.QuestionID)
		calibrated, calErr := calPolicy.Calibrate(ctx, task.QuestionID, result.RawScore(), result.RawOutput(), nil, rng)
		if calErr != nil {
			row, score := degradedMicro(task, calErr)
			microRows[idx] = row
			microScores[idx] = score
			return nil
		}

		narrative, synErr := synthesis.Render(contract, result, calibrated, gate)
		if synErr != nil {
			return fmt.Errorf("phase2: %s: %w", task.QuestionID, synErr)
		}

		microRows[idx] = report.MicroRow{
			QuestionID:     task.QuestionID,
			PolicyAreaID:   task.PolicyAreaID,
			DimensionID:    task.DimensionID,
			Score:          calibrated.CalibratedScore,
			QualityLevel:   calibrated.Label,
			EvidenceDigest: result.Assembled.GraphDigest,
			Narrative:      narrative.Text,
		}
		microScores[idx] = aggregation.MicroScore{
			QuestionID:   task.QuestionID,
			PolicyAreaID: task.PolicyAreaID,
			DimensionID:  task.DimensionID,
			Score01:      calibrated.CalibratedScore,
			Weight:       calibrated.Weight,
		}
		return nil
	})
	if phase2Err != nil {
		if phase2Ctx.Err() == context.DeadlineExceeded {
			driver.Abort.Set(pipeline.AbortReasonTimeout)
		}
		slog.Error("phase 2 aborted", "error", phase2Err)
		persistBestEffort(driver, cfg.ArtifactsDir)
		return exitPhase2Abort
	}

	writeAuditLog(cfg.ArtifactsDir, calPolicy.Audit.All())

	var dimScores []aggregation.DimensionScore
	var areaScores []aggregation.AreaScore
	var clusterScores []aggregation.ClusterScore
	var macro aggregation.MacroScore
	var critical bool
	_ = driver.RunPhase(ctx, "aggregation", len(microScores), func(ctx context.Context, rec *pipeline.PhaseRecorder) error {
		dimScores, areaScores, clusterScores, macro, critical = aggregateAll(monolith, microScores, seeds.NumericRand())
		rec.RecordItem(0)
		return nil
	})
	if critical {
		slog.Error("aggregation produced a CRITICAL invariant violation")
		persistBestEffort(driver, cfg.ArtifactsDir)
		return exitAggregationViolation
	}

	reportErr := driver.RunPhase(ctx, "report", len(microRows), func(ctx context.Context, rec *pipeline.PhaseRecorder) error {
		rep := report.Assemble(report.AssembleOptions{
			ReportID:            cfg.CorrelationID,
			PlanID:              plan.PlanID,
			InputPDFSHA256:      inputHash,
			QuestionnaireSHA256: questionnaireHash,
			Macro:               macro,
			Clusters:            clusterScores,
			Areas:               areaScores,
			Dimensions:          dimScores,
			Micro:               microRows,
		})
		rec.RecordItem(0)
		_, err := report.WriteArtifacts(cfg.ArtifactsDir, rep, render.NoPDFRenderer{}, time.Now().UTC())
		return err
	})
	if reportErr != nil {
		slog.Error("report rendering failed", "error", reportErr)
		persistBestEffort(driver, cfg.ArtifactsDir)
		return exitRenderFailure
	}

	persistBestEffort(driver, cfg.ArtifactsDir)

	slog.Info("mcdpp run complete", "version", version.Full(), "artifacts_dir", cfg.ArtifactsDir, "plan_id", plan.PlanID)
	return exitOK
}

// withoutOptionalSignals builds the method-failure retry task: the
// same task with every contract-declared optional signal removed from
// resolved_signals.
func withoutOptionalSignals(task irrigation.ExecutableTask, contract *contracts.Contract) irrigation.ExecutableTask {
	optional := make(map[string]bool, len(contract.SignalRequirements.OptionalSignals))
	for _, name := range contract.SignalRequirements.OptionalSignals {
		optional[name] = true
	}
	trimmed := make(map[string]*signals.SignalDescriptor, len(task.ResolvedSignals))
	for name, desc := range task.ResolvedSignals {
		if optional[name] {
			continue
		}
		trimmed[name] = desc
	}
	retry := task
	retry.ResolvedSignals = trimmed
	return retry
}

// degradedMicro builds the row for a question that could not be scored
// (method failure after the retry, a critical validation abort, or a
// calibration error): quality_level INSUFICIENTE, score 0, and a
// narrative recording the cause instead of aborting Phase 2 for the
// rest of the plan.
func degradedMicro(task irrigation.ExecutableTask, cause error) (report.MicroRow, aggregation.MicroScore) {
	digest := canon.SHA256Hex([]byte(task.TaskID + ":method_execution_failure"))
	row := report.MicroRow{
		QuestionID:     task.QuestionID,
		PolicyAreaID:   task.PolicyAreaID,
		DimensionID:    task.DimensionID,
		Score:          0,
		QualityLevel:   questionnaire.QualityInsuficiente,
		EvidenceDigest: digest,
		Narrative:      fmt.Sprintf("No fue posible completar la evaluación de esta pregunta: %v.", cause),
	}
	score := aggregation.MicroScore{
		QuestionID:   task.QuestionID,
		PolicyAreaID: task.PolicyAreaID,
		DimensionID:  task.DimensionID,
		Score01:      0,
		Weight:       questionnaire.QualityInsuficiente.BaseWeight() * 0.7,
	}
	return row, score
}

// aggregateAll runs the four aggregation levels over every (PA,DIM)
// cell and reports whether any CRITICAL invariant violation occurred.
func aggregateAll(m *questionnaire.Monolith, micro []aggregation.MicroScore, rng *rand.Rand) (
	[]aggregation.DimensionScore, []aggregation.AreaScore, []aggregation.ClusterScore, aggregation.MacroScore, bool,
) {
	byCell := make(map[string][]aggregation.MicroScore, 60)
	for _, ms := range micro {
		key := questionnaire.ChunkKey(ms.PolicyAreaID, ms.DimensionID)
		byCell[key] = append(byCell[key], ms)
	}

	var critical bool
	noteCritical := func(violations []aggregation.Violation) {
		for _, v := range violations {
			if v.Severity == aggregation.SeverityCritical {
				critical = true
			}
		}
	}

	dimScores := make([]aggregation.DimensionScore, 0, 60)
	for _, pa := range questionnaire.AllPolicyAreas() {
		for _, dim := range questionnaire.AllDimensions() {
			key := questionnaire.ChunkKey(pa, dim)
			ds, violations := aggregation.AggregateDimension(pa, dim, byCell[key], m.Thresholds, rng)
			noteCritical(violations)
			dimScores = append(dimScores, ds)
		}
	}

	dimByPA := make(map[questionnaire.PolicyArea][]aggregation.DimensionScore, 10)
	for _, ds := range dimScores {
		dimByPA[ds.PolicyAreaID] = append(dimByPA[ds.PolicyAreaID], ds)
	}
	areaScores := make([]aggregation.AreaScore, 0, 10)
	for _, pa := range questionnaire.AllPolicyAreas() {
		as, violations := aggregation.AggregateArea(pa, dimByPA[pa], m.Thresholds)
		noteCritical(violations)
		areaScores = append(areaScores, as)
	}

	areaByPA := make(map[questionnaire.PolicyArea]aggregation.AreaScore, 10)
	for _, as := range areaScores {
		areaByPA[as.PolicyAreaID] = as
	}
	clusterScores := make([]aggregation.ClusterScore, 0, 4)
	for _, cl := range questionnaire.AllClusters() {
		expected := m.ClusterMembership[cl]
		members := make([]aggregation.AreaScore, 0, len(expected))
		for _, pa := range expected {
			if as, ok := areaByPA[pa]; ok {
				members = append(members, as)
			}
		}
		cs, violations := aggregation.AggregateCluster(cl, members, expected, m.Thresholds)
		noteCritical(violations)
		clusterScores = append(clusterScores, cs)
	}

	matrix := make([]aggregation.MatrixCell, 0, 60)
	for _, ds := range dimScores {
		matrix = append(matrix, aggregation.MatrixCell{
			PolicyAreaID: ds.PolicyAreaID,
			DimensionID:  ds.DimensionID,
			Score01:      ds.Score / aggregation.MaxScore,
		})
	}
	macro, violations := aggregation.AggregateMacro(clusterScores, areaScores, matrix, m.Thresholds)
	noteCritical(violations)

	return dimScores, areaScores, clusterScores, macro, critical
}

// deriveQuestionRand seeds one question's deterministic RNG from the
// run's input hash, the same HMAC derivation pkg/runtime's seed
// registry uses, so Phase 2's concurrent workers each get their own
// *rand.Rand instead of sharing one across goroutines.
func deriveQuestionRand(inputHash, questionID string) *rand.Rand {
	seedHex := canon.DeriveSeed(inputHash, questionID)
	n, err := strconv.ParseUint(seedHex[:16], 16, 64)
	if err != nil {
		n = 1
	}
	return rand.New(rand.NewSource(int64(n)))
}

func persistBestEffort(d *pipeline.Driver, dir string) {
	if err := d.Persist(dir); err != nil {
		slog.Warn("could not persist pipeline metrics", "error", err)
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return canon.SHA256OfReader(f)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func writeJSON(dir, name string, v any) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("could not create artifacts dir", "dir", dir, "error", err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), canon.MustMarshal(v), 0o644); err != nil {
		slog.Warn("could not write artifact", "name", name, "error", err)
	}
}

func writeAuditLog(dir string, entries []calibration.CalibrationProvenance) {
	var out []byte
	for _, e := range entries {
		out = append(out, canon.MustMarshal(e)...)
		out = append(out, '\n')
	}
	if err := os.WriteFile(filepath.Join(dir, "calibration_audit.jsonl"), out, 0o644); err != nil {
		slog.Warn("could not write calibration audit log", "error", err)
	}
}
