package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ALOHAALOHAALOJHA/FARFAN-MCDPP-sub014/internal/canon"
)

const (
	filePhaseMetrics      = "phase_metrics.json"
	fileResourceUsage     = "resource_usage.jsonl"
	fileLatencyHistograms = "latency_histograms.json"
)

// Persist writes the three post-run metrics artifacts:
// phase_metrics.json (full per-phase metrics, deterministic key order —
// guaranteed by the driver's append-in-run-order accumulation),
// resource_usage.jsonl (one snapshot per line), and
// latency_histograms.json (phase -> histogram).
func (d *Driver) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pipeline: create metrics dir: %w", err)
	}

	phaseJSON := canon.MustMarshal(d.metrics)
	if err := os.WriteFile(filepath.Join(dir, filePhaseMetrics), phaseJSON, 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", filePhaseMetrics, err)
	}

	histograms := make(map[string]LatencyHistogram, len(d.metrics))
	for _, m := range d.metrics {
		histograms[m.Phase] = m.Latency
	}
	histJSON := canon.MustMarshal(histograms)
	if err := os.WriteFile(filepath.Join(dir, fileLatencyHistograms), histJSON, 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", fileLatencyHistograms, err)
	}

	var usage []byte
	for _, snap := range d.Sampler.Samples() {
		line := canon.MustMarshal(snap)
		usage = append(usage, line...)
		usage = append(usage, '\n')
	}
	if err := os.WriteFile(filepath.Join(dir, fileResourceUsage), usage, 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", fileResourceUsage, err)
	}

	return nil
}
